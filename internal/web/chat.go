package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"wifi-monitor/internal/backend"
	"wifi-monitor/internal/models"
)

type chatRequest struct {
	Message string   `json:"message"`
	History []string `json:"history,omitempty"`
}

// handleChat answers troubleshooting questions. When a backend is
// configured the message is forwarded there; otherwise, or when the
// forward fails, a rule-based reply built from the latest report answers
// locally so the assistant never goes dark.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.chatLimiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid chat payload", http.StatusBadRequest)
		return
	}

	if s.chat != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		reply, err := s.chat.Chat(ctx, backend.ChatRequest{Message: req.Message, History: req.History})
		if err == nil && strings.TrimSpace(reply) != "" {
			writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
			return
		}
		s.log.Debug().Err(err).Msg("chat forward failed, using fallback")
	}

	writeJSON(w, http.StatusOK, map[string]any{"reply": s.fallbackReply(req.Message)})
}

// fallbackReply is the keyword-and-report answer ladder: speed complaints
// get the standard speed checklist, otherwise the latest report's top
// fixes, otherwise clarifying questions.
func (s *Server) fallbackReply(message string) string {
	m := strings.ToLower(message)

	if strings.Contains(m, "slow") {
		return "For slow speeds:\n" +
			"1) Check you're on 5GHz if close to the router.\n" +
			"2) Reboot modem and router.\n" +
			"3) Re-run a full health check and compare to your plan.\n" +
			"What download/upload do you see?"
	}

	var report models.Report
	if ok, err := s.db.GetState(models.StateKeyLatestReport, &report); err == nil && ok && len(report.Fixes) > 0 {
		top := report.Fixes
		if len(top) > 3 {
			top = top[:3]
		}
		return "Based on your latest scan, start here:\n• " + strings.Join(top, "\n• ")
	}

	return "Tell me more about the issue:\n" +
		"• all devices or just one?\n" +
		"• how far from the router?\n" +
		"• what speeds do you pay for?"
}
