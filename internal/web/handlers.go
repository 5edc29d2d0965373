package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wifi-monitor/internal/models"
	"wifi-monitor/internal/monitor"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// skippedResponse is the busy-rejection payload of the trigger endpoints.
// A second trigger while a check runs is not an error, just a no-op the
// caller can see.
var skippedResponse = map[string]any{"ok": false, "skipped": true}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "busy": s.runner.Busy()})
}

// latestReportResponse merges the newest local scan with whatever report
// the backend produced, so the dashboard gets one document to render.
type latestReportResponse struct {
	Score        *int               `json:"score"`
	Label        models.Label       `json:"label,omitempty"`
	Scan         *models.ScanResult `json:"scan,omitempty"`
	TrendSummary string             `json:"trend_summary,omitempty"`
	Report       *models.Report     `json:"report,omitempty"`
	Outages      []models.Outage    `json:"recent_outages,omitempty"`
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	resp := latestReportResponse{}

	scan, err := s.db.LatestScan()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if scan != nil {
		resp.Scan = scan
		resp.Score = &scan.Score
		resp.Label = scan.Label
	}

	var report models.Report
	if ok, err := s.db.GetState(models.StateKeyLatestReport, &report); err == nil && ok {
		resp.Report = &report
		resp.TrendSummary = report.TrendSummary
	}

	if outages, err := s.db.Outages(1); err == nil {
		resp.Outages = outages
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistorySeries(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	series, err := s.db.Series(hours)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleHistoryDaily(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	daily, err := s.db.Daily(days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if daily == nil {
		daily = []models.DailyAggregate{}
	}
	writeJSON(w, http.StatusOK, daily)
}

func (s *Server) handleOutages(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	outages, err := s.db.Outages(days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if outages == nil {
		outages = []models.Outage{}
	}
	writeJSON(w, http.StatusOK, outages)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	stats, err := s.db.WindowStats(hours)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	phase, pct := s.runner.Progress()
	writeJSON(w, http.StatusOK, map[string]any{"phase": phase, "percent": pct})
}

// handleRefreshNow starts a full check in the background. The caller
// follows along on /api/progress or the websocket.
func (s *Server) handleRefreshNow(w http.ResponseWriter, r *http.Request) {
	if s.runner.Busy() {
		writeJSON(w, http.StatusOK, skippedResponse)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, _, err := s.runner.RunCheck(ctx, "manual"); err != nil && !errors.Is(err, monitor.ErrCheckInProgress) {
			s.log.Warn().Err(err).Msg("manual check failed")
		}
	}()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "started": true})
}

func (s *Server) handleMonitorTick(w http.ResponseWriter, r *http.Request) {
	if s.runner.Busy() {
		writeJSON(w, http.StatusOK, skippedResponse)
		return
	}
	if err := s.runner.PassiveTick(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleTroubleshootNow runs a full check synchronously and returns the
// scored result. The run continues on the server's clock even if the
// browser gives up waiting.
func (s *Server) handleTroubleshootNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	scan, result, err := s.runner.RunCheck(ctx, "troubleshoot")
	if errors.Is(err, monitor.ErrCheckInProgress) {
		writeJSON(w, http.StatusOK, skippedResponse)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"score":         result.Score,
		"label":         result.Label,
		"explanation":   result.Explanation,
		"trend_summary": result.TrendSummary,
		"scan":          scan,
	})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	ok, err := s.db.GetState(models.StateKeyProfile, &profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, models.UserProfile{})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&profile); err != nil {
		http.Error(w, "invalid profile payload", http.StatusBadRequest)
		return
	}
	if err := s.db.SetState(models.StateKeyProfile, profile); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleEarlyAccess(w http.ResponseWriter, r *http.Request) {
	if !s.signupLimiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "valid email required", http.StatusBadRequest)
		return
	}
	if err := s.db.SaveSignup(req.Email, req.Source); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

const (
	maxPayloadMB     = 200
	defaultPayloadMB = 20
	payloadChunkSize = 64 << 10
)

// handleSpeedtestDownload streams size_mb of zeros so another instance
// (or the bundled dashboard) can time a download against this one.
func (s *Server) handleSpeedtestDownload(w http.ResponseWriter, r *http.Request) {
	sizeMB := float64(defaultPayloadMB)
	if v := r.URL.Query().Get("size_mb"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			sizeMB = parsed
		}
	}
	if sizeMB > maxPayloadMB {
		sizeMB = maxPayloadMB
	}
	total := int64(sizeMB * 1024 * 1024)

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Content-Length", strconv.FormatInt(total, 10))

	chunk := make([]byte, payloadChunkSize)
	for sent := int64(0); sent < total; {
		n := int64(len(chunk))
		if remaining := total - sent; remaining < n {
			n = remaining
		}
		written, err := w.Write(chunk[:n])
		if err != nil {
			return
		}
		sent += int64(written)
	}
}

// handleSpeedtestUpload drains and discards the posted payload.
func (s *Server) handleSpeedtestUpload(w http.ResponseWriter, r *http.Request) {
	n, err := io.Copy(io.Discard, io.LimitReader(r.Body, maxPayloadMB<<20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "received_bytes": n})
}
