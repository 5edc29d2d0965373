// Package web serves the dashboard API: report and history reads, the
// check triggers with their busy-skip semantics, the assistant endpoint,
// and the self-hosted speedtest payload endpoints that let one instance
// act as another's probe backend.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"wifi-monitor/internal/backend"
	"wifi-monitor/internal/models"
	"wifi-monitor/internal/progress"
)

//go:embed static
var staticFiles embed.FS

// Runner is the slice of the monitor the handlers need.
type Runner interface {
	RunCheck(ctx context.Context, tag string) (*models.ScanResult, *models.ScoreResult, error)
	PassiveTick(ctx context.Context) error
	Busy() bool
	Progress() (progress.Phase, int)
}

// Server handles dashboard requests.
type Server struct {
	db     models.Database
	runner Runner
	chat   backend.Client // nil when no backend is configured
	hub    *Hub
	log    zerolog.Logger

	listen string
	http   *http.Server

	// Cheap abuse protection for the endpoints that do real work or write.
	chatLimiter   *rate.Limiter
	signupLimiter *rate.Limiter
}

// New creates a web server.
func New(listen string, db models.Database, runner Runner, chat backend.Client, log zerolog.Logger) *Server {
	return &Server{
		db:            db,
		runner:        runner,
		chat:          chat,
		hub:           NewHub(log.With().Str("component", "ws").Logger()),
		log:           log,
		listen:        listen,
		chatLimiter:   rate.NewLimiter(rate.Every(2*time.Second), 5),
		signupLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// Hub returns the websocket broadcaster for the monitor hooks.
func (s *Server) Hub() *Hub { return s.hub }

// Start runs the server until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/latest-report", s.handleLatestReport)
	mux.HandleFunc("GET /api/history-series", s.handleHistorySeries)
	mux.HandleFunc("GET /api/history-daily", s.handleHistoryDaily)
	mux.HandleFunc("GET /api/outages", s.handleOutages)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/progress", s.handleProgress)

	mux.HandleFunc("POST /api/refresh-now", s.handleRefreshNow)
	mux.HandleFunc("POST /api/monitor-tick", s.handleMonitorTick)
	mux.HandleFunc("POST /api/troubleshoot-now", s.handleTroubleshootNow)

	mux.HandleFunc("GET /api/profile", s.handleProfileGet)
	mux.HandleFunc("PUT /api/profile", s.handleProfilePut)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/early-access", s.handleEarlyAccess)

	mux.HandleFunc("GET /speedtest/download", s.handleSpeedtestDownload)
	mux.HandleFunc("POST /speedtest/upload", s.handleSpeedtestUpload)

	mux.HandleFunc("/ws", s.handleWebSocket)

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))

	s.http = &http.Server{
		Addr:              s.listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("listen", s.listen).Msg("web server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
