// Package report renders the stored history into static charts and a
// text summary, evidence a user can attach to an ISP complaint.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"wifi-monitor/internal/database"
)

// Generator creates static images and reports from scan history.
type Generator struct {
	db  *database.DB
	log zerolog.Logger
}

// NewGenerator creates a new report generator.
func NewGenerator(db *database.DB, log zerolog.Logger) *Generator {
	return &Generator{db: db, log: log}
}

// GenerateReport renders all charts and the text summary into a
// timestamped directory under outputDir and returns its path. Individual
// chart failures are logged and skipped; a partial report beats none.
func (g *Generator) GenerateReport(outputDir string, hours int) (string, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("wifi_report_%s", timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := g.generateScoreChart(reportDir, hours); err != nil {
		g.log.Warn().Err(err).Msg("failed to generate score chart")
	}
	if err := g.generateThroughputChart(reportDir, hours); err != nil {
		g.log.Warn().Err(err).Msg("failed to generate throughput chart")
	}
	if err := g.generateLatencyChart(reportDir, hours); err != nil {
		g.log.Warn().Err(err).Msg("failed to generate latency chart")
	}
	if err := g.generateDailyChart(reportDir); err != nil {
		g.log.Warn().Err(err).Msg("failed to generate daily chart")
	}
	if err := g.generateTextReport(reportDir, hours); err != nil {
		g.log.Warn().Err(err).Msg("failed to generate text report")
	}

	g.log.Info().Str("dir", reportDir).Msg("report generated")
	return reportDir, nil
}
