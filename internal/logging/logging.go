// Package logging configures the process-wide zerolog logger.
//
// Console output uses zerolog's console writer; when a log file is
// configured the same events are also written there as JSON.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config controls log level and sinks.
type Config struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// New builds the root logger. An unwritable log file degrades to
// console-only rather than failing startup.
func New(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}

	var w io.Writer = console
	if strings.TrimSpace(cfg.File) != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			w = zerolog.MultiLevelWriter(console, f)
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
