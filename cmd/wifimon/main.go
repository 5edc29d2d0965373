package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wifi-monitor/internal/backend"
	"wifi-monitor/internal/config"
	"wifi-monitor/internal/database"
	"wifi-monitor/internal/logging"
	"wifi-monitor/internal/models"
	"wifi-monitor/internal/monitor"
	"wifi-monitor/internal/progress"
	"wifi-monitor/internal/report"
	"wifi-monitor/internal/web"
	"wifi-monitor/internal/wifi"
)

var appVersion = "0.3.0"

var (
	configPath string
	listenFlag string
	dbPathFlag string
)

var rootCmd = &cobra.Command{
	Use:     "wifimon",
	Short:   "wifimon – Wi-Fi health monitor and dashboard",
	Long:    "Wifimon measures your connection's download, upload and latency,\nscores its health 0-100 and serves a dashboard with history, outage\ntracking and a troubleshooting assistant.",
	Version: appVersion,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitor and dashboard (default)",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single health check and print the result",
	RunE:  runCheck,
}

var reportCmd = &cobra.Command{
	Use:   "report [output-dir]",
	Short: "Generate charts and a text summary from stored history",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

var reportHours int

func init() {
	rootCmd.RunE = runServe
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "wifimon.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&listenFlag, "listen", "", "Listen address override")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path override")
	reportCmd.Flags().IntVar(&reportHours, "hours", 24, "History window in hours")
	rootCmd.AddCommand(serveCmd, checkCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("listen") || rootCmd.PersistentFlags().Changed("listen") {
		if listenFlag != "" {
			cfg.Listen = listenFlag
		}
	}
	if dbPathFlag != "" {
		cfg.DatabasePath = dbPathFlag
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildClient(cfg config.Config) backend.Client {
	if cfg.ProbeBaseURL == "" {
		return nil
	}
	return backend.NewHTTPClient(cfg.ProbeBaseURL)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.InitSchema(); err != nil {
		return err
	}

	client := buildClient(cfg)
	mon := monitor.New(cfg, db, client, wifi.NewSystemScanner(log), log)
	server := web.New(cfg.Listen, db, mon, client, log)

	mon.OnScan(func(scan models.ScanResult, result models.ScoreResult) {
		server.Hub().Broadcast("scan", map[string]any{"scan": scan, "result": result})
	})
	mon.OnProgress(func(phase progress.Phase, pct int) {
		server.Hub().Broadcast("progress", map[string]any{"phase": phase, "percent": pct})
	})

	if err := mon.Start(); err != nil {
		return err
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	config.Watch(watchCtx, configPath, log, func(updated config.Config) {
		mon.SetTuning(updated.Tuning)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("web server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	mon.Stop()
	mon.Wait()
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.InitSchema(); err != nil {
		return err
	}

	mon := monitor.New(cfg, db, buildClient(cfg), wifi.NewSystemScanner(log), log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	scan, result, err := mon.RunCheck(ctx, "manual")
	if err != nil {
		return err
	}

	fmt.Printf("Score: %d (%s)\n", result.Score, result.Label)
	fmt.Printf("%s\n", result.Explanation)
	fmt.Printf("Trend: %s\n", result.TrendSummary)
	if s := scan.Sample; s.HasData() {
		if s.DownloadMbps != nil {
			fmt.Printf("Download: %.1f Mbps\n", *s.DownloadMbps)
		}
		if s.UploadMbps != nil {
			fmt.Printf("Upload: %.1f Mbps\n", *s.UploadMbps)
		}
		if s.PingMs != nil {
			fmt.Printf("Ping: %.0f ms\n", *s.PingMs)
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log)

	outputDir := "reports"
	if len(args) > 0 {
		outputDir = args[0]
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.InitSchema(); err != nil {
		return err
	}

	dir, err := report.NewGenerator(db, log).GenerateReport(outputDir, reportHours)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", dir)
	return nil
}
