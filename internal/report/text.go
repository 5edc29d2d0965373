package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (g *Generator) generateTextReport(outputDir string, hours int) error {
	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Wi-Fi Health Report\n")
	fmt.Fprintf(file, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(file, strings.Repeat("=", 60))

	stats, err := g.db.WindowStats(hours)
	if err != nil {
		return err
	}

	fmt.Fprintln(file, "\nOVERALL STATISTICS")
	fmt.Fprintf(file, "  Scans: %d\n", stats.ScanCount)
	if stats.ScanCount > 0 {
		fmt.Fprintf(file, "  Average Score: %.1f (min %d, max %d)\n", stats.AvgScore, stats.MinScore, stats.MaxScore)
		fmt.Fprintf(file, "  Average Download: %.1f Mbps\n", stats.AvgDownload)
		fmt.Fprintf(file, "  Average Upload: %.1f Mbps\n", stats.AvgUpload)
		fmt.Fprintf(file, "  Average Ping: %.1f ms\n", stats.AvgPing)
	}
	fmt.Fprintln(file)
	fmt.Fprintln(file, strings.Repeat("=", 60))

	outages, err := g.db.Outages(hours/24 + 1)
	if err != nil {
		return err
	}

	fmt.Fprintln(file, "\nOUTAGE PERIODS")
	for i, o := range outages {
		fmt.Fprintf(file, "Outage #%d\n", i+1)
		fmt.Fprintf(file, "  Start: %s\n", o.StartTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  End: %s\n", o.EndTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(file, "  Duration: %.0f seconds\n", o.DurationSecs)
		fmt.Fprintf(file, "  Failed Checks: %d\n", o.FailedChecks)
		fmt.Fprintln(file)
	}
	if len(outages) == 0 {
		fmt.Fprintln(file, "No outages detected.")
	} else {
		fmt.Fprintf(file, "\nTotal Outages: %d\n", len(outages))
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))
	fmt.Fprintln(file, "\nThis report documents Wi-Fi and connectivity issues.")
	fmt.Fprintln(file, "Charts and detailed data are available in the accompanying files.")

	return nil
}
