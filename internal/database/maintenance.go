package database

import (
	"time"
)

// AggregateHourly rolls detailed scans into hourly_stats before they age
// out of the raw table.
func (db *DB) AggregateHourly() error {
	query := `
        INSERT OR REPLACE INTO hourly_stats (hour, scan_count, avg_score, avg_download_mbps, avg_upload_mbps, avg_ping_ms)
        SELECT
            strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
            COUNT(*) as scan_count,
            AVG(score) as avg_score,
            AVG(download_mbps) as avg_download_mbps,
            AVG(upload_mbps) as avg_upload_mbps,
            AVG(ping_ms) as avg_ping_ms
        FROM scan_results
        WHERE timestamp > datetime('now', '-2 days')
        GROUP BY hour
    `
	_, err := db.Exec(query)
	return err
}

// ArchiveOldData prunes raw data the dashboard no longer needs. Raw scans
// are kept for 7 days (hourly aggregates carry the older history),
// aggregates and outages for 90 days.
func (db *DB) ArchiveOldData() error {
	archiveQuery := `
        INSERT OR IGNORE INTO hourly_stats (hour, scan_count, avg_score, avg_download_mbps, avg_upload_mbps, avg_ping_ms)
        SELECT
            strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
            COUNT(*) as scan_count,
            AVG(score) as avg_score,
            AVG(download_mbps) as avg_download_mbps,
            AVG(upload_mbps) as avg_upload_mbps,
            AVG(ping_ms) as avg_ping_ms
        FROM scan_results
        WHERE timestamp < datetime('now', '-7 days')
        AND timestamp > datetime('now', '-90 days')
        GROUP BY hour
    `
	if _, err := db.Exec(archiveQuery); err != nil {
		return err
	}

	if _, err := db.Exec(`DELETE FROM scan_results WHERE timestamp < datetime('now', '-7 days')`); err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM hourly_stats WHERE hour < datetime('now', '-90 days')`); err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM outages WHERE start_time < datetime('now', '-90 days')`); err != nil {
		return err
	}

	// Vacuum to reclaim space (run occasionally)
	if time.Now().Day() == 1 {
		_, err := db.Exec("VACUUM")
		return err
	}

	return nil
}
