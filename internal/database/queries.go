package database

import (
	"database/sql"
	"time"

	"wifi-monitor/internal/models"
)

// SaveScan saves a scored scan to the database.
func (db *DB) SaveScan(scan models.ScanResult) error {
	query := `
        INSERT INTO scan_results (timestamp, tag, method, download_mbps, upload_mbps, ping_ms, network_count, score, label)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := db.Exec(query,
		scan.Sample.Timestamp,
		scan.Tag,
		scan.Sample.Method,
		nullFloat(scan.Sample.DownloadMbps),
		nullFloat(scan.Sample.UploadMbps),
		nullFloat(scan.Sample.PingMs),
		nullInt(scan.Sample.NetworkCount),
		scan.Score,
		string(scan.Label),
	)
	return err
}

const scanColumns = `id, timestamp, tag, method, download_mbps, upload_mbps, ping_ms, network_count, score, label, created_at`

// RecentScans retrieves recent scans, newest first.
func (db *DB) RecentScans(hours int) ([]models.ScanResult, error) {
	query := `
        SELECT ` + scanColumns + `
        FROM scan_results
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp DESC
        LIMIT 10000
    `
	rows, err := db.Query(query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.ScanResult
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			continue
		}
		results = append(results, scan)
	}
	return results, rows.Err()
}

// LatestScan returns the most recent scan, or nil when history is empty.
func (db *DB) LatestScan() (*models.ScanResult, error) {
	row := db.QueryRow(`SELECT ` + scanColumns + ` FROM scan_results ORDER BY timestamp DESC LIMIT 1`)
	scan, err := scanRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

// Series builds the dashboard chart series over the given window.
func (db *DB) Series(hours int) (models.HistorySeries, error) {
	series := models.HistorySeries{
		ScoreSeries:  []models.ScorePoint{},
		PerfSeries:   []models.PerfPoint{},
		OutageEvents: []models.Outage{},
	}

	rows, err := db.Query(`
        SELECT timestamp, download_mbps, upload_mbps, ping_ms, score
        FROM scan_results
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp
    `, hours)
	if err != nil {
		return series, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ts       time.Time
			d, u, p  sql.NullFloat64
			scoreVal int
		)
		if err := rows.Scan(&ts, &d, &u, &p, &scoreVal); err != nil {
			continue
		}
		series.ScoreSeries = append(series.ScoreSeries, models.ScorePoint{Timestamp: ts, Score: scoreVal})
		if d.Valid || u.Valid || p.Valid {
			series.PerfSeries = append(series.PerfSeries, models.PerfPoint{
				Timestamp:    ts,
				DownloadMbps: floatPtr(d),
				UploadMbps:   floatPtr(u),
				PingMs:       floatPtr(p),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return series, err
	}

	outages, err := db.Outages(hours/24 + 1)
	if err != nil {
		return series, err
	}
	series.OutageEvents = outages
	return series, nil
}

// Daily aggregates scans per calendar day.
func (db *DB) Daily(days int) ([]models.DailyAggregate, error) {
	rows, err := db.Query(`
        SELECT strftime('%Y-%m-%d', timestamp) as day,
               COUNT(*) as count,
               ROUND(AVG(score), 2) as avg_score
        FROM scan_results
        WHERE timestamp > datetime('now', '-' || ? || ' days')
        GROUP BY day
        ORDER BY day
    `, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily []models.DailyAggregate
	for rows.Next() {
		var d models.DailyAggregate
		if err := rows.Scan(&d.Day, &d.Count, &d.AvgScore); err != nil {
			continue
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

// SaveOutage records a detected outage period.
func (db *DB) SaveOutage(o models.Outage) error {
	_, err := db.Exec(`
        INSERT INTO outages (start_time, end_time, duration_seconds, checks_failed)
        VALUES (?, ?, ?, ?)
    `, o.StartTime, o.EndTime, o.DurationSecs, o.FailedChecks)
	return err
}

// Outages retrieves recorded outages, newest first.
func (db *DB) Outages(days int) ([]models.Outage, error) {
	rows, err := db.Query(`
        SELECT id, start_time, end_time, duration_seconds, checks_failed
        FROM outages
        WHERE start_time > datetime('now', '-' || ? || ' days')
        ORDER BY start_time DESC
        LIMIT 100
    `, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outages []models.Outage
	for rows.Next() {
		var o models.Outage
		if err := rows.Scan(&o.ID, &o.StartTime, &o.EndTime, &o.DurationSecs, &o.FailedChecks); err != nil {
			continue
		}
		outages = append(outages, o)
	}
	return outages, rows.Err()
}

// WindowStats aggregates scored scans over the given window.
func (db *DB) WindowStats(hours int) (*models.Stats, error) {
	row := db.QueryRow(`
        SELECT COUNT(*),
               COALESCE(AVG(score), 0),
               COALESCE(AVG(download_mbps), 0),
               COALESCE(AVG(upload_mbps), 0),
               COALESCE(AVG(ping_ms), 0),
               COALESCE(MIN(score), 0),
               COALESCE(MAX(score), 0)
        FROM scan_results
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
    `, hours)

	var s models.Stats
	if err := row.Scan(&s.ScanCount, &s.AvgScore, &s.AvgDownload, &s.AvgUpload, &s.AvgPing, &s.MinScore, &s.MaxScore); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSignup appends one early-access signup.
func (db *DB) SaveSignup(email, source string) error {
	_, err := db.Exec(`INSERT INTO early_access (email, source) VALUES (?, ?)`, email, source)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (models.ScanResult, error) {
	var (
		scan    models.ScanResult
		method  sql.NullString
		d, u, p sql.NullFloat64
		n       sql.NullInt64
		label   string
	)
	err := row.Scan(&scan.ID, &scan.Sample.Timestamp, &scan.Tag, &method,
		&d, &u, &p, &n, &scan.Score, &label, &scan.CreatedAt)
	if err != nil {
		return scan, err
	}
	scan.Sample.Method = method.String
	scan.Sample.DownloadMbps = floatPtr(d)
	scan.Sample.UploadMbps = floatPtr(u)
	scan.Sample.PingMs = floatPtr(p)
	if n.Valid {
		scan.Sample.NetworkCount = models.Int(int(n.Int64))
	}
	scan.Label = models.Label(label)
	return scan, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
