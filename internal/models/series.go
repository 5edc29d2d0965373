package models

import "time"

// ScorePoint is one point of the dashboard score chart.
type ScorePoint struct {
	Timestamp time.Time `json:"ts"`
	Score     int       `json:"score"`
}

// PerfPoint is one point of the dashboard throughput/latency charts.
type PerfPoint struct {
	Timestamp    time.Time `json:"ts"`
	DownloadMbps *float64  `json:"download_mbps"`
	UploadMbps   *float64  `json:"upload_mbps"`
	PingMs       *float64  `json:"ping_ms"`
}

// Outage is a detected connectivity outage period.
type Outage struct {
	ID           int64     `json:"id,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	DurationSecs float64   `json:"duration_sec"`
	FailedChecks int       `json:"failed_checks"`
}

// HistorySeries is the payload behind /api/history-series.
type HistorySeries struct {
	ScoreSeries  []ScorePoint `json:"score_series"`
	PerfSeries   []PerfPoint  `json:"perf_series"`
	OutageEvents []Outage     `json:"outage_events"`
}

// DailyAggregate summarizes one calendar day of scans.
type DailyAggregate struct {
	Day      string  `json:"day"` // YYYY-MM-DD
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// Stats is an aggregate over a window of scored scans.
type Stats struct {
	ScanCount   int     `json:"scan_count"`
	AvgScore    float64 `json:"avg_score"`
	AvgDownload float64 `json:"avg_download_mbps"`
	AvgUpload   float64 `json:"avg_upload_mbps"`
	AvgPing     float64 `json:"avg_ping_ms"`
	MinScore    int     `json:"min_score"`
	MaxScore    int     `json:"max_score"`
}
