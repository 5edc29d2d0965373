package models

import "time"

// MetricSample is one completed measurement run. Nil metric pointers mean
// "unmeasured" (the probe failed or was skipped), which is distinct from a
// measured zero. Samples are never mutated after creation.
type MetricSample struct {
	Timestamp    time.Time `json:"timestamp"`
	DownloadMbps *float64  `json:"download_mbps"`
	UploadMbps   *float64  `json:"upload_mbps"`
	PingMs       *float64  `json:"ping_ms"`
	NetworkCount *int      `json:"network_count,omitempty"`
	Method       string    `json:"method,omitempty"`
}

// HasData reports whether at least one metric was measured.
func (s MetricSample) HasData() bool {
	return s.DownloadMbps != nil || s.UploadMbps != nil || s.PingMs != nil
}

// Label buckets a health score for display.
type Label string

const (
	LabelExcellent Label = "Excellent"
	LabelGood      Label = "Good"
	LabelFair      Label = "Fair"
	LabelPoor      Label = "Poor"
)

// ScoreResult is derived from a (current, previous-or-nil) sample pair.
// It is recomputed on every run and never persisted independently.
type ScoreResult struct {
	Score        int    `json:"score"`
	Label        Label  `json:"label"`
	Explanation  string `json:"explanation"`
	TrendSummary string `json:"trend_summary"`
}

// ScanResult is a scored sample as stored in history.
type ScanResult struct {
	ID        int64        `json:"id,omitempty"`
	Sample    MetricSample `json:"sample"`
	Score     int          `json:"score"`
	Label     Label        `json:"label"`
	Tag       string       `json:"tag"` // "speedtest", "passive", "manual"
	CreatedAt time.Time    `json:"created_at"`
}

// Float64 returns a pointer to v. Metric fields are nullable throughout.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
