package models

import "encoding/json"

// Performance is the normalized throughput/latency block of a report.
type Performance struct {
	DownloadMbps   *float64 `json:"download_mbps"`
	UploadMbps     *float64 `json:"upload_mbps"`
	PingMs         *float64 `json:"ping_ms"`
	Interpretation string   `json:"interpretation,omitempty"`
}

// Trend holds the deltas between the current and previous sample.
// Deltas are current minus previous: a positive download/upload delta means
// the connection got faster, a positive ping delta means latency got WORSE.
type Trend struct {
	DownloadDeltaMbps *float64 `json:"download_delta_mbps"`
	UploadDeltaMbps   *float64 `json:"upload_delta_mbps"`
	PingDeltaMs       *float64 `json:"ping_delta_ms"`
	NetworksDelta     *int     `json:"networks_delta"`
}

// Report is the strict internal form of the loosely-typed diagnostic report
// the backend produces. All shape tolerance happens once, in
// backend.Normalize; everything downstream works with this type only.
type Report struct {
	Score        *float64        `json:"score"`
	Explanation  string          `json:"explanation,omitempty"`
	Performance  *Performance    `json:"performance,omitempty"`
	Diagnosis    string          `json:"diagnosis,omitempty"`
	Problems     []string        `json:"problems,omitempty"`
	Fixes        []string        `json:"fixes,omitempty"`
	RouterSteps  []string        `json:"router_steps,omitempty"`
	Questions    []string        `json:"questions,omitempty"`
	Trend        *Trend          `json:"trend,omitempty"`
	TrendSummary string          `json:"trend_summary,omitempty"`
	Raw          json.RawMessage `json:"-"`
}
