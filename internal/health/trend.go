package health

import (
	"fmt"
	"math"
	"strings"

	"wifi-monitor/internal/models"
)

// Direction classifies a metric's movement between two scans.
type Direction string

const (
	DirectionImproved  Direction = "improved"
	DirectionRegressed Direction = "regressed"
	DirectionFlat      Direction = "flat"
	DirectionNoData    Direction = "no_data"
)

// FirstScanSummary is the sentinel trend text when there is nothing to
// compare against.
const FirstScanSummary = "No previous scan to compare"

// Epsilons are the noise floors below which a delta is reported as no
// meaningful change rather than a spurious up/down arrow.
type Epsilons struct {
	SpeedMbps float64 `yaml:"speed_mbps" json:"speed_mbps"`
	PingMs    float64 `yaml:"ping_ms" json:"ping_ms"`
	Networks  int     `yaml:"networks" json:"networks"`
}

// DefaultEpsilons returns the measurement-noise thresholds.
func DefaultEpsilons() Epsilons {
	return Epsilons{SpeedMbps: 0.5, PingMs: 3, Networks: 1}
}

// TrendResult is the structured comparison of two samples plus its
// natural-language summary.
type TrendResult struct {
	FirstScan bool         `json:"first_scan"`
	Delta     models.Trend `json:"delta"`
	Download  Direction    `json:"download"`
	Upload    Direction    `json:"upload"`
	Ping      Direction    `json:"ping"`
	Networks  Direction    `json:"networks"`
	Summary   string       `json:"summary"`
}

// directionFor classifies a delta. All trend-aware output goes through
// this one helper so the "lower is better" sign flip for latency lives in
// exactly one place.
func directionFor(delta, epsilon float64, lowerIsBetter bool) Direction {
	if math.Abs(delta) < epsilon {
		return DirectionFlat
	}
	better := delta > 0
	if lowerIsBetter {
		better = delta < 0
	}
	if better {
		return DirectionImproved
	}
	return DirectionRegressed
}

// Compare diffs the current sample against the previous one. Deltas are
// current minus previous and nil whenever either side is unmeasured. A nil
// previous sample yields the first-scan sentinel, never an error.
func (e Epsilons) Compare(curr models.MetricSample, prev *models.MetricSample) TrendResult {
	if prev == nil {
		return TrendResult{
			FirstScan: true,
			Download:  DirectionNoData,
			Upload:    DirectionNoData,
			Ping:      DirectionNoData,
			Networks:  DirectionNoData,
			Summary:   FirstScanSummary,
		}
	}

	res := TrendResult{
		Download: DirectionNoData,
		Upload:   DirectionNoData,
		Ping:     DirectionNoData,
		Networks: DirectionNoData,
	}

	if d := delta(curr.DownloadMbps, prev.DownloadMbps); d != nil {
		res.Delta.DownloadDeltaMbps = d
		res.Download = directionFor(*d, e.SpeedMbps, false)
	}
	if d := delta(curr.UploadMbps, prev.UploadMbps); d != nil {
		res.Delta.UploadDeltaMbps = d
		res.Upload = directionFor(*d, e.SpeedMbps, false)
	}
	if d := delta(curr.PingMs, prev.PingMs); d != nil {
		res.Delta.PingDeltaMs = d
		res.Ping = directionFor(*d, e.PingMs, true)
	}
	if curr.NetworkCount != nil && prev.NetworkCount != nil {
		n := *curr.NetworkCount - *prev.NetworkCount
		res.Delta.NetworksDelta = &n
		res.Networks = directionFor(float64(n), float64(e.Networks), true)
	}

	res.Summary = e.summarize(res)
	return res
}

func delta(curr, prev *float64) *float64 {
	if curr == nil || prev == nil {
		return nil
	}
	d := math.Round((*curr-*prev)*100) / 100
	return &d
}

func (e Epsilons) summarize(r TrendResult) string {
	var parts []string

	speedPhrase := func(name string, dir Direction, d *float64) {
		switch dir {
		case DirectionImproved:
			parts = append(parts, fmt.Sprintf("%s up %.1f Mbps", name, math.Abs(*d)))
		case DirectionRegressed:
			parts = append(parts, fmt.Sprintf("%s down %.1f Mbps", name, math.Abs(*d)))
		}
	}
	speedPhrase("download", r.Download, r.Delta.DownloadDeltaMbps)
	speedPhrase("upload", r.Upload, r.Delta.UploadDeltaMbps)

	switch r.Ping {
	case DirectionImproved:
		parts = append(parts, fmt.Sprintf("ping improved by %.0f ms", math.Abs(*r.Delta.PingDeltaMs)))
	case DirectionRegressed:
		parts = append(parts, fmt.Sprintf("ping worsened by %.0f ms", math.Abs(*r.Delta.PingDeltaMs)))
	}

	switch r.Networks {
	case DirectionRegressed:
		parts = append(parts, fmt.Sprintf("%d more networks nearby", *r.Delta.NetworksDelta))
	case DirectionImproved:
		parts = append(parts, fmt.Sprintf("%d fewer networks nearby", -*r.Delta.NetworksDelta))
	}

	if len(parts) == 0 {
		return "No meaningful change since the last scan."
	}
	return "Since the last scan: " + strings.Join(parts, ", ") + "."
}
