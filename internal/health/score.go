package health

import (
	"fmt"
	"strings"

	"wifi-monitor/internal/models"
)

// SpeedPenalty applies when a measured speed is below Limit.
type SpeedPenalty struct {
	Limit   float64 `yaml:"limit" json:"limit"`
	Penalty int     `yaml:"penalty" json:"penalty"`
}

// PingPenalty applies when measured latency is above Limit.
type PingPenalty struct {
	Limit   float64 `yaml:"limit" json:"limit"`
	Penalty int     `yaml:"penalty" json:"penalty"`
}

// CountPenalty applies when a network count reaches Count.
type CountPenalty struct {
	Count   int `yaml:"count" json:"count"`
	Penalty int `yaml:"penalty" json:"penalty"`
}

// Penalties is the additive penalty model behind the 0–100 health score.
// Speed tables are ascending by Limit and the first matching row applies;
// ping and congestion tables are descending and likewise first-match.
type Penalties struct {
	Download     []SpeedPenalty `yaml:"download" json:"download"`
	Upload       []SpeedPenalty `yaml:"upload" json:"upload"`
	Ping         []PingPenalty  `yaml:"ping" json:"ping"`
	Congestion24 []CountPenalty `yaml:"congestion_2_4ghz" json:"congestion_2_4ghz"`
	Congestion5  []CountPenalty `yaml:"congestion_5ghz" json:"congestion_5ghz"`
}

// DefaultPenalties returns the canonical penalty tables. The four-level
// 120/80/50/30 ms ping ladder is the canonical variant.
func DefaultPenalties() Penalties {
	return Penalties{
		Download: []SpeedPenalty{
			{Limit: 10, Penalty: 45},
			{Limit: 25, Penalty: 30},
			{Limit: 50, Penalty: 18},
			{Limit: 100, Penalty: 8},
		},
		Upload: []SpeedPenalty{
			{Limit: 2, Penalty: 25},
			{Limit: 5, Penalty: 15},
			{Limit: 10, Penalty: 8},
		},
		Ping: []PingPenalty{
			{Limit: 120, Penalty: 30},
			{Limit: 80, Penalty: 22},
			{Limit: 50, Penalty: 12},
			{Limit: 30, Penalty: 6},
		},
		Congestion24: []CountPenalty{
			{Count: 6, Penalty: 20},
			{Count: 3, Penalty: 10},
		},
		Congestion5: []CountPenalty{
			{Count: 8, Penalty: 15},
			{Count: 4, Penalty: 8},
		},
	}
}

// Score maps a (download, upload, ping) triple to [0,100]. Nil metrics
// contribute no penalty, so an entirely unmeasured triple scores 100.
// Pure and deterministic. The floor is 0: a connection can be
// catastrophically bad and the score should say so.
func (p Penalties) Score(download, upload, ping *float64) int {
	score := 100

	if download != nil {
		for _, row := range p.Download {
			if *download < row.Limit {
				score -= row.Penalty
				break
			}
		}
	}
	if upload != nil {
		for _, row := range p.Upload {
			if *upload < row.Limit {
				score -= row.Penalty
				break
			}
		}
	}
	if ping != nil {
		for _, row := range p.Ping {
			if *ping > row.Limit {
				score -= row.Penalty
				break
			}
		}
	}

	return clampScore(score)
}

// CongestionPenalty returns the extra deduction for crowded airspace.
// A nil congestion summary (no scan available) deducts nothing.
func (p Penalties) CongestionPenalty(c *models.Congestion) int {
	if c == nil {
		return 0
	}
	penalty := 0
	for _, row := range p.Congestion24 {
		if c.Count24 >= row.Count {
			penalty += row.Penalty
			break
		}
	}
	for _, row := range p.Congestion5 {
		if c.Count5 >= row.Count {
			penalty += row.Penalty
			break
		}
	}
	return penalty
}

// ScoreScan combines metric and congestion penalties for a full scan.
func (p Penalties) ScoreScan(sample models.MetricSample, cong *models.Congestion) int {
	base := p.Score(sample.DownloadMbps, sample.UploadMbps, sample.PingMs)
	return clampScore(base - p.CongestionPenalty(cong))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// LabelCutoffs maps scores to display labels. Shared between scoring and
// presentation so the thresholds exist exactly once.
type LabelCutoffs struct {
	Excellent int `yaml:"excellent" json:"excellent"`
	Good      int `yaml:"good" json:"good"`
	Fair      int `yaml:"fair" json:"fair"`
}

// DefaultLabelCutoffs: ≥85 Excellent, ≥70 Good, ≥55 Fair, else Poor.
func DefaultLabelCutoffs() LabelCutoffs {
	return LabelCutoffs{Excellent: 85, Good: 70, Fair: 55}
}

// LabelFor buckets a score.
func (c LabelCutoffs) LabelFor(score int) models.Label {
	switch {
	case score >= c.Excellent:
		return models.LabelExcellent
	case score >= c.Good:
		return models.LabelGood
	case score >= c.Fair:
		return models.LabelFair
	default:
		return models.LabelPoor
	}
}

// Explain produces the short human explanation shown next to the score,
// naming the metrics that actually cost points.
func (p Penalties) Explain(sample models.MetricSample, cong *models.Congestion, score int) string {
	var issues []string

	if sample.DownloadMbps != nil {
		for _, row := range p.Download {
			if *sample.DownloadMbps < row.Limit {
				issues = append(issues, fmt.Sprintf("download speed of %.1f Mbps is below %.0f Mbps", *sample.DownloadMbps, row.Limit))
				break
			}
		}
	}
	if sample.UploadMbps != nil {
		for _, row := range p.Upload {
			if *sample.UploadMbps < row.Limit {
				issues = append(issues, fmt.Sprintf("upload speed of %.1f Mbps is below %.0f Mbps", *sample.UploadMbps, row.Limit))
				break
			}
		}
	}
	if sample.PingMs != nil {
		for _, row := range p.Ping {
			if *sample.PingMs > row.Limit {
				issues = append(issues, fmt.Sprintf("latency of %.0f ms is above %.0f ms", *sample.PingMs, row.Limit))
				break
			}
		}
	}
	if p.CongestionPenalty(cong) > 0 {
		issues = append(issues, fmt.Sprintf("%d nearby networks are crowding your channels", cong.TotalNetworks))
	}

	if len(issues) == 0 {
		if !sample.HasData() {
			return "No measurements available yet. Run a health check to get a real score."
		}
		return "Your connection is performing well across download, upload and latency."
	}
	return fmt.Sprintf("Score reduced because %s.", strings.Join(issues, "; "))
}
