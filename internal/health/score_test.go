package health

import (
	"testing"

	"wifi-monitor/internal/models"
)

func f(v float64) *float64 { return &v }

func TestScorePenalties(t *testing.T) {
	p := DefaultPenalties()

	tests := []struct {
		name     string
		download *float64
		upload   *float64
		ping     *float64
		expected int
	}{
		{
			name:     "all unmeasured scores 100",
			expected: 100,
		},
		{
			name:     "healthy connection",
			download: f(150),
			upload:   f(20),
			ping:     f(12),
			expected: 100,
		},
		{
			name:     "very slow download",
			download: f(5),
			expected: 55,
		},
		{
			name:     "slow download band boundary",
			download: f(10),
			expected: 70, // 10 is not < 10, falls into the <25 band
		},
		{
			name:     "moderate download",
			download: f(60),
			expected: 92,
		},
		{
			name:     "fast download no penalty",
			download: f(100),
			expected: 100,
		},
		{
			name:     "slow upload",
			upload:   f(1.5),
			expected: 75,
		},
		{
			name:     "high latency",
			ping:     f(150),
			expected: 70,
		},
		{
			name:     "mild latency",
			ping:     f(35),
			expected: 94,
		},
		{
			name:     "ping at 30 no penalty",
			ping:     f(30),
			expected: 100,
		},
		{
			name:     "everything bad floors at 0",
			download: f(1),
			upload:   f(0.5),
			ping:     f(500),
			expected: 0,
		},
		{
			name:     "only measured metrics penalized",
			download: f(5),
			ping:     f(200),
			expected: 25, // 100 - 45 - 30, upload unmeasured
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Score(tt.download, tt.upload, tt.ping)
			if got != tt.expected {
				t.Errorf("Score() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := DefaultPenalties()
	for i := 0; i < 10; i++ {
		if got := p.Score(f(42), f(7), f(55)); got != p.Score(f(42), f(7), f(55)) {
			t.Fatalf("score not deterministic on iteration %d: %d", i, got)
		}
	}
}

func TestScoreMonotonicDownload(t *testing.T) {
	p := DefaultPenalties()
	prev := -1
	for _, mbps := range []float64{1, 9, 11, 26, 51, 101, 500} {
		got := p.Score(f(mbps), nil, nil)
		if got < prev {
			t.Errorf("score decreased as download improved: %f Mbps -> %d (previous %d)", mbps, got, prev)
		}
		prev = got
	}
}

func TestCongestionPenalty(t *testing.T) {
	p := DefaultPenalties()

	tests := []struct {
		name     string
		cong     *models.Congestion
		expected int
	}{
		{name: "nil congestion", cong: nil, expected: 0},
		{name: "quiet airspace", cong: &models.Congestion{Count24: 1, Count5: 2}, expected: 0},
		{name: "moderate 2.4GHz", cong: &models.Congestion{Count24: 4}, expected: 10},
		{name: "heavy 2.4GHz", cong: &models.Congestion{Count24: 7}, expected: 20},
		{name: "moderate 5GHz", cong: &models.Congestion{Count5: 5}, expected: 8},
		{name: "heavy both bands", cong: &models.Congestion{Count24: 6, Count5: 8}, expected: 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CongestionPenalty(tt.cong); got != tt.expected {
				t.Errorf("CongestionPenalty() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestScoreScanFloorsAtZero(t *testing.T) {
	p := DefaultPenalties()
	sample := models.MetricSample{DownloadMbps: f(1), UploadMbps: f(0.1), PingMs: f(999)}
	cong := &models.Congestion{Count24: 10, Count5: 10}
	if got := p.ScoreScan(sample, cong); got != 0 {
		t.Errorf("ScoreScan() = %d, want 0", got)
	}
}

func TestLabelFor(t *testing.T) {
	c := DefaultLabelCutoffs()

	tests := []struct {
		score    int
		expected models.Label
	}{
		{100, models.LabelExcellent},
		{85, models.LabelExcellent},
		{84, models.LabelGood},
		{70, models.LabelGood},
		{69, models.LabelFair},
		{55, models.LabelFair},
		{54, models.LabelPoor},
		{0, models.LabelPoor},
	}

	for _, tt := range tests {
		if got := c.LabelFor(tt.score); got != tt.expected {
			t.Errorf("LabelFor(%d) = %s, want %s", tt.score, got, tt.expected)
		}
	}
}

func TestExplain(t *testing.T) {
	p := DefaultPenalties()

	empty := models.MetricSample{}
	if got := p.Explain(empty, nil, 100); got != "No measurements available yet. Run a health check to get a real score." {
		t.Errorf("unexpected explanation for empty sample: %q", got)
	}

	good := models.MetricSample{DownloadMbps: f(200), UploadMbps: f(30), PingMs: f(10)}
	if got := p.Explain(good, nil, 100); got != "Your connection is performing well across download, upload and latency." {
		t.Errorf("unexpected explanation for healthy sample: %q", got)
	}

	bad := models.MetricSample{DownloadMbps: f(5)}
	got := p.Explain(bad, nil, 55)
	if got == "" || got == "Your connection is performing well across download, upload and latency." {
		t.Errorf("expected an issue explanation, got %q", got)
	}
}
