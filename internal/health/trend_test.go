package health

import (
	"strings"
	"testing"

	"wifi-monitor/internal/models"
)

func TestCompareFirstScan(t *testing.T) {
	e := DefaultEpsilons()
	curr := models.MetricSample{DownloadMbps: f(50)}

	res := e.Compare(curr, nil)
	if !res.FirstScan {
		t.Error("expected FirstScan to be true")
	}
	if res.Summary != FirstScanSummary {
		t.Errorf("Summary = %q, want %q", res.Summary, FirstScanSummary)
	}
	if res.Download != DirectionNoData {
		t.Errorf("Download direction = %s, want %s", res.Download, DirectionNoData)
	}
}

func TestComparePingLowerIsBetter(t *testing.T) {
	e := DefaultEpsilons()

	// Latency dropping 50 -> 30 is an improvement
	curr := models.MetricSample{PingMs: f(30)}
	prev := models.MetricSample{PingMs: f(50)}
	res := e.Compare(curr, &prev)
	if res.Ping != DirectionImproved {
		t.Errorf("ping 50->30: direction = %s, want %s", res.Ping, DirectionImproved)
	}
	if res.Delta.PingDeltaMs == nil || *res.Delta.PingDeltaMs != -20 {
		t.Errorf("ping delta = %v, want -20", res.Delta.PingDeltaMs)
	}
	if !strings.Contains(res.Summary, "ping improved") {
		t.Errorf("summary should mention improvement: %q", res.Summary)
	}

	// And the reverse is a regression
	res = e.Compare(models.MetricSample{PingMs: f(50)}, &models.MetricSample{PingMs: f(30)})
	if res.Ping != DirectionRegressed {
		t.Errorf("ping 30->50: direction = %s, want %s", res.Ping, DirectionRegressed)
	}
}

func TestCompareSpeedHigherIsBetter(t *testing.T) {
	e := DefaultEpsilons()

	curr := models.MetricSample{DownloadMbps: f(80), UploadMbps: f(12)}
	prev := models.MetricSample{DownloadMbps: f(60), UploadMbps: f(15)}

	res := e.Compare(curr, &prev)
	if res.Download != DirectionImproved {
		t.Errorf("download 60->80: direction = %s, want %s", res.Download, DirectionImproved)
	}
	if res.Upload != DirectionRegressed {
		t.Errorf("upload 15->12: direction = %s, want %s", res.Upload, DirectionRegressed)
	}
}

func TestCompareEpsilons(t *testing.T) {
	e := DefaultEpsilons()

	tests := []struct {
		name     string
		curr     models.MetricSample
		prev     models.MetricSample
		check    func(TrendResult) Direction
		expected Direction
	}{
		{
			name:     "download jitter under epsilon is flat",
			curr:     models.MetricSample{DownloadMbps: f(50.3)},
			prev:     models.MetricSample{DownloadMbps: f(50.0)},
			check:    func(r TrendResult) Direction { return r.Download },
			expected: DirectionFlat,
		},
		{
			name:     "ping jitter under epsilon is flat",
			curr:     models.MetricSample{PingMs: f(22)},
			prev:     models.MetricSample{PingMs: f(20)},
			check:    func(r TrendResult) Direction { return r.Ping },
			expected: DirectionFlat,
		},
		{
			name:     "ping change above epsilon registers",
			curr:     models.MetricSample{PingMs: f(24)},
			prev:     models.MetricSample{PingMs: f(20)},
			check:    func(r TrendResult) Direction { return r.Ping },
			expected: DirectionRegressed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Compare(tt.curr, &tt.prev)
			if got := tt.check(res); got != tt.expected {
				t.Errorf("direction = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCompareUnmeasuredSidesYieldNoData(t *testing.T) {
	e := DefaultEpsilons()

	curr := models.MetricSample{DownloadMbps: f(50)}
	prev := models.MetricSample{UploadMbps: f(10)}

	res := e.Compare(curr, &prev)
	if res.Download != DirectionNoData {
		t.Errorf("download with missing previous = %s, want %s", res.Download, DirectionNoData)
	}
	if res.Upload != DirectionNoData {
		t.Errorf("upload with missing current = %s, want %s", res.Upload, DirectionNoData)
	}
	if res.Delta.DownloadDeltaMbps != nil {
		t.Error("expected nil download delta when previous side is unmeasured")
	}
}

func TestCompareNetworkCount(t *testing.T) {
	e := DefaultEpsilons()

	curr := models.MetricSample{NetworkCount: models.Int(8)}
	prev := models.MetricSample{NetworkCount: models.Int(5)}

	res := e.Compare(curr, &prev)
	// More networks nearby is worse
	if res.Networks != DirectionRegressed {
		t.Errorf("networks 5->8: direction = %s, want %s", res.Networks, DirectionRegressed)
	}
	if res.Delta.NetworksDelta == nil || *res.Delta.NetworksDelta != 3 {
		t.Errorf("networks delta = %v, want 3", res.Delta.NetworksDelta)
	}
}

func TestCompareFlatSummary(t *testing.T) {
	e := DefaultEpsilons()
	sample := models.MetricSample{DownloadMbps: f(50), UploadMbps: f(10), PingMs: f(20)}

	res := e.Compare(sample, &sample)
	if res.Summary != "No meaningful change since the last scan." {
		t.Errorf("unexpected flat summary: %q", res.Summary)
	}
}
