package database

import (
	"path/filepath"
	"testing"
	"time"

	"wifi-monitor/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.InitSchema(); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return db
}

func TestSaveAndLoadScan(t *testing.T) {
	db := testDB(t)

	scan := models.ScanResult{
		Sample: models.MetricSample{
			Timestamp:    time.Now().UTC(),
			DownloadMbps: models.Float64(82.4),
			UploadMbps:   models.Float64(11.9),
			PingMs:       models.Float64(23),
			NetworkCount: models.Int(6),
			Method:       "http-probe",
		},
		Score: 86,
		Label: models.LabelExcellent,
		Tag:   "manual",
	}
	if err := db.SaveScan(scan); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}

	loaded, err := db.LatestScan()
	if err != nil {
		t.Fatalf("LatestScan() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LatestScan() returned nil after save")
	}
	if loaded.Score != 86 || loaded.Label != models.LabelExcellent || loaded.Tag != "manual" {
		t.Errorf("loaded scan = %+v", loaded)
	}
	if loaded.Sample.DownloadMbps == nil || *loaded.Sample.DownloadMbps != 82.4 {
		t.Errorf("download = %v, want 82.4", loaded.Sample.DownloadMbps)
	}
	if loaded.Sample.NetworkCount == nil || *loaded.Sample.NetworkCount != 6 {
		t.Errorf("network count = %v, want 6", loaded.Sample.NetworkCount)
	}
}

func TestNilMetricsRoundTrip(t *testing.T) {
	db := testDB(t)

	scan := models.ScanResult{
		Sample: models.MetricSample{Timestamp: time.Now().UTC(), PingMs: models.Float64(18)},
		Score:  100,
		Label:  models.LabelExcellent,
		Tag:    "passive",
	}
	if err := db.SaveScan(scan); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}

	loaded, err := db.LatestScan()
	if err != nil {
		t.Fatalf("LatestScan() error = %v", err)
	}
	// Unmeasured metrics must come back nil, never zero
	if loaded.Sample.DownloadMbps != nil {
		t.Errorf("download = %v, want nil", *loaded.Sample.DownloadMbps)
	}
	if loaded.Sample.UploadMbps != nil {
		t.Errorf("upload = %v, want nil", *loaded.Sample.UploadMbps)
	}
	if loaded.Sample.PingMs == nil || *loaded.Sample.PingMs != 18 {
		t.Errorf("ping = %v, want 18", loaded.Sample.PingMs)
	}
}

func TestLatestScanEmpty(t *testing.T) {
	db := testDB(t)
	loaded, err := db.LatestScan()
	if err != nil {
		t.Fatalf("LatestScan() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil on empty history, got %+v", loaded)
	}
}

func TestRecentScansAndSeries(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 3; i++ {
		scan := models.ScanResult{
			Sample: models.MetricSample{
				Timestamp:    time.Now().UTC().Add(time.Duration(-i) * time.Minute),
				DownloadMbps: models.Float64(float64(50 + i)),
			},
			Score: 80 - i,
			Label: models.LabelGood,
			Tag:   "passive",
		}
		if err := db.SaveScan(scan); err != nil {
			t.Fatalf("SaveScan() error = %v", err)
		}
	}

	recent, err := db.RecentScans(24)
	if err != nil {
		t.Fatalf("RecentScans() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentScans() returned %d scans, want 3", len(recent))
	}
	// Newest first
	if recent[0].Score != 80 {
		t.Errorf("first recent scan score = %d, want 80", recent[0].Score)
	}

	series, err := db.Series(24)
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	if len(series.ScoreSeries) != 3 {
		t.Errorf("ScoreSeries has %d points, want 3", len(series.ScoreSeries))
	}
	if len(series.PerfSeries) != 3 {
		t.Errorf("PerfSeries has %d points, want 3", len(series.PerfSeries))
	}
	// Chronological for charts
	if len(series.ScoreSeries) == 3 && series.ScoreSeries[0].Score != 78 {
		t.Errorf("oldest score point = %d, want 78", series.ScoreSeries[0].Score)
	}
}

func TestOutagesRoundTrip(t *testing.T) {
	db := testDB(t)

	o := models.Outage{
		StartTime:    time.Now().UTC().Add(-time.Hour),
		EndTime:      time.Now().UTC().Add(-time.Hour + 45*time.Second),
		DurationSecs: 45,
		FailedChecks: 9,
	}
	if err := db.SaveOutage(o); err != nil {
		t.Fatalf("SaveOutage() error = %v", err)
	}

	outages, err := db.Outages(7)
	if err != nil {
		t.Fatalf("Outages() error = %v", err)
	}
	if len(outages) != 1 {
		t.Fatalf("Outages() returned %d, want 1", len(outages))
	}
	if outages[0].DurationSecs != 45 || outages[0].FailedChecks != 9 {
		t.Errorf("outage = %+v", outages[0])
	}
}

func TestWindowStats(t *testing.T) {
	db := testDB(t)

	for _, score := range []int{60, 80, 100} {
		scan := models.ScanResult{
			Sample: models.MetricSample{Timestamp: time.Now().UTC(), DownloadMbps: models.Float64(50)},
			Score:  score,
			Label:  models.LabelGood,
			Tag:    "manual",
		}
		if err := db.SaveScan(scan); err != nil {
			t.Fatalf("SaveScan() error = %v", err)
		}
	}

	stats, err := db.WindowStats(24)
	if err != nil {
		t.Fatalf("WindowStats() error = %v", err)
	}
	if stats.ScanCount != 3 {
		t.Errorf("ScanCount = %d, want 3", stats.ScanCount)
	}
	if stats.AvgScore != 80 {
		t.Errorf("AvgScore = %v, want 80", stats.AvgScore)
	}
	if stats.MinScore != 60 || stats.MaxScore != 100 {
		t.Errorf("score range = %d..%d, want 60..100", stats.MinScore, stats.MaxScore)
	}
}

func TestStateRoundTrip(t *testing.T) {
	db := testDB(t)

	sample := models.MetricSample{
		Timestamp:    time.Now().UTC(),
		DownloadMbps: models.Float64(77.7),
	}
	if err := db.SetState(models.StateKeyLastScan, sample); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	var loaded models.MetricSample
	ok, err := db.GetState(models.StateKeyLastScan, &loaded)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if !ok {
		t.Fatal("GetState() reported absent after SetState")
	}
	if loaded.DownloadMbps == nil || *loaded.DownloadMbps != 77.7 {
		t.Errorf("loaded download = %v, want 77.7", loaded.DownloadMbps)
	}
}

func TestStateAbsentKey(t *testing.T) {
	db := testDB(t)

	var out models.MetricSample
	ok, err := db.GetState("never_written", &out)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if ok {
		t.Error("GetState() reported present for missing key")
	}
}

func TestStateVersionMismatchReadsAsAbsent(t *testing.T) {
	db := testDB(t)

	// Simulate a blob written by a future schema version
	_, err := db.Exec(`INSERT INTO app_state (key, value) VALUES (?, ?)`,
		"future", `{"version": 999, "data": {"download_mbps": 1}}`)
	if err != nil {
		t.Fatalf("insert error = %v", err)
	}

	var out models.MetricSample
	ok, err := db.GetState("future", &out)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if ok {
		t.Error("version mismatch should read as absent")
	}
}

func TestStateOverwrite(t *testing.T) {
	db := testDB(t)

	if err := db.SetState(models.StateKeyProfile, models.UserProfile{ISP: "first"}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if err := db.SetState(models.StateKeyProfile, models.UserProfile{ISP: "second"}); err != nil {
		t.Fatalf("SetState() overwrite error = %v", err)
	}

	var profile models.UserProfile
	ok, err := db.GetState(models.StateKeyProfile, &profile)
	if err != nil || !ok {
		t.Fatalf("GetState() = %v, %v", ok, err)
	}
	if profile.ISP != "second" {
		t.Errorf("ISP = %q, want %q", profile.ISP, "second")
	}
}

func TestSaveSignup(t *testing.T) {
	db := testDB(t)

	if err := db.SaveSignup("user@example.com", "dashboard"); err != nil {
		t.Fatalf("SaveSignup() error = %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM early_access`).Scan(&count); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 1 {
		t.Errorf("signup count = %d, want 1", count)
	}
}
