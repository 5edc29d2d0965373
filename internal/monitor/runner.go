package monitor

import (
	"context"
	"errors"
	"time"

	"wifi-monitor/internal/models"
	"wifi-monitor/internal/probe"
	"wifi-monitor/internal/progress"
	"wifi-monitor/internal/wifi"
)

// ErrCheckInProgress rejects a second check while one is running. The
// caller gets the error before any network call is made; overlapping
// transfers would contaminate both measurements.
var ErrCheckInProgress = errors.New("health check already in progress")

const progressTickInterval = 250 * time.Millisecond

// RunCheck executes one full health check: refresh the backend report,
// measure latency, download and upload strictly in that order, scan the
// airspace, score, compare against the previous run and persist. Returns
// ErrCheckInProgress when another check or tick holds the guard.
func (m *Monitor) RunCheck(ctx context.Context, tag string) (*models.ScanResult, *models.ScoreResult, error) {
	if !m.inProgress.CompareAndSwap(false, true) {
		return nil, nil, ErrCheckInProgress
	}
	defer m.inProgress.Store(false)

	m.animator.Start(time.Now())
	stopTicker := m.startProgressTicker()
	succeeded := false
	defer func() {
		stopTicker()
		if succeeded {
			m.animator.Finish(time.Now())
		} else {
			m.animator.Reset()
		}
	}()

	log := m.log.With().Str("tag", tag).Logger()
	log.Info().Msg("health check started")

	prev := m.loadPreviousSample()

	sample, err := m.measure(ctx)
	if err != nil {
		log.Error().Err(err).Msg("health check failed")
		return nil, nil, err
	}

	networks := m.scanner.Scan(ctx)
	var cong *models.Congestion
	if len(networks) > 0 {
		c := wifi.Congestion(networks)
		cong = &c
		sample.NetworkCount = models.Int(c.TotalNetworks)
	}

	tuning := m.currentTuning()
	score := tuning.Penalties.ScoreScan(sample, cong)
	label := tuning.Labels.LabelFor(score)
	trend := tuning.Epsilons.Compare(sample, prev)

	scan := models.ScanResult{
		Sample: sample,
		Score:  score,
		Label:  label,
		Tag:    tag,
	}
	result := models.ScoreResult{
		Score:        score,
		Label:        label,
		Explanation:  tuning.Penalties.Explain(sample, cong, score),
		TrendSummary: trend.Summary,
	}

	if err := m.db.SaveScan(scan); err != nil {
		log.Warn().Err(err).Msg("failed to save scan")
	}
	if err := m.db.SetState(models.StateKeyLastScan, sample); err != nil {
		log.Warn().Err(err).Msg("failed to persist last scan state")
	}

	m.storeBackendReport(ctx)

	succeeded = true
	log.Info().
		Int("score", score).
		Str("label", string(label)).
		Str("trend", trend.Summary).
		Msg("health check complete")

	if m.onScan != nil {
		m.onScan(scan, result)
	}
	return &scan, &result, nil
}

// measure collects the metric triple, through the configured probe
// backend when one exists and speedtest.net otherwise.
func (m *Monitor) measure(ctx context.Context) (models.MetricSample, error) {
	if m.client == nil {
		return m.engine.Measure(ctx)
	}

	// The refresh is the one mandatory backend call; everything after it
	// degrades to nil metrics on failure.
	refreshCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout.Std())
	err := m.client.TriggerRefresh(refreshCtx)
	cancel()
	if err != nil {
		return models.MetricSample{}, err
	}

	tuning := m.currentTuning()
	latency := probe.NewLatencySampler(m.client, m.cfg.PingSamples, m.cfg.ProbeTimeout.Std(), m.log)
	download := probe.NewDownloadSampler(m.client, m.cfg.DownloadSizeMB, m.cfg.ProbeTimeout.Std(), tuning.DownloadCalibration, m.log)
	upload := probe.NewUploadSampler(m.client, m.cfg.UploadSizeMB, m.cfg.ProbeTimeout.Std(), tuning.UploadCalibration, m.log)

	sample := models.MetricSample{Timestamp: time.Now(), Method: "http-probe"}

	// Strictly sequential: concurrent transfers would share the link and
	// undercount each other.
	if ping, err := latency.Sample(ctx); err == nil {
		sample.PingMs = ping
	}
	if d, err := download.Sample(ctx); err == nil {
		sample.DownloadMbps = d
	}
	if u, err := upload.Sample(ctx); err == nil {
		sample.UploadMbps = u
	}
	return sample, nil
}

// loadPreviousSample reads the trend baseline. Absence, a version
// mismatch or a parse failure all read as "first scan".
func (m *Monitor) loadPreviousSample() *models.MetricSample {
	var prev models.MetricSample
	ok, err := m.db.GetState(models.StateKeyLastScan, &prev)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to load previous sample")
		return nil
	}
	if !ok {
		return nil
	}
	return &prev
}

// storeBackendReport grabs the backend's regenerated report once its
// performance block appears, for the dashboard to merge into
// /api/latest-report. Best effort; the check already has its own numbers.
func (m *Monitor) storeBackendReport(ctx context.Context) {
	if m.client == nil {
		return
	}
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := m.client.WaitForPerformance(waitCtx, 2*time.Second)
	if err != nil {
		m.log.Debug().Err(err).Msg("backend report not available")
		return
	}
	if err := m.db.SetState(models.StateKeyLatestReport, report); err != nil {
		m.log.Warn().Err(err).Msg("failed to store backend report")
	}
}

// startProgressTicker publishes animator readings until stopped. The
// returned stop function is idempotent per run and blocks until the
// goroutine exits.
func (m *Monitor) startProgressTicker() func() {
	if m.onProgress == nil {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(progressTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				phase, pct := m.animator.Observe(now)
				m.onProgress(phase, pct)
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

// PassiveTick runs the lightweight background measurement: a latency
// sample and an airspace scan, no throughput transfers. Skipped silently
// when a full check is running.
func (m *Monitor) PassiveTick(ctx context.Context) error {
	if !m.inProgress.CompareAndSwap(false, true) {
		return nil
	}
	defer m.inProgress.Store(false)

	sample := models.MetricSample{Timestamp: time.Now(), Method: "passive"}

	if m.client != nil {
		latency := probe.NewLatencySampler(m.client, 3, m.cfg.ProbeTimeout.Std(), m.log)
		if ping, err := latency.Sample(ctx); err == nil {
			sample.PingMs = ping
		}
	} else if len(m.cfg.HeartbeatTargets) > 0 {
		res := m.pinger.Check(m.cfg.HeartbeatTargets[0], 3*time.Second)
		if res.OK && res.RTTMs != nil {
			sample.PingMs = res.RTTMs
		}
	}

	networks := m.scanner.Scan(ctx)
	var cong *models.Congestion
	if len(networks) > 0 {
		c := wifi.Congestion(networks)
		cong = &c
		sample.NetworkCount = models.Int(c.TotalNetworks)
	}

	tuning := m.currentTuning()
	scan := models.ScanResult{
		Sample: sample,
		Score:  tuning.Penalties.ScoreScan(sample, cong),
		Tag:    "passive",
	}
	scan.Label = tuning.Labels.LabelFor(scan.Score)

	// Passive ticks do not touch the trend baseline; trends compare full
	// measurements, not latency-only snapshots.
	if err := m.db.SaveScan(scan); err != nil {
		return err
	}
	m.log.Debug().Int("score", scan.Score).Msg("passive tick recorded")
	return nil
}

var _ models.CheckRunner = (*Monitor)(nil)

// Progress is a convenience for pull-based readers of the animator.
func (m *Monitor) Progress() (progress.Phase, int) {
	return m.animator.Observe(time.Now())
}
