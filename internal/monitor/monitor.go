// Package monitor coordinates the measurement pipeline: on-demand full
// health checks, the passive tick that feeds the live charts, the outage
// heartbeat loop and database maintenance.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"wifi-monitor/internal/backend"
	"wifi-monitor/internal/config"
	"wifi-monitor/internal/database"
	"wifi-monitor/internal/health"
	"wifi-monitor/internal/models"
	"wifi-monitor/internal/ping"
	"wifi-monitor/internal/probe"
	"wifi-monitor/internal/progress"
)

// Monitor owns the measurement pipeline. A single in-progress flag covers
// full checks and passive ticks so two runs can never interleave and
// disturb each other's bandwidth readings.
type Monitor struct {
	cfg     config.Config
	db      *database.DB
	client  backend.Client // nil when no probe backend is configured
	engine  *probe.SpeedtestEngine
	scanner models.Scanner
	pinger  *ping.Pinger
	log     zerolog.Logger

	animator *progress.Animator

	tuningMu sync.RWMutex
	tuning   health.Tuning

	inProgress atomic.Bool

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	onScan     func(models.ScanResult, models.ScoreResult)
	onProgress func(progress.Phase, int)
}

// New creates a Monitor. client may be nil; measurements then go through
// the speedtest.net engine.
func New(cfg config.Config, db *database.DB, client backend.Client, scanner models.Scanner, log zerolog.Logger) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Monitor{
		cfg:      cfg,
		db:       db,
		client:   client,
		engine:   probe.NewSpeedtestEngine(log.With().Str("component", "speedtest").Logger()),
		scanner:  scanner,
		pinger:   ping.New(),
		log:      log,
		animator: progress.New(progress.DefaultMinVisible, progress.DefaultFinishWindow),
		tuning:   cfg.Tuning,
		ctx:      ctx,
		cancel:   cancel,
	}
	return m
}

// OnScan registers the completed-scan broadcast hook.
func (m *Monitor) OnScan(fn func(models.ScanResult, models.ScoreResult)) { m.onScan = fn }

// OnProgress registers the progress broadcast hook.
func (m *Monitor) OnProgress(fn func(progress.Phase, int)) { m.onProgress = fn }

// Busy reports whether a check or tick is currently running.
func (m *Monitor) Busy() bool { return m.inProgress.Load() }

// Animator exposes the progress readout for the web layer.
func (m *Monitor) Animator() *progress.Animator { return m.animator }

// SetTuning swaps the scoring constants; used by config hot reload.
// Samplers are built per run, so the next check picks the new tables up.
func (m *Monitor) SetTuning(t health.Tuning) {
	m.tuningMu.Lock()
	m.tuning = t
	m.tuningMu.Unlock()
	m.log.Info().Msg("tuning updated")
}

func (m *Monitor) currentTuning() health.Tuning {
	m.tuningMu.RLock()
	defer m.tuningMu.RUnlock()
	return m.tuning
}

// Start launches the schedules and the outage heartbeat loop.
func (m *Monitor) Start() error {
	m.cron = cron.New()

	if spec := m.cfg.PassiveSchedule; spec != "" {
		if _, err := m.cron.AddFunc(spec, func() {
			if err := m.PassiveTick(m.ctx); err != nil {
				m.log.Warn().Err(err).Msg("passive tick failed")
			}
		}); err != nil {
			return err
		}
	}
	if spec := m.cfg.RefreshSchedule; spec != "" {
		if _, err := m.cron.AddFunc(spec, func() {
			if _, _, err := m.RunCheck(m.ctx, "scheduled"); err != nil && err != ErrCheckInProgress {
				m.log.Warn().Err(err).Msg("scheduled check failed")
			}
		}); err != nil {
			return err
		}
	}
	if _, err := m.cron.AddFunc("@every 1h", m.performMaintenance); err != nil {
		return err
	}
	m.cron.Start()

	m.wg.Add(1)
	go m.outageLoop()

	m.log.Info().
		Str("passive", m.cfg.PassiveSchedule).
		Str("refresh", m.cfg.RefreshSchedule).
		Msg("monitor started")
	return nil
}

// Stop gracefully stops the monitor.
func (m *Monitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
	m.cancel()
}

// Wait blocks until all goroutines finish.
func (m *Monitor) Wait() {
	m.wg.Wait()
	m.log.Info().Msg("monitor stopped")
}

func (m *Monitor) performMaintenance() {
	if err := m.db.AggregateHourly(); err != nil {
		m.log.Warn().Err(err).Msg("hourly aggregation failed")
	}
	if err := m.db.ArchiveOldData(); err != nil {
		m.log.Warn().Err(err).Msg("archive failed")
	}
}
