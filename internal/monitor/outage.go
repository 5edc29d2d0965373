package monitor

import (
	"time"

	"wifi-monitor/internal/models"
)

const heartbeatTimeout = 3 * time.Second

// outageLoop pings the heartbeat targets on a fixed interval and turns
// sustained failure into outage records. A heartbeat passes when any one
// target answers; short blips under the minimum duration are discarded.
func (m *Monitor) outageLoop() {
	defer m.wg.Done()

	log := m.log.With().Str("component", "outage").Logger()
	log.Info().
		Strs("targets", m.cfg.HeartbeatTargets).
		Dur("interval", m.cfg.HeartbeatInterval.Std()).
		Msg("outage monitor started")

	ticker := time.NewTicker(m.cfg.HeartbeatInterval.Std())
	defer ticker.Stop()

	var (
		lastOK      = time.Now()
		outageStart time.Time
		failedCount int
	)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}

		if m.heartbeat() {
			if !outageStart.IsZero() {
				end := time.Now()
				duration := end.Sub(outageStart)
				if duration >= m.cfg.OutageMinDuration.Std() {
					o := models.Outage{
						StartTime:    outageStart,
						EndTime:      end,
						DurationSecs: duration.Seconds(),
						FailedChecks: failedCount,
					}
					if err := m.db.SaveOutage(o); err != nil {
						log.Error().Err(err).Msg("failed to record outage")
					} else {
						log.Warn().
							Dur("duration", duration).
							Int("failed_checks", failedCount).
							Msg("outage ended")
					}
				} else {
					log.Debug().Dur("duration", duration).Msg("blip discarded")
				}
				outageStart = time.Time{}
				failedCount = 0
			}
			lastOK = time.Now()
			continue
		}

		failedCount++
		if outageStart.IsZero() && time.Since(lastOK) >= m.cfg.OutageStart.Std() {
			outageStart = lastOK
			log.Warn().Time("since", lastOK).Msg("outage started")
		}
	}
}

// heartbeat tries each target in order; the first answer wins.
func (m *Monitor) heartbeat() bool {
	for _, target := range m.cfg.HeartbeatTargets {
		if m.pinger.Check(target, heartbeatTimeout).OK {
			return true
		}
	}
	return false
}
