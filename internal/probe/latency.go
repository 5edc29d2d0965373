// Package probe holds the timed-transfer samplers: latency round trips
// against the backend's liveness endpoint and single-stream throughput
// transfers against its speedtest endpoints. Each sampler returns a nil
// value when it could not measure; callers must treat nil as
// "unmeasured", never as zero.
package probe

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"wifi-monitor/internal/backend"
)

// rttToPingFactor approximates ICMP-style ping from a full HTTP round
// trip, which carries connection and server overhead on top of the wire
// latency. Empirical, not derived.
const rttToPingFactor = 0.25

// LatencySampler issues k sequential timed round trips and reduces them
// with a trimmed median: the single fastest and slowest samples are
// dropped and the median of the remainder wins. Chosen over
// minimum-of-samples, which a single lucky packet skews optimistic.
type LatencySampler struct {
	client  backend.Client
	samples int
	timeout time.Duration
	log     zerolog.Logger
}

// NewLatencySampler builds a sampler with k round trips and a per-trip
// timeout.
func NewLatencySampler(client backend.Client, samples int, timeout time.Duration, log zerolog.Logger) *LatencySampler {
	if samples < 1 {
		samples = 1
	}
	return &LatencySampler{client: client, samples: samples, timeout: timeout, log: log}
}

// Sample returns the representative ping estimate in milliseconds, or nil
// when every round trip failed. Individual failures are dropped silently.
func (s *LatencySampler) Sample(ctx context.Context) (*float64, error) {
	durations := make([]float64, 0, s.samples)

	for i := 0; i < s.samples; i++ {
		if ctx.Err() != nil {
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		err := s.client.Ping(attemptCtx)
		cancel()
		if err != nil {
			s.log.Debug().Err(err).Int("attempt", i+1).Msg("latency probe failed")
			continue
		}
		durations = append(durations, float64(time.Since(start).Milliseconds()))
	}

	if len(durations) == 0 {
		return nil, nil
	}

	ping := TrimmedMedian(durations) * rttToPingFactor
	return &ping, nil
}

// TrimmedMedian drops the single fastest and slowest sample and returns
// the median of what remains. With fewer than three samples there is
// nothing to trim and the plain median is returned.
func TrimmedMedian(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	if len(sorted) > 2 {
		sorted = sorted[1 : len(sorted)-1]
	}
	return median(sorted)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
