package probe

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"wifi-monitor/internal/backend"
	"wifi-monitor/internal/health"
)

// DownloadSampler times one streamed download of a fixed-size payload.
// The body is consumed as it arrives rather than buffered, so a large
// test payload costs no memory and cancellation takes effect mid-stream.
type DownloadSampler struct {
	client  backend.Client
	sizeMB  float64
	timeout time.Duration
	table   health.CalibrationTable
	log     zerolog.Logger
}

// NewDownloadSampler builds a download sampler. table corrects the raw
// single-stream reading; see health.CalibrationTable.
func NewDownloadSampler(client backend.Client, sizeMB float64, timeout time.Duration, table health.CalibrationTable, log zerolog.Logger) *DownloadSampler {
	return &DownloadSampler{client: client, sizeMB: sizeMB, timeout: timeout, table: table, log: log}
}

// Sample returns calibrated download Mbps, or nil when the transfer
// failed.
func (s *DownloadSampler) Sample(ctx context.Context) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.client.DownloadPayload(ctx, s.sizeMB, io.Discard)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Debug().Err(err).Msg("download probe failed")
		return nil, nil
	}

	raw := mbps(n, elapsed)
	calibrated := s.table.Apply(raw)
	s.log.Debug().Float64("raw_mbps", raw).Float64("calibrated_mbps", calibrated).Msg("download measured")
	return &calibrated, nil
}

// UploadSampler times one POST of a fixed-size filler payload.
type UploadSampler struct {
	client  backend.Client
	sizeMB  float64
	timeout time.Duration
	table   health.CalibrationTable
	log     zerolog.Logger
}

// NewUploadSampler builds an upload sampler.
func NewUploadSampler(client backend.Client, sizeMB float64, timeout time.Duration, table health.CalibrationTable, log zerolog.Logger) *UploadSampler {
	return &UploadSampler{client: client, sizeMB: sizeMB, timeout: timeout, table: table, log: log}
}

// Sample returns calibrated upload Mbps, or nil when the transfer failed.
func (s *UploadSampler) Sample(ctx context.Context) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	size := int64(s.sizeMB * 1024 * 1024)
	start := time.Now()
	err := s.client.UploadPayload(ctx, size)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Debug().Err(err).Msg("upload probe failed")
		return nil, nil
	}

	raw := mbps(size, elapsed)
	calibrated := s.table.Apply(raw)
	s.log.Debug().Float64("raw_mbps", raw).Float64("calibrated_mbps", calibrated).Msg("upload measured")
	return &calibrated, nil
}

// mbps converts a byte count over a wall-clock duration to megabits per
// second.
func mbps(bytes int64, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(bytes) * 8 / 1e6 / secs
}
