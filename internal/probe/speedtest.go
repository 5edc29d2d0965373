package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	st "github.com/showwin/speedtest-go/speedtest"

	"wifi-monitor/internal/models"
)

// SpeedtestEngine measures through speedtest.net when no probe backend is
// configured. One full pass against the closest server; the library's
// multi-stream measurement needs no calibration.
type SpeedtestEngine struct {
	client *st.Speedtest
	log    zerolog.Logger
}

// NewSpeedtestEngine builds the fallback engine.
func NewSpeedtestEngine(log zerolog.Logger) *SpeedtestEngine {
	return &SpeedtestEngine{client: st.New(), log: log}
}

// Measure runs ping, download and upload sequentially against the
// closest server and maps the result onto a MetricSample.
func (e *SpeedtestEngine) Measure(ctx context.Context) (models.MetricSample, error) {
	sample := models.MetricSample{Timestamp: time.Now(), Method: "speedtest.net"}

	servers, err := e.client.FetchServerListContext(ctx)
	if err != nil {
		return sample, fmt.Errorf("fetch server list: %w", err)
	}
	if len(servers) == 0 {
		return sample, fmt.Errorf("no speedtest servers available")
	}
	target := servers[0]

	if err := target.PingTestContext(ctx, nil); err != nil {
		return sample, fmt.Errorf("ping test: %w", err)
	}
	ping := target.Latency.Seconds() * 1000
	sample.PingMs = &ping

	if err := target.DownloadTestContext(ctx); err != nil {
		return sample, fmt.Errorf("download test: %w", err)
	}
	download := target.DLSpeed.Mbps()
	sample.DownloadMbps = &download

	if err := target.UploadTestContext(ctx); err != nil {
		return sample, fmt.Errorf("upload test: %w", err)
	}
	upload := target.ULSpeed.Mbps()
	sample.UploadMbps = &upload

	e.log.Info().
		Str("server", target.Name).
		Float64("download_mbps", download).
		Float64("upload_mbps", upload).
		Float64("ping_ms", ping).
		Msg("speedtest.net measurement complete")

	return sample, nil
}
