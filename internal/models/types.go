package models

import (
	"context"
)

// Database defines the persistence operations the rest of the system uses.
type Database interface {
	SaveScan(scan ScanResult) error
	RecentScans(hours int) ([]ScanResult, error)
	LatestScan() (*ScanResult, error)
	Series(hours int) (HistorySeries, error)
	Daily(days int) ([]DailyAggregate, error)
	SaveOutage(o Outage) error
	Outages(days int) ([]Outage, error)
	WindowStats(hours int) (*Stats, error)
	SaveSignup(email, source string) error
	GetState(key string, out any) (bool, error)
	SetState(key string, value any) error
	Close() error
}

// Sampler measures one metric; a nil result means "unmeasured".
type Sampler interface {
	Sample(ctx context.Context) (*float64, error)
}

// Scanner lists visible Wi-Fi networks. A failed scan returns an empty
// slice, never an error the caller has to branch on.
type Scanner interface {
	Scan(ctx context.Context) []Network
}

// CheckRunner runs full and passive health checks.
type CheckRunner interface {
	RunCheck(ctx context.Context, tag string) (*ScanResult, *ScoreResult, error)
	PassiveTick(ctx context.Context) error
	Busy() bool
}
