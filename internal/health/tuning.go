// Package health is the consolidated measurement-and-scoring module: the
// throughput calibration tables, the 0–100 health score, the score labels
// and the scan-over-scan trend comparison. Everything here is pure
// arithmetic over value types; all I/O lives in the probe and monitor
// packages.
package health

import "fmt"

// Tuning groups every empirical constant of the scoring pipeline so they
// can be overridden from configuration without code changes.
type Tuning struct {
	DownloadCalibration CalibrationTable `yaml:"download_calibration" json:"download_calibration"`
	UploadCalibration   CalibrationTable `yaml:"upload_calibration" json:"upload_calibration"`
	Penalties           Penalties        `yaml:"penalties" json:"penalties"`
	Labels              LabelCutoffs     `yaml:"labels" json:"labels"`
	Epsilons            Epsilons         `yaml:"epsilons" json:"epsilons"`
}

// DefaultTuning returns the canonical constants.
func DefaultTuning() Tuning {
	return Tuning{
		DownloadCalibration: DefaultDownloadCalibration(),
		UploadCalibration:   DefaultUploadCalibration(),
		Penalties:           DefaultPenalties(),
		Labels:              DefaultLabelCutoffs(),
		Epsilons:            DefaultEpsilons(),
	}
}

// Validate rejects tables that would misbehave at runtime.
func (t Tuning) Validate() error {
	for name, table := range map[string]CalibrationTable{
		"download_calibration": t.DownloadCalibration,
		"upload_calibration":   t.UploadCalibration,
	} {
		if len(table) == 0 {
			return fmt.Errorf("%s must have at least one band", name)
		}
		prev := -1.0
		for _, b := range table {
			if b.MinMbps < 0 || b.MinMbps <= prev {
				return fmt.Errorf("%s bands must be ascending and non-negative", name)
			}
			if b.Factor <= 0 {
				return fmt.Errorf("%s factors must be positive", name)
			}
			prev = b.MinMbps
		}
	}

	if t.Labels.Excellent <= t.Labels.Good || t.Labels.Good <= t.Labels.Fair {
		return fmt.Errorf("label cutoffs must be strictly descending")
	}
	if t.Epsilons.SpeedMbps < 0 || t.Epsilons.PingMs < 0 || t.Epsilons.Networks < 0 {
		return fmt.Errorf("epsilons must be non-negative")
	}
	return nil
}
