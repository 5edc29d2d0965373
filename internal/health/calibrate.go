package health

// Band maps a raw single-stream speed range to a multiplier. A table is a
// list of bands in ascending MinMbps order; the band with the highest
// MinMbps not exceeding the raw value wins.
type Band struct {
	MinMbps float64 `yaml:"min_mbps" json:"min_mbps"`
	Factor  float64 `yaml:"factor" json:"factor"`
}

// CalibrationTable corrects raw single-stream throughput toward the
// multi-stream speeds ISPs advertise. Single-stream measurements
// systematically under-report at higher speeds; below the first breakpoint
// no correction is applied so genuinely slow connections read honestly.
// The factors are empirical tuning constants, not derived from a model.
type CalibrationTable []Band

// Apply returns the calibrated speed for a raw measurement.
func (t CalibrationTable) Apply(raw float64) float64 {
	if raw <= 0 {
		return raw
	}
	factor := 1.0
	for _, b := range t {
		if raw < b.MinMbps {
			break
		}
		factor = b.Factor
	}
	return raw * factor
}

// DefaultDownloadCalibration: no adjustment below 10 Mbps, +8% in the
// 10–50 band, +18% in 50–100, +25% at 100 and above.
func DefaultDownloadCalibration() CalibrationTable {
	return CalibrationTable{
		{MinMbps: 0, Factor: 1.0},
		{MinMbps: 10, Factor: 1.08},
		{MinMbps: 50, Factor: 1.18},
		{MinMbps: 100, Factor: 1.25},
	}
}

// DefaultUploadCalibration is gentler: uploads under-report less in
// practice.
func DefaultUploadCalibration() CalibrationTable {
	return CalibrationTable{
		{MinMbps: 0, Factor: 1.0},
		{MinMbps: 5, Factor: 1.05},
		{MinMbps: 20, Factor: 1.12},
	}
}
