package models

// StateVersion tags persisted client-state blobs so shape changes fail
// loudly into "no previous data" instead of silently corrupting reads.
const StateVersion = 1

// State keys in the app_state store.
const (
	StateKeyLastScan     = "last_scan"
	StateKeyProfile      = "user_profile"
	StateKeyLatestReport = "latest_report"
)

// StateEnvelope wraps a persisted blob with its schema version.
type StateEnvelope[T any] struct {
	Version int `json:"version"`
	Data    T   `json:"data"`
}

// UserProfile is the persisted setup-wizard record.
type UserProfile struct {
	ISP            string   `json:"isp,omitempty"`
	PlanMbps       *float64 `json:"plan_mbps,omitempty"`
	RouterModel    string   `json:"router_model,omitempty"`
	RouterAgeYears *int     `json:"router_age_years,omitempty"`
	ReportedIssues []string `json:"reported_issues,omitempty"`
}
