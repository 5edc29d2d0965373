package backend

import (
	"encoding/json"
	"strconv"
	"strings"

	"wifi-monitor/internal/models"
)

// Normalize maps the backend's loosely-typed report JSON into the strict
// models.Report. The backend's shape is observed to vary across call
// sites: numbers arrive as strings, scalars as nested objects, lists as
// strings or objects. None of that may ever surface as an error; fields
// that cannot be read are simply absent.
func Normalize(raw []byte) models.Report {
	report := models.Report{Raw: raw}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return report
	}

	// "score" may be a bare number, a numeric string, or an object
	// holding wifi_health_score plus the trend block.
	switch sc := m["score"].(type) {
	case map[string]any:
		report.Score = asNumber(sc["wifi_health_score"])
		if s := asString(sc["explanation"]); s != "" {
			report.Explanation = s
		}
		if s := asString(sc["trend_summary"]); s != "" {
			report.TrendSummary = s
		}
		report.Trend = asTrend(sc["trend"])
	default:
		report.Score = asNumber(sc)
	}
	if report.Score == nil {
		report.Score = asNumber(m["wifi_health_score"])
	}

	if perf, ok := m["performance"].(map[string]any); ok {
		p := models.Performance{
			DownloadMbps:   firstNumber(perf, "download_mbps", "download"),
			UploadMbps:     firstNumber(perf, "upload_mbps", "upload"),
			PingMs:         firstNumber(perf, "ping_ms", "ping"),
			Interpretation: asString(perf["interpretation"]),
		}
		if p.DownloadMbps != nil || p.UploadMbps != nil || p.PingMs != nil || p.Interpretation != "" {
			report.Performance = &p
		}
	}

	report.Diagnosis = firstString(m, "diagnosis", "summary")
	if report.Explanation == "" {
		report.Explanation = asString(m["explanation"])
	}
	if report.TrendSummary == "" {
		report.TrendSummary = asString(m["trend_summary"])
	}
	if report.Trend == nil {
		report.Trend = asTrend(m["since_last"])
	}

	report.Problems = asStringList(m["problems"])
	report.Fixes = asStringList(m["fixes"])
	report.RouterSteps = asStringList(m["router_steps"])
	report.Questions = asStringList(m["questions"])

	return report
}

// asNumber coerces numbers, numeric strings and json.Number-ish values.
func asNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// asStringList accepts a list of strings, a list of objects with any of
// the known text-ish keys, or a bare string.
func asStringList(v any) []string {
	var out []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := firstString(it, "recommendation", "action", "text", "description", "title"); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		if s := strings.TrimSpace(list); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asTrend(v any) *models.Trend {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	t := models.Trend{
		DownloadDeltaMbps: asNumber(m["download_delta_mbps"]),
		UploadDeltaMbps:   asNumber(m["upload_delta_mbps"]),
		PingDeltaMs:       asNumber(m["ping_delta_ms"]),
	}
	if n := asNumber(m["networks_delta"]); n != nil {
		i := int(*n)
		t.NetworksDelta = &i
	}
	if t.DownloadDeltaMbps == nil && t.UploadDeltaMbps == nil && t.PingDeltaMs == nil && t.NetworksDelta == nil {
		return nil
	}
	return &t
}

func firstNumber(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if n := asNumber(m[k]); n != nil {
			return n
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func marshalChat(req ChatRequest) ([]byte, error) {
	return json.Marshal(req)
}

// extractChatReply tolerates {"reply": "..."} as well as a bare string
// body.
func extractChatReply(raw []byte) string {
	var obj struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Reply != "" {
		return obj.Reply
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
