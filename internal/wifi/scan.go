// Package wifi lists nearby networks through the platform's scan tool and
// summarizes channel congestion for the score.
package wifi

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"wifi-monitor/internal/models"
)

// SystemScanner shells out to nmcli (Linux) or the airport utility
// (macOS). A platform without either, or a failed scan, yields an empty
// list, never an error the measurement sequence has to branch on.
type SystemScanner struct {
	log zerolog.Logger
}

// NewSystemScanner creates a scanner for the current platform.
func NewSystemScanner(log zerolog.Logger) *SystemScanner {
	return &SystemScanner{log: log}
}

const airportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

// Scan lists visible networks.
func (s *SystemScanner) Scan(ctx context.Context) []models.Network {
	var (
		output []byte
		err    error
	)

	switch runtime.GOOS {
	case "darwin":
		output, err = exec.CommandContext(ctx, airportPath, "-s").CombinedOutput()
		if err != nil {
			s.log.Debug().Err(err).Msg("airport scan failed")
			return nil
		}
		return parseAirport(string(output))
	default:
		output, err = exec.CommandContext(ctx, "nmcli", "-t", "-f", "SSID,CHAN,SIGNAL", "dev", "wifi", "list").CombinedOutput()
		if err != nil {
			s.log.Debug().Err(err).Msg("nmcli scan failed")
			return nil
		}
		return parseNmcli(string(output))
	}
}

// parseNmcli reads terse nmcli output: "SSID:CHAN:SIGNAL" per line.
func parseNmcli(output string) []models.Network {
	var nets []models.Network
	for _, line := range strings.Split(output, "\n") {
		parts := strings.Split(strings.TrimSpace(line), ":")
		if len(parts) < 3 {
			continue
		}
		ch, err := strconv.Atoi(parts[len(parts)-2])
		if err != nil {
			continue
		}
		n := models.Network{
			SSID:    strings.Join(parts[:len(parts)-2], ":"),
			Channel: ch,
			Band:    BandForChannel(ch),
		}
		if sig, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			n.SignalPct = models.Int(sig)
		}
		nets = append(nets, n)
	}
	return nets
}

var airportLine = regexp.MustCompile(`^\s*(.+?)\s+(?:[0-9a-f]{2}:){5}[0-9a-f]{2}\s+(-?\d+)\s+(\d+)`)

// parseAirport reads `airport -s` columns: SSID BSSID RSSI CHANNEL ...
func parseAirport(output string) []models.Network {
	var nets []models.Network
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		m := airportLine.FindStringSubmatch(line)
		if len(m) < 4 {
			continue
		}
		ch, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		rssi, _ := strconv.Atoi(m[2])
		nets = append(nets, models.Network{
			SSID:      strings.TrimSpace(m[1]),
			Channel:   ch,
			Band:      BandForChannel(ch),
			SignalPct: models.Int(rssiToPct(rssi)),
		})
	}
	return nets
}

// rssiToPct maps dBm roughly onto the 0–100 scale nmcli reports.
func rssiToPct(rssi int) int {
	pct := 2 * (rssi + 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// BandForChannel maps a channel number to its band; 1–14 is 2.4 GHz,
// everything else 5 GHz.
func BandForChannel(ch int) string {
	if ch >= 1 && ch <= 14 {
		return "2.4"
	}
	return "5"
}
