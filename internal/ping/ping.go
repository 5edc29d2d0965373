// Package ping shells out to the system ping binary for the outage
// monitor's liveness heartbeats. One packet per check; the RTT is parsed
// from the tool's output when available.
package ping

import (
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// Result is one heartbeat outcome. RTTMs is nil when the ping succeeded
// but no round-trip time could be parsed.
type Result struct {
	OK    bool
	RTTMs *float64
}

// Pinger runs single-packet liveness checks.
type Pinger struct{}

// New creates a new Pinger.
func New() *Pinger {
	return &Pinger{}
}

// Check pings target once with the given timeout. Any failure (command
// error, non-zero exit, unreachable host) yields OK=false; the caller
// decides what a failed heartbeat means.
func (p *Pinger) Check(target string, timeout time.Duration) Result {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("ping", "-n", "1", "-w", strconv.Itoa(int(timeout.Milliseconds())), target)
	} else {
		secs := int(timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		cmd = exec.Command("ping", "-c", "1", "-W", strconv.Itoa(secs), target)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{OK: false}
	}
	return Result{OK: true, RTTMs: parseRTT(string(output))}
}

var rttPatterns = []*regexp.Regexp{
	// Linux/macOS: "time=12.3 ms", Windows: "time=15ms"
	regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`),
	// summary line: "round-trip min/avg/max = 12.3/12.3/12.3 ms"
	regexp.MustCompile(`round-trip min/avg/max[^=]*= [0-9.]+/([0-9.]+)/`),
}

func parseRTT(output string) *float64 {
	for _, re := range rttPatterns {
		if m := re.FindStringSubmatch(output); len(m) > 1 {
			if rtt, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &rtt
			}
		}
	}
	return nil
}
