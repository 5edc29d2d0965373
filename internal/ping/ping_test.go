package ping

import (
	"os/exec"
	"testing"
	"time"
)

func TestParseRTT(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected *float64
	}{
		{
			name:     "macOS individual response",
			output:   "64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms",
			expected: ptr(44.347),
		},
		{
			name:     "Linux individual response",
			output:   "64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=12.3 ms",
			expected: ptr(12.3),
		},
		{
			name:     "summary line",
			output:   "round-trip min/avg/max = 12.3/12.5/13.1 ms",
			expected: ptr(12.5),
		},
		{
			name:     "Windows response",
			output:   "Reply from 8.8.8.8: bytes=32 time=15ms TTL=118",
			expected: ptr(15),
		},
		{
			name:     "Windows sub-millisecond",
			output:   "Reply from 8.8.8.8: bytes=32 time<1ms TTL=118",
			expected: ptr(1),
		},
		{
			name:     "no match",
			output:   "ping: unknown host example.invalid",
			expected: nil,
		},
		{
			name:     "empty output",
			output:   "",
			expected: nil,
		},
		{
			name: "multiline output prefers per-packet time",
			output: `PING 8.8.8.8 (8.8.8.8): 56 data bytes
64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms

--- 8.8.8.8 ping statistics ---
1 packets transmitted, 1 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms`,
			expected: ptr(44.347),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRTT(tt.output)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("parseRTT(%q) = %v, want nil", tt.output, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseRTT(%q) = nil, want %v", tt.output, *tt.expected)
			}
			if *got != *tt.expected {
				t.Errorf("parseRTT(%q) = %v, want %v", tt.output, *got, *tt.expected)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestPingerCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ping integration test in short mode")
	}
	if _, err := exec.LookPath("ping"); err != nil {
		t.Skip("ping binary not available on PATH")
	}

	p := New()

	result := p.Check("127.0.0.1", 5*time.Second)
	if !result.OK {
		t.Fatal("expected loopback ping to succeed")
	}

	result = p.Check("invalid.host.that.does.not.exist", 2*time.Second)
	if result.OK {
		t.Error("expected ping to an invalid host to fail")
	}
	if result.RTTMs != nil {
		t.Errorf("failed ping carried an RTT: %v", *result.RTTMs)
	}
}
