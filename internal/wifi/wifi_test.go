package wifi

import (
	"testing"
)

func TestParseNmcli(t *testing.T) {
	output := `HomeNet:6:78
Neighbor 5G:36:55
SSID:with:colons:11:40
:1:90
badline
NoSignal:13:`

	nets := parseNmcli(output)
	if len(nets) != 5 {
		t.Fatalf("parsed %d networks, want 5", len(nets))
	}

	if nets[0].SSID != "HomeNet" || nets[0].Channel != 6 || nets[0].Band != "2.4" {
		t.Errorf("first network = %+v", nets[0])
	}
	if nets[0].SignalPct == nil || *nets[0].SignalPct != 78 {
		t.Errorf("first network signal = %v, want 78", nets[0].SignalPct)
	}
	if nets[1].SSID != "Neighbor 5G" || nets[1].Band != "5" {
		t.Errorf("second network = %+v", nets[1])
	}
	if nets[2].SSID != "SSID:with:colons" || nets[2].Channel != 11 {
		t.Errorf("colon SSID network = %+v", nets[2])
	}
	// Hidden SSID still counts toward congestion
	if nets[3].SSID != "" || nets[3].Channel != 1 {
		t.Errorf("hidden network = %+v", nets[3])
	}
	// Missing signal strength parses as nil, not zero
	if nets[4].SSID != "NoSignal" || nets[4].SignalPct != nil {
		t.Errorf("no-signal network = %+v", nets[4])
	}
}

func TestParseAirport(t *testing.T) {
	output := `                            SSID BSSID             RSSI CHANNEL HT CC SECURITY (auth/unicast/group)
                         HomeNet aa:bb:cc:dd:ee:ff -45  6       Y  US WPA2(PSK/AES/AES)
                     Neighbor 5G 11:22:33:44:55:66 -70  149     Y  US WPA2(PSK/AES/AES)`

	nets := parseAirport(output)
	if len(nets) != 2 {
		t.Fatalf("parsed %d networks, want 2", len(nets))
	}

	if nets[0].SSID != "HomeNet" || nets[0].Channel != 6 || nets[0].Band != "2.4" {
		t.Errorf("first network = %+v", nets[0])
	}
	if nets[0].SignalPct == nil || *nets[0].SignalPct != 100 {
		t.Errorf("RSSI -45 should clamp to 100%%, got %v", nets[0].SignalPct)
	}
	if nets[1].Channel != 149 || nets[1].Band != "5" {
		t.Errorf("second network = %+v", nets[1])
	}
	if nets[1].SignalPct == nil || *nets[1].SignalPct != 60 {
		t.Errorf("RSSI -70 -> %v%%, want 60", nets[1].SignalPct)
	}
}

func TestRssiToPct(t *testing.T) {
	tests := []struct {
		rssi     int
		expected int
	}{
		{-100, 0},
		{-120, 0},
		{-70, 60},
		{-50, 100},
		{-30, 100},
	}
	for _, tt := range tests {
		if got := rssiToPct(tt.rssi); got != tt.expected {
			t.Errorf("rssiToPct(%d) = %d, want %d", tt.rssi, got, tt.expected)
		}
	}
}

func TestBandForChannel(t *testing.T) {
	tests := []struct {
		channel  int
		expected string
	}{
		{1, "2.4"},
		{6, "2.4"},
		{14, "2.4"},
		{36, "5"},
		{100, "5"},
		{165, "5"},
	}
	for _, tt := range tests {
		if got := BandForChannel(tt.channel); got != tt.expected {
			t.Errorf("BandForChannel(%d) = %s, want %s", tt.channel, got, tt.expected)
		}
	}
}

func TestCongestion(t *testing.T) {
	nets := parseNmcli(`A:1:50
B:6:50
C:6:50
D:36:50
E:52:50
F:149:50
G:149:50`)

	c := Congestion(nets)
	if c.TotalNetworks != 7 {
		t.Errorf("TotalNetworks = %d, want 7", c.TotalNetworks)
	}
	if c.Count24 != 3 || c.Count5 != 4 {
		t.Errorf("band counts = %d/%d, want 3/4", c.Count24, c.Count5)
	}
	if c.Channels24[6] != 2 {
		t.Errorf("channel 6 count = %d, want 2", c.Channels24[6])
	}
	if c.Blocks5["36-48"] != 1 {
		t.Errorf("block 36-48 = %d, want 1", c.Blocks5["36-48"])
	}
	if c.Blocks5["52-64(DFS)"] != 1 {
		t.Errorf("block 52-64(DFS) = %d, want 1", c.Blocks5["52-64(DFS)"])
	}
	if c.Blocks5["149-161"] != 2 {
		t.Errorf("block 149-161 = %d, want 2", c.Blocks5["149-161"])
	}
	if c.Blocks5["100-144(DFS)"] != 0 {
		t.Errorf("block 100-144(DFS) = %d, want 0", c.Blocks5["100-144(DFS)"])
	}
}

func TestCongestionEmpty(t *testing.T) {
	c := Congestion(nil)
	if c.TotalNetworks != 0 || c.Count24 != 0 || c.Count5 != 0 {
		t.Errorf("empty congestion = %+v", c)
	}
}
