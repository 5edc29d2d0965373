package models

// Network is one visible Wi-Fi network from a passive scan.
type Network struct {
	SSID      string `json:"ssid"`
	Channel   int    `json:"channel"`
	Band      string `json:"band"` // "2.4" or "5"
	SignalPct *int   `json:"signal_pct,omitempty"`
}

// Congestion summarizes channel crowding across a scan. The 5 GHz block
// counts group channels the way routers present them (DFS blocks separate).
type Congestion struct {
	TotalNetworks int            `json:"total_networks"`
	Count24       int            `json:"count_2_4ghz"`
	Count5        int            `json:"count_5ghz"`
	Channels24    map[int]int    `json:"channels_2_4ghz"`
	Channels5     map[int]int    `json:"channels_5ghz"`
	Blocks5       map[string]int `json:"blocks_5ghz"`
}
