package wifi

import "wifi-monitor/internal/models"

// block5Ranges groups 5 GHz channels into the blocks routers expose,
// with the DFS ranges kept separate.
var block5Ranges = []struct {
	name     string
	min, max int
}{
	{"36-48", 36, 48},
	{"52-64(DFS)", 52, 64},
	{"100-144(DFS)", 100, 144},
	{"149-161", 149, 161},
	{"165", 165, 165},
}

// Congestion counts networks per band, per channel and per 5 GHz block.
func Congestion(nets []models.Network) models.Congestion {
	c := models.Congestion{
		TotalNetworks: len(nets),
		Channels24:    make(map[int]int),
		Channels5:     make(map[int]int),
		Blocks5:       make(map[string]int),
	}
	for _, b := range block5Ranges {
		c.Blocks5[b.name] = 0
	}

	for _, n := range nets {
		switch n.Band {
		case "2.4":
			c.Count24++
			c.Channels24[n.Channel]++
		case "5":
			c.Count5++
			c.Channels5[n.Channel]++
			for _, b := range block5Ranges {
				if n.Channel >= b.min && n.Channel <= b.max {
					c.Blocks5[b.name]++
					break
				}
			}
		}
	}
	return c
}
