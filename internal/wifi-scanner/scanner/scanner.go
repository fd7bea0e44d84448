// Package scanner lists nearby WiFi networks.
package scanner

import (
	"context"
	"fmt"
	"sort"
)

// Signal colors by RSSI band
const (
	ColorExcellent = "#00ff88"
	ColorGood      = "#4cc9f0"
	ColorFair      = "#fca311"
	ColorWeak      = "#f72585"
)

// Network is one access point seen by a scan
type Network struct {
	SSID         string
	BSSID        string
	RSSI         int
	Encrypted    bool
	FrequencyMHz int
}

// Name returns the SSID, or a placeholder for hidden networks
func (n Network) Name() string {
	if n.SSID == "" {
		return "(Hidden)"
	}
	return n.SSID
}

// Strength formats the RSSI as "N dBm"
func (n Network) Strength() string {
	return fmt.Sprintf("%d dBm", n.RSSI)
}

// SignalColor maps an RSSI to its color band
func SignalColor(rssi int) string {
	switch {
	case rssi > -50:
		return ColorExcellent
	case rssi > -60:
		return ColorGood
	case rssi > -70:
		return ColorFair
	default:
		return ColorWeak
	}
}

// Status summarizes a finished scan
func Status(count int) string {
	if count == 0 {
		return "No networks found"
	}
	return fmt.Sprintf("%d networks found", count)
}

// Source performs one scan
type Source interface {
	Scan(ctx context.Context) ([]Network, error)
}

// SortByStrength orders networks strongest first, then by name
func SortByStrength(networks []Network) {
	sort.SliceStable(networks, func(i, j int) bool {
		if networks[i].RSSI != networks[j].RSSI {
			return networks[i].RSSI > networks[j].RSSI
		}
		return networks[i].Name() < networks[j].Name()
	})
}
