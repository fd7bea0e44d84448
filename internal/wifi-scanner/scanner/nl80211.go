package scanner

import (
	"context"

	"github.com/mdlayher/wifi"
	"github.com/pkg/errors"

	"github.com/jc3248-sketches/internal/common/logger"
)

// Client is the subset of the nl80211 client used for scanning
type Client interface {
	Interfaces() ([]*wifi.Interface, error)
	Scan(ctx context.Context, ifi *wifi.Interface) error
	AccessPoints(ifi *wifi.Interface) ([]*wifi.BSS, error)
}

// Scanner reads access points from the station interfaces of an nl80211
// client
type Scanner struct {
	client    Client
	iface     string
	maxResult int
	logger    logger.Logger
}

// Open connects to nl80211. The returned close func releases the socket.
func Open(iface string, maxResult int, log logger.Logger) (*Scanner, func() error, error) {
	c, err := wifi.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open nl80211 client")
	}
	return New(c, iface, maxResult, log), c.Close, nil
}

// New wraps a client. An empty iface scans every station interface.
func New(client Client, iface string, maxResult int, log logger.Logger) *Scanner {
	return &Scanner{
		client:    client,
		iface:     iface,
		maxResult: maxResult,
		logger:    log,
	}
}

// Scan triggers a scan and returns the networks seen, strongest first.
// A failed trigger falls back to the kernel's cached results.
func (s *Scanner) Scan(ctx context.Context) ([]Network, error) {
	ifis, err := s.client.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wifi interfaces")
	}

	var networks []Network
	found := false
	for _, ifi := range ifis {
		if ifi.Type != wifi.InterfaceTypeStation {
			continue
		}
		if s.iface != "" && ifi.Name != s.iface {
			continue
		}
		found = true

		if err := s.client.Scan(ctx, ifi); err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "scan cancelled")
			}
			s.logger.Warn("Scan trigger failed, using cached results", "interface", ifi.Name, "error", err)
		}

		aps, err := s.client.AccessPoints(ifi)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read access points on %s", ifi.Name)
		}
		for _, ap := range aps {
			networks = append(networks, fromBSS(ap))
		}
	}

	if !found {
		if s.iface != "" {
			return nil, errors.Errorf("no station interface named %s", s.iface)
		}
		return nil, errors.New("no wifi station interface")
	}

	SortByStrength(networks)
	if s.maxResult > 0 && len(networks) > s.maxResult {
		networks = networks[:s.maxResult]
	}
	s.logger.Debug("Scan complete", "networks", len(networks))
	return networks, nil
}

func fromBSS(bss *wifi.BSS) Network {
	return Network{
		SSID:         bss.SSID,
		BSSID:        bss.BSSID.String(),
		RSSI:         int(bss.Signal) / 100,
		Encrypted:    bss.RSN.IsInitialized(),
		FrequencyMHz: bss.Frequency,
	}
}
