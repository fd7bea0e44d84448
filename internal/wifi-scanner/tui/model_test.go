package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/wifi-scanner/scanner"
)

type fakeSource struct {
	networks []scanner.Network
	err      error
	calls    int
}

func (f *fakeSource) Scan(ctx context.Context) ([]scanner.Network, error) {
	f.calls++
	return f.networks, f.err
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScan(t *testing.T) {
	t.Run("should scan on startup", func(t *testing.T) {
		m := New(&fakeSource{}, 0, logger.Nop())

		m, cmd := update(m, m.Init()())
		if !m.Scanning() || cmd == nil {
			t.Fatal("Expected a scan to start")
		}
		if m.Status() != statusScanning {
			t.Errorf("Expected %q, got %q", statusScanning, m.Status())
		}
	})

	t.Run("should list networks after a scan", func(t *testing.T) {
		src := &fakeSource{networks: []scanner.Network{
			{SSID: "home", RSSI: -45, Encrypted: true},
			{SSID: "cafe", RSSI: -72},
		}}
		m := New(src, 0, logger.Nop())

		m, _ = update(m, key("r"))
		m, _ = update(m, m.scanCmd()())

		if m.Scanning() {
			t.Error("Expected scan to be finished")
		}
		if m.Status() != "2 networks found" {
			t.Errorf("Expected count status, got %q", m.Status())
		}
		view := m.View()
		for _, want := range []string{"WiFi Scanner", "home", "-45 dBm", "cafe", "-72 dBm", lockMarker} {
			if !strings.Contains(view, want) {
				t.Errorf("Expected view to contain %q", want)
			}
		}
	})

	t.Run("should ignore rescans while scanning", func(t *testing.T) {
		m := New(&fakeSource{}, 0, logger.Nop())

		m, _ = update(m, key("r"))
		_, cmd := update(m, key("r"))
		if cmd != nil {
			t.Error("Expected no second scan while one is running")
		}
		if strings.Contains(m.View(), "r: scan") {
			t.Error("Expected the scan key to be hidden while scanning")
		}
	})

	t.Run("should report an empty scan", func(t *testing.T) {
		m := New(&fakeSource{}, 0, logger.Nop())
		m, _ = update(m, key("r"))
		m, _ = update(m, scanMsg{})
		if m.Status() != "No networks found" {
			t.Errorf("Expected empty status, got %q", m.Status())
		}
	})

	t.Run("should allow a rescan after a failure", func(t *testing.T) {
		m := New(&fakeSource{}, 0, logger.Nop())
		m, _ = update(m, key("r"))
		m, _ = update(m, scanMsg{err: errors.New("no wifi station interface")})

		if !strings.HasPrefix(m.Status(), "Scan failed") {
			t.Errorf("Expected failure status, got %q", m.Status())
		}
		if _, cmd := update(m, key("r")); cmd == nil {
			t.Error("Expected a new scan")
		}
	})

	t.Run("should quit on q", func(t *testing.T) {
		m := New(&fakeSource{}, 0, logger.Nop())
		_, cmd := update(m, key("q"))
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("Expected quit command")
		}
	})
}

func TestRow(t *testing.T) {
	t.Run("should mark open networks without a lock", func(t *testing.T) {
		row := Row(scanner.Network{SSID: "cafe", RSSI: -80})
		if strings.Contains(row, lockMarker) {
			t.Error("Expected no lock marker on an open network")
		}
	})

	t.Run("should show hidden networks", func(t *testing.T) {
		if row := Row(scanner.Network{RSSI: -55, Encrypted: true}); !strings.Contains(row, "(Hidden)") {
			t.Error("Expected hidden placeholder")
		}
	})
}
