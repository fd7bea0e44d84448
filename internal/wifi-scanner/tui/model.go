// Package tui lists scanned WiFi networks with their signal strength.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/wifi-scanner/scanner"
)

const (
	colorBackground = "#1a1a2e"
	colorCard       = "#16213e"
	colorAccent     = "#00ff88"
	colorText       = "#ffffff"
	colorDimmed     = "#888888"

	statusIdle     = "Press r to scan"
	statusScanning = "Scanning..."
	lockMarker     = "[lock]"
	openMarker     = "      "
	nameWidth      = 28
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			Background(lipgloss.Color(colorBackground)).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDimmed))
	rowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(colorCard)).
			Foreground(lipgloss.Color(colorText)).
			Padding(0, 1)
)

type rescanMsg struct{}

type scanMsg struct {
	networks []scanner.Network
	err      error
}

// Model is the Bubble Tea model for the scanner
type Model struct {
	source   scanner.Source
	logger   logger.Logger
	timeout  time.Duration
	spinner  spinner.Model
	scanning bool
	networks []scanner.Network
	status   string
	offset   int
	height   int
}

func New(source scanner.Source, timeout time.Duration, log logger.Logger) Model {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))

	return Model{
		source:  source,
		logger:  log,
		timeout: timeout,
		spinner: s,
		status:  statusIdle,
		height:  24,
	}
}

func (m Model) scanCmd() tea.Cmd {
	source := m.source
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		networks, err := source.Scan(ctx)
		return scanMsg{networks: networks, err: err}
	}
}

// startScan is a no-op while a scan is running
func (m Model) startScan() (Model, tea.Cmd) {
	if m.scanning {
		return m, nil
	}
	m.scanning = true
	m.status = statusScanning
	m.networks = nil
	m.offset = 0
	m.logger.Info("Starting WiFi scan")
	return m, tea.Batch(m.scanCmd(), m.spinner.Tick)
}

// Init scans once on startup
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return rescanMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r", "s", "enter":
			return m.startScan()
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.networks)-1 {
				m.offset++
			}
		}
		return m, nil

	case rescanMsg:
		return m.startScan()

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case scanMsg:
		m.scanning = false
		if msg.err != nil {
			m.logger.Warn("WiFi scan failed", "error", msg.err)
			m.status = "Scan failed: " + msg.err.Error()
			return m, nil
		}
		m.networks = msg.networks
		m.status = scanner.Status(len(msg.networks))
		m.logger.Info("Scan complete", "networks", len(msg.networks))
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("WiFi Scanner"))
	if m.scanning {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.status))
	b.WriteString("\n\n")

	for _, n := range m.visible() {
		b.WriteString(Row(n))
		b.WriteString("\n")
	}

	help := "r: scan  up/down: scroll  q: quit"
	if m.scanning {
		help = "q: quit"
	}
	b.WriteString("\n" + dimStyle.Render(help) + "\n")
	return b.String()
}

func (m Model) visible() []scanner.Network {
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	end := m.offset + rows
	if end > len(m.networks) {
		end = len(m.networks)
	}
	if m.offset >= end {
		return nil
	}
	return m.networks[m.offset:end]
}

// Row renders one network: lock marker, name, colored strength
func Row(n scanner.Network) string {
	marker := openMarker
	if n.Encrypted {
		marker = lockMarker
	}
	name := n.Name()
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-3]) + "..."
	}
	strength := lipgloss.NewStyle().
		Foreground(lipgloss.Color(scanner.SignalColor(n.RSSI))).
		Width(9).
		Align(lipgloss.Right).
		Render(n.Strength())
	left := dimStyle.Render(marker) + " " + lipgloss.NewStyle().Width(nameWidth).Render(name)
	return rowStyle.Render(left + " " + strength)
}

// Status returns the status line
func (m Model) Status() string {
	return m.status
}

// Scanning reports whether a scan is running
func (m Model) Scanning() bool {
	return m.scanning
}
