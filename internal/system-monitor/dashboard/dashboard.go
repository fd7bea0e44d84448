// Package dashboard renders live memory and CPU cards.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/system-monitor/collector"
)

const (
	colorBackground = "#1a1a2e"
	colorCard       = "#16213e"
	colorRAM        = "#4cc9f0"
	colorSwap       = "#f72585"
	colorInfo       = "#fca311"
	colorText       = "#ffffff"
	colorDimmed     = "#888888"

	cardWidth = 34
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorText)).
			Background(lipgloss.Color(colorBackground)).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDimmed))
)

// Source produces one sample
type Source interface {
	Collect(ctx context.Context) (collector.Stats, error)
}

type tickMsg time.Time

type statsMsg struct {
	stats collector.Stats
	err   error
}

// Model is the Bubble Tea model for the dashboard
type Model struct {
	source   Source
	logger   logger.Logger
	interval time.Duration
	ram      progress.Model
	swap     progress.Model
	stats    *collector.Stats
	err      error
}

func New(source Source, interval time.Duration, log logger.Logger) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		source:   source,
		logger:   log,
		interval: interval,
		ram:      newBar(colorRAM),
		swap:     newBar(colorSwap),
	}
}

func newBar(color string) progress.Model {
	bar := progress.New(progress.WithSolidFill(color), progress.WithoutPercentage())
	bar.Width = cardWidth - 4
	return bar
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) collectCmd() tea.Cmd {
	source := m.source
	timeout := m.interval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stats, err := source.Collect(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.collectCmd(), tickCmd(m.interval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.collectCmd(), tickCmd(m.interval))

	case statsMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to collect system stats", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System Monitor"))
	b.WriteString("\n\n")

	if m.stats == nil {
		if m.err != nil {
			b.WriteString(dimStyle.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(dimStyle.Render("Collecting..."))
		}
		return b.String() + "\n"
	}

	s := m.stats
	ramCard := card("RAM", colorRAM,
		m.ram.ViewAs(float64(s.RAMPercent)/100),
		fmt.Sprintf("%d%%", s.RAMPercent),
		collector.FormatRAM(s.RAMUsedKB, s.RAMTotalKB))

	swapCard := card("Swap", colorSwap,
		m.swap.ViewAs(float64(s.SwapPercent)/100),
		fmt.Sprintf("%d%%", s.SwapPercent),
		collector.FormatSwap(s.SwapUsedMB, s.SwapTotalMB))

	model := s.Model
	if model == "" {
		model = "unknown"
	}
	infoCard := card("Chip", colorInfo,
		fmt.Sprintf("%s, %d cores", s.Chip, s.Cores),
		model,
		"CPU: "+collector.FormatFrequency(s.CPUMHz),
		"Uptime: "+collector.FormatUptime(s.Uptime))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, ramCard, " ", swapCard))
	b.WriteString("\n")
	b.WriteString(infoCard)
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(dimStyle.Render("Last sample failed: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("q: quit"))
	return b.String() + "\n"
}

func card(title, color string, lines ...string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(title)
	body := append([]string{header}, lines...)
	return lipgloss.NewStyle().
		Width(cardWidth).
		Background(lipgloss.Color(colorCard)).
		Foreground(lipgloss.Color(colorText)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1).
		Render(strings.Join(body, "\n"))
}
