// Package tui shows the departure board in the terminal and maps keys to
// tracker actions.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/bus-tracker/display"
	"github.com/jc3248-sketches/internal/bus-tracker/render"
)

const (
	DefaultRedraw = 250 * time.Millisecond

	noticeAccepted = "Refresh requested"
	noticeBusy     = "Fetch already running"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorDimmed))

// Refresher accepts manual refresh requests
type Refresher interface {
	RequestRefresh() bool
}

type redrawMsg time.Time

// Model is the Bubble Tea model for the board
type Model struct {
	screen    *display.Screen
	refresher Refresher
	spinner   spinner.Model
	redraw    time.Duration
	width     int
	version   uint64
	notice    string
}

// New creates a model reading the board from screen
func New(screen *display.Screen, refresher Refresher, redraw time.Duration) Model {
	if redraw <= 0 {
		redraw = DefaultRedraw
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorAccent))

	return Model{
		screen:    screen,
		refresher: refresher,
		spinner:   s,
		redraw:    redraw,
		width:     60,
	}
}

func redrawCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, redrawCmd(m.redraw))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.refresher.RequestRefresh() {
				m.notice = noticeAccepted
			} else {
				m.notice = noticeBusy
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case redrawMsg:
		// a new board clears the last key notice
		if v := m.screen.Version(); v != m.version {
			m.version = v
			m.notice = ""
		}
		return m, redrawCmd(m.redraw)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	board := display.Draw(m.screen.Snapshot(), m.width, m.spinner.View())

	help := "r: refresh  q: quit"
	if m.notice != "" {
		help = m.notice + "  |  " + help
	}
	return board + "\n\n" + helpStyle.Render(help) + "\n"
}

// Notice returns the feedback for the last key press
func (m Model) Notice() string {
	return m.notice
}
