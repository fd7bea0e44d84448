// Package tui shows where the pointer touches the terminal and draws a dot
// at that cell.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/common/logger"
)

const (
	colorBackground = "#1a1a2e"
	colorAccent     = "#00ff88"
	colorText       = "#ffffff"
	colorDimmed     = "#888888"

	statusWaiting  = "Touch the screen!"
	statusContact  = "Contact!"
	statusReleased = "Released - touch again!"

	dot = "●"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			Background(lipgloss.Color(colorBackground))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorText))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDimmed))
)

// Model tracks the last touched cell
type Model struct {
	logger   logger.Logger
	width    int
	height   int
	x, y     int
	touched  bool
	pressing bool
	status   string
}

func New(log logger.Logger) Model {
	return Model{
		logger: log,
		width:  80,
		height: 24,
		status: statusWaiting,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.touch(msg), nil
	}
	return m, nil
}

func (m Model) touch(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionRelease:
		if m.pressing {
			m.pressing = false
			m.status = statusReleased
		}
		return m

	case tea.MouseActionPress:
		if tea.MouseEvent(msg).IsWheel() {
			return m
		}

	case tea.MouseActionMotion:
		// cell motion reports drags with the held button, hover without one
		if msg.Button == tea.MouseButtonNone {
			return m
		}
	}

	m.x, m.y = msg.X, msg.Y
	m.touched = true
	m.pressing = true
	m.status = statusContact
	m.logger.Debug("Touch", "x", msg.X, "y", msg.Y)
	return m
}

// Coordinates formats the last touched cell
func (m Model) Coordinates() string {
	if !m.touched {
		return "X: ---  Y: ---"
	}
	return fmt.Sprintf("X: %3d  Y: %3d", m.x, m.y)
}

// Status returns the touch status line
func (m Model) Status() string {
	return m.status
}

// View fills the terminal, placing the dot at the touched cell and the
// labels on their own rows
func (m Model) View() string {
	rows := make([][]string, m.height)
	for i := range rows {
		rows[i] = make([]string, m.width)
		for j := range rows[i] {
			rows[i][j] = " "
		}
	}

	put := func(row int, text string) {
		if row < 0 || row >= m.height {
			return
		}
		col := (m.width - lipgloss.Width(text)) / 2
		if col < 0 {
			col = 0
		}
		for i, r := range []rune(text) {
			if col+i >= m.width {
				break
			}
			rows[row][col+i] = string(r)
		}
	}

	put(1, "TouchTest")
	put(m.height/2, m.Coordinates())
	put(m.height-3, m.status)

	if m.touched && m.y >= 0 && m.y < m.height && m.x >= 0 && m.x < m.width {
		rows[m.y][m.x] = dot
	}

	var b strings.Builder
	for i, row := range rows {
		line := strings.Join(row, "")
		switch i {
		case 1:
			line = titleStyle.Render(line)
		case m.height / 2:
			if m.pressing {
				line = accentStyle.Render(line)
			} else {
				line = textStyle.Render(line)
			}
		case m.height - 3:
			if m.pressing {
				line = accentStyle.Render(line)
			} else {
				line = dimStyle.Render(line)
			}
		}
		b.WriteString(line)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
