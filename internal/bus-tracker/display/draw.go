package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/bus-tracker/render"
)

const (
	minWidth  = 40
	timeWidth = 9
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(render.ColorAccent)).
			Background(lipgloss.Color(render.ColorBackground)).
			Padding(0, 1)

	stopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(render.ColorText))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(render.ColorDimmed))

	rowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(render.ColorCard)).
			Foreground(lipgloss.Color(render.ColorText)).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(render.ColorImminent))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(render.ColorDimmed)).
			Foreground(lipgloss.Color(render.ColorDimmed)).
			Align(lipgloss.Center).
			Padding(1, 2)
)

// Draw lays out the board for a terminal of the given width. spinner is
// shown next to the status while a fetch is running.
func Draw(v render.BoardView, width int, spinner string) string {
	if width < minWidth {
		width = minWidth
	}

	var sections []string

	title := v.Title
	if title == "" {
		title = "Bus Tracker"
	}
	sections = append(sections, titleStyle.Width(width).Render(title))
	sections = append(sections, stopStyle.Render(v.StopName)+"  "+dimStyle.Render(v.UpdatedLabel))
	sections = append(sections, "")

	if v.Night {
		sections = append(sections, overlayStyle.Width(width-4).Render("Sleeping\n"+v.NightMessage))
	} else {
		for _, row := range v.Rows {
			sections = append(sections, drawRow(row, width))
		}
	}

	sections = append(sections, "")
	sections = append(sections, drawStatus(v, spinner))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func drawRow(row render.Row, width int) string {
	timeCell := lipgloss.NewStyle().
		Bold(true).
		Width(timeWidth).
		Foreground(lipgloss.Color(row.Time.Color)).
		Render(row.Time.Label)

	text := row.Text()
	room := width - timeWidth - 4
	if room > 0 && lipgloss.Width(text) > room {
		text = string([]rune(text)[:room])
	}

	return rowStyle.Width(width).Render(timeCell + " " + text)
}

func drawStatus(v render.BoardView, spinner string) string {
	status := v.Status
	switch {
	case v.Loading && spinner != "":
		status = spinner + " " + status
	case v.Failed:
		return errorStyle.Render(status)
	}
	return dimStyle.Render(strings.TrimSpace(status))
}
