package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/sd-browser/browser"
	"github.com/jc3248-sketches/internal/sd-browser/preview"
)

const (
	colorAccent = "#4cc9f0"
	colorFolder = "#fca311"
	colorFile   = "#ffffff"
	colorImage  = "#f72585"
	colorError  = "#ff4d4d"
	colorDimmed = "#888888"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDimmed))
	folderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorFolder))
	fileStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorFile))
	imageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorImage))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)

type mode int

const (
	modeList mode = iota
	modeInfo
	modePreview
)

type infoMsg struct {
	info browser.VolumeInfo
	err  error
}

type previewMsg struct {
	name    string
	content string
	err     error
}

// Model is the Bubble Tea model for the browser
type Model struct {
	browser         *browser.Browser
	logger          logger.Logger
	maxPreviewBytes int64
	mode            mode
	entries         []browser.Entry
	cursor          int
	info            []string
	preview         string
	previewName     string
	err             error
	width           int
	height          int
}

func New(b *browser.Browser, maxPreviewBytes int64, log logger.Logger) Model {
	m := Model{
		browser:         b,
		logger:          log,
		maxPreviewBytes: maxPreviewBytes,
		width:           80,
		height:          24,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) reload() {
	entries, err := m.browser.List()
	m.entries = entries
	m.err = err
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if err != nil {
		m.logger.Warn("Failed to list folder", "path", m.browser.Path(), "error", err)
	}
}

func (m Model) infoCmd() tea.Cmd {
	b := m.browser
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		info, err := b.Info(ctx)
		return infoMsg{info: info, err: err}
	}
}

func (m Model) previewCmd(name string) tea.Cmd {
	path := m.browser.FilePath(name)
	maxBytes := m.maxPreviewBytes
	w, h := m.width, m.height-3
	return func() tea.Msg {
		img, err := preview.Load(path, maxBytes)
		if err != nil {
			return previewMsg{name: name, err: err}
		}
		return previewMsg{name: name, content: preview.Render(img, w, h)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case infoMsg:
		if m.mode != modeInfo {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("Failed to read volume info", "error", msg.err)
			m.info = []string{"Volume not available"}
			m.err = msg.err
			return m, nil
		}
		m.info = msg.info.Lines()
		m.err = nil
		return m, nil

	case previewMsg:
		if m.mode != modePreview || msg.name != m.previewName {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("Failed to preview image", "name", msg.name, "error", msg.err)
			m.mode = modeList
			m.err = msg.err
			return m, nil
		}
		m.preview = msg.content
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.mode {
	case modePreview:
		switch msg.String() {
		case "esc", "enter", "backspace":
			m.mode = modeList
			m.preview = ""
			m.previewName = ""
		}
		return m, nil

	case modeInfo:
		switch msg.String() {
		case "i", "backspace", "esc":
			m.mode = modeList
			m.reload()
		case "r":
			return m, m.infoCmd()
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= len(m.entries) {
			return m, nil
		}
		e := m.entries[m.cursor]
		switch {
		case e.IsDir:
			if err := m.browser.Navigate(e.Name); err != nil {
				m.err = err
				return m, nil
			}
			m.cursor = 0
			m.reload()
		case e.Image:
			m.mode = modePreview
			m.previewName = e.Name
			m.preview = ""
			return m, m.previewCmd(e.Name)
		}
	case "backspace":
		if err := m.browser.Navigate(".."); err != nil {
			m.err = err
			return m, nil
		}
		m.cursor = 0
		m.reload()
	case "i":
		m.mode = modeInfo
		m.info = nil
		return m, m.infoCmd()
	case "r":
		m.reload()
	}
	return m, nil
}

func (m Model) View() string {
	switch m.mode {
	case modePreview:
		if m.preview == "" {
			return pathStyle.Render("Loading "+m.previewName+"...") + "\n"
		}
		return m.preview + "\n" + pathStyle.Render(m.previewName+"  esc: close") + "\n"
	case modeInfo:
		return m.viewInfo()
	}
	return m.viewList()
}

func (m Model) viewInfo() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Volume info"))
	b.WriteString("\n\n")
	if m.info == nil {
		b.WriteString(pathStyle.Render("Reading..."))
		b.WriteString("\n")
	}
	for _, line := range m.info {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pathStyle.Render("i: back  r: refresh  q: quit"))
	return b.String() + "\n"
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(browser.Title(len(m.entries))))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render(m.browser.Path()))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	for i, e := range m.entries {
		style := fileStyle
		switch {
		case e.IsDir:
			style = folderStyle
		case e.Image:
			style = imageStyle
		}
		line := style.Render(e.Label())
		if i == m.cursor {
			line = selectedStyle.Render("> " + e.Label())
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pathStyle.Render("enter: open  backspace: up  i: info  r: refresh  q: quit"))
	return b.String() + "\n"
}
