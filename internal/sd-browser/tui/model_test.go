package tui

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/sd-browser/browser"
)

func newModel(t *testing.T) Model {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "dcim"), 0o755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	img := imaging.New(8, 8, color.NRGBA{B: 255, A: 255})
	if err := imaging.Save(img, filepath.Join(root, "dcim", "cat.jpg")); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	b, err := browser.New(root, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return New(b, 0, logger.Nop())
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m := newModel(t)

	view := m.View()
	if !strings.Contains(view, "2 items") || !strings.Contains(view, "dcim/") || !strings.Contains(view, "readme.txt  (5 B)") {
		t.Errorf("Unexpected root view:\n%s", view)
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.browser.Path() != "/dcim/" {
		t.Fatalf("Expected /dcim/, got %s", m.browser.Path())
	}
	if !strings.Contains(m.View(), "1 item") {
		t.Error("Expected one item in dcim")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.browser.Path() != "/" {
		t.Errorf("Expected /, got %s", m.browser.Path())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", m.cursor)
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("Expected cursor to stay at 1, got %d", m.cursor)
	}
}

func TestPreview(t *testing.T) {
	m := newModel(t)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modePreview || cmd == nil {
		t.Fatal("Expected preview mode with a load command")
	}
	if !strings.Contains(m.View(), "Loading cat.jpg") {
		t.Error("Expected loading message")
	}

	m, _ = update(m, cmd())
	if m.preview == "" {
		t.Error("Expected preview content")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList {
		t.Error("Expected esc to close the preview")
	}
}

func TestInfoToggle(t *testing.T) {
	m := newModel(t)

	m, cmd := update(m, runes("i"))
	if m.mode != modeInfo || cmd == nil {
		t.Fatal("Expected info mode with a read command")
	}

	m, _ = update(m, infoMsg{info: browser.VolumeInfo{Type: "ext4", Capacity: 1024, Used: 512, Free: 512, UsedPercent: 50}})
	view := m.View()
	if !strings.Contains(view, "Type: ext4") || !strings.Contains(view, "Used: 512 B (50.0%)") {
		t.Errorf("Unexpected info view:\n%s", view)
	}

	m, _ = update(m, runes("i"))
	if m.mode != modeList {
		t.Error("Expected i to leave info")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := update(m, runes("q"))
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
