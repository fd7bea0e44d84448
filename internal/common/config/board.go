package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jc3248-sketches/internal/bus-tracker/lines"
	"github.com/jc3248-sketches/internal/bus-tracker/schedule"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// Board is the static part of the tracker: which stops exist, which one
// is shown and how line references are named
type Board struct {
	Title       string               `yaml:"title" toml:"title"`
	Current     int                  `yaml:"current" toml:"current"`
	Stops       []models.Stop        `yaml:"stops" toml:"stops"`
	Lines       []models.LineMapping `yaml:"lines" toml:"lines"`
	RushWindows []RushWindow         `yaml:"rush_windows" toml:"rush_windows"`
}

// RushWindow is a window with "HH:MM" bounds
type RushWindow struct {
	Start string `yaml:"start" toml:"start"`
	End   string `yaml:"end" toml:"end"`
}

// DefaultBoard is used when no board file exists
func DefaultBoard() Board {
	return Board{
		Title: "Bus Tracker",
		Stops: []models.Stop{
			{ID: "413248", Name: "Marechal Foch"},
		},
		Lines: lines.DefaultMappings(),
		RushWindows: []RushWindow{
			{Start: "06:30", End: "09:00"},
			{Start: "16:00", End: "18:00"},
		},
	}
}

// LoadBoard reads a YAML or TOML board file depending on its extension.
// A missing file yields the default board.
func LoadBoard(path string) (*Board, error) {
	board := DefaultBoard()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &board, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board file %s: %w", path, err)
	}

	parsed := Board{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &parsed)
	case ".toml":
		_, err = toml.Decode(string(data), &parsed)
	default:
		return nil, fmt.Errorf("unsupported board file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse board file %s: %w", path, err)
	}

	if parsed.Title == "" {
		parsed.Title = board.Title
	}
	if len(parsed.Lines) == 0 {
		parsed.Lines = board.Lines
	}
	if len(parsed.RushWindows) == 0 {
		parsed.RushWindows = board.RushWindows
	}
	return &parsed, nil
}

// CurrentStop returns the stop being monitored
func (b Board) CurrentStop() models.Stop {
	if b.Current < 0 || b.Current >= len(b.Stops) {
		return models.Stop{}
	}
	return b.Stops[b.Current]
}

// Validate checks stop and line table bounds
func (b Board) Validate() error {
	if len(b.Stops) == 0 || len(b.Stops) > MaxStops {
		return fmt.Errorf("board must have 1-%d stops, got %d", MaxStops, len(b.Stops))
	}
	if b.Current < 0 || b.Current >= len(b.Stops) {
		return fmt.Errorf("current stop %d out of range 0-%d", b.Current, len(b.Stops)-1)
	}
	if !b.CurrentStop().Configured() {
		return fmt.Errorf("current stop %d has no id", b.Current)
	}
	for i, m := range b.Lines {
		if m.Code == "" || m.Name == "" {
			return fmt.Errorf("line mapping %d needs both code and name", i)
		}
	}
	if _, err := b.Windows(); err != nil {
		return err
	}
	return nil
}

// Windows parses the rush window bounds
func (b Board) Windows() ([]schedule.Window, error) {
	windows := make([]schedule.Window, 0, len(b.RushWindows))
	for i, w := range b.RushWindows {
		start, err := parseClock(w.Start)
		if err != nil {
			return nil, fmt.Errorf("rush window %d start: %w", i, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return nil, fmt.Errorf("rush window %d end: %w", i, err)
		}
		windows = append(windows, schedule.Window{Start: start, End: end})
	}
	return windows, nil
}

func parseClock(s string) (schedule.ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return schedule.At(h, m), nil
}
