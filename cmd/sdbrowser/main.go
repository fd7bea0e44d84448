package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jc3248-sketches/internal/common/config"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/sd-browser/browser"
	"github.com/jc3248-sketches/internal/sd-browser/tui"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadBrowser()
	if len(os.Args) > 1 {
		cfg.Root = os.Args[1]
	}

	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = false
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	b, err := browser.New(cfg.Root, cfg.MaxEntries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Volume not available: %v\n", err)
		log.Fatal("Failed to open root", "root", cfg.Root, "error", err)
	}

	log.Info("SD Browser starting", "root", cfg.Root, "max_entries", cfg.MaxEntries)

	program := tea.NewProgram(tui.New(b, cfg.MaxPreviewBytes, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("Browser error", "error", err)
		os.Exit(1)
	}

	log.Info("SD Browser stopped")
}
