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
	"github.com/jc3248-sketches/internal/touch-test/tui"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadTouchTest()

	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = false
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	log.Info("TouchTest starting")

	program := tea.NewProgram(tui.New(log), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		log.Error("Touch UI error", "error", err)
		os.Exit(1)
	}

	log.Info("TouchTest stopped")
}
