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
	"github.com/jc3248-sketches/internal/system-monitor/collector"
	"github.com/jc3248-sketches/internal/system-monitor/dashboard"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadSysMonitor()

	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = false
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	log.Info("System Monitor starting", "refresh_interval", cfg.RefreshInterval)

	program := tea.NewProgram(dashboard.New(collector.New(), cfg.RefreshInterval, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("Dashboard error", "error", err)
		os.Exit(1)
	}

	log.Info("System Monitor stopped")
}
