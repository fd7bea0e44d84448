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
	"github.com/jc3248-sketches/internal/wifi-scanner/scanner"
	"github.com/jc3248-sketches/internal/wifi-scanner/tui"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadWifiScanner()

	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = false
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	log.Info("WiFi Scanner starting", "interface", cfg.Interface, "max_networks", cfg.MaxNetworks)

	s, closeClient, err := scanner.Open(cfg.Interface, cfg.MaxNetworks, log)
	if err != nil {
		log.Error("Failed to open WiFi scanner", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeClient()

	program := tea.NewProgram(tui.New(s, cfg.ScanTimeout, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error("Scanner UI error", "error", err)
		closeClient()
		os.Exit(1)
	}

	log.Info("WiFi Scanner stopped")
}
