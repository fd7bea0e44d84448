package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jc3248-sketches/internal/bus-tracker/alert"
	"github.com/jc3248-sketches/internal/bus-tracker/api"
	"github.com/jc3248-sketches/internal/bus-tracker/display"
	"github.com/jc3248-sketches/internal/bus-tracker/fetcher"
	"github.com/jc3248-sketches/internal/bus-tracker/history"
	"github.com/jc3248-sketches/internal/bus-tracker/lines"
	"github.com/jc3248-sketches/internal/bus-tracker/poller"
	"github.com/jc3248-sketches/internal/bus-tracker/render"
	"github.com/jc3248-sketches/internal/bus-tracker/snapshot"
	"github.com/jc3248-sketches/internal/bus-tracker/state"
	"github.com/jc3248-sketches/internal/bus-tracker/tui"
	"github.com/jc3248-sketches/internal/common/config"
	"github.com/jc3248-sketches/internal/common/db"
	"github.com/jc3248-sketches/internal/common/discord"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/common/maintenance"
	"github.com/jc3248-sketches/internal/common/repository"
)

func main() {
	headless := flag.Bool("headless", false, "run without the terminal board (API and sinks only)")
	flag.Parse()

	// .env is optional; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The board owns the terminal unless headless, so console logging is off
	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = *headless
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	stop := cfg.Board.CurrentStop()
	log.Info("Bus Tracker starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"stop_id", stop.ID,
		"stop_name", stop.Name,
		"headless", *headless,
	)

	if cfg.Prim.APIKey == "" {
		log.Warn("PRIM_API_KEY is not set, requests will be rejected")
	}

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatal("Invalid schedule", "error", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	var sinks []poller.Sink

	if cfg.History.Enabled {
		database, err := db.New(cfg.Database.ConnectionString(), log)
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare schema", "error", err)
		}
		sinks = append(sinks, history.NewRecorder(database, log))

		cleanup := maintenance.NewCleanupScheduler(database, log, maintenance.SchedulerConfig{
			CleanupInterval: cfg.History.CleanupInterval,
			Retention:       cfg.History.Retention,
			InitialDelay:    time.Minute,
			Vacuum:          true,
		})
		if err := cleanup.Start(ctx); err != nil {
			log.Fatal("Failed to start cleanup scheduler", "error", err)
		}
		defer cleanup.Stop()
	} else {
		log.Info("Departure history disabled")
	}

	if cfg.Redis.Addr != "" {
		pool := repository.NewRedisPool(
			repository.RedisPoolAddr(cfg.Redis.Addr),
			repository.RedisPoolMaxIdle(2),
			repository.RedisPoolMaxActive(4),
			repository.RedisPoolIdleTimeout(4*time.Minute),
			repository.RedisPoolTestOnBorrow(repository.PingOnBorrow),
		)
		defer pool.Close()
		sinks = append(sinks, snapshot.NewPublisher(pool, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL, log))
		log.Info("Redis snapshots enabled", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.KeyPrefix)
	}

	if cfg.Discord.WebhookURL != "" {
		sinks = append(sinks, alert.NewNotifier(discord.NewClient(cfg.Discord.WebhookURL), log))
		log.Info("Discord alerts enabled")
	}

	tracker := state.New(stop)
	screen := display.NewScreen(render.BuildBoard(render.BoardInput{
		Title:        cfg.Board.Title,
		Stop:         stop,
		ServiceHours: policy.ServiceHours(),
		Location:     loc,
	}))
	prim := fetcher.New(cfg.Fetcher(), lines.NewResolver(cfg.Board.Lines), log)

	loop := poller.New(poller.Config{
		Tick:         cfg.Schedule.LoopTick,
		Location:     loc,
		Title:        cfg.Board.Title,
		FetchOnStart: true,
	}, policy, tracker, prim, screen, log, sinks...)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := loop.Run(ctx); err != nil {
			log.Error("Poll loop error", "error", err)
		}
	}()

	server := api.NewServer(api.Config{
		Addr:           cfg.API.Addr,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}, screen, tracker, loop, log)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(ctx); err != nil {
			log.Error("API server error", "error", err)
		}
	}()

	if *headless {
		<-ctx.Done()
		log.Info("Shutdown signal received")
	} else {
		program := tea.NewProgram(tui.New(screen, tracker, tui.DefaultRedraw), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Error("Board UI error", "error", err)
		}
		log.Info("Board closed")
	}

	cancel()
	wg.Wait()

	log.Info("Bus Tracker stopped")
}
