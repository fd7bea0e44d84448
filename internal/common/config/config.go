package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/jc3248-sketches/internal/bus-tracker/fetcher"
	"github.com/jc3248-sketches/internal/bus-tracker/schedule"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

const (
	MaxStops         = 16
	MaxDepartures    = 20
	DefaultTimezone  = "Europe/Paris"
	DefaultBoardFile = "board.yaml"
)

type Config struct {
	Prim     PrimConfig
	Schedule ScheduleConfig
	Board    Board
	History  HistoryConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Discord  DiscordConfig
	API      APIConfig
	Logging  LoggingConfig
}

// PrimConfig for the IDFM stop monitoring endpoint
type PrimConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	MaxDepartures int
}

type ScheduleConfig struct {
	RushInterval   time.Duration
	NormalInterval time.Duration
	NightStartHour int
	NightEndHour   int
	Timezone       string
	LoopTick       time.Duration
}

type HistoryConfig struct {
	Enabled         bool
	Retention       time.Duration
	CleanupInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr        string
	KeyPrefix   string
	SnapshotTTL time.Duration
}

type DiscordConfig struct {
	WebhookURL string
}

type APIConfig struct {
	Addr           string
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

// Load reads the environment and the board file named by BOARD_FILE
func Load() (*Config, error) {
	cfg := &Config{
		Prim: PrimConfig{
			BaseURL:       getEnv("PRIM_BASE_URL", fetcher.DefaultBaseURL),
			APIKey:        getEnv("PRIM_API_KEY", ""),
			Timeout:       getDurationEnv("FETCH_TIMEOUT", fetcher.DefaultTimeout),
			MaxDepartures: getIntEnv("MAX_DEPARTURES", models.DefaultMaxDepartures),
		},
		Schedule: ScheduleConfig{
			RushInterval:   getDurationEnv("RUSH_INTERVAL", 5*time.Minute),
			NormalInterval: getDurationEnv("NORMAL_INTERVAL", 10*time.Minute),
			NightStartHour: getIntEnv("NIGHT_START_HOUR", 20),
			NightEndHour:   getIntEnv("NIGHT_END_HOUR", 6),
			Timezone:       getEnv("TIMEZONE", DefaultTimezone),
			LoopTick:       getDurationEnv("LOOP_TICK", 100*time.Millisecond),
		},
		History: HistoryConfig{
			Enabled:         getBoolEnv("HISTORY_ENABLED", false),
			Retention:       getDurationEnv("HISTORY_RETENTION", 30*24*time.Hour),
			CleanupInterval: getDurationEnv("HISTORY_CLEANUP_INTERVAL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "bustracker"),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			KeyPrefix:   getEnv("REDIS_KEY_PREFIX", "bustracker:departures"),
			SnapshotTTL: getDurationEnv("SNAPSHOT_TTL", 30*time.Minute),
		},
		Discord: DiscordConfig{
			WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		},
		API: APIConfig{
			Addr:           getEnv("API_ADDR", ":8080"),
			AllowedOrigins: getListEnv("API_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "bustracker.log"),
		},
	}

	board, err := LoadBoard(getEnv("BOARD_FILE", DefaultBoardFile))
	if err != nil {
		return nil, err
	}
	if current := getIntEnv("CURRENT_STOP", -1); current >= 0 {
		board.Current = current
	}
	cfg.Board = *board

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every bound the tracker relies on
func (c *Config) Validate() error {
	if err := c.Board.Validate(); err != nil {
		return err
	}
	if c.Prim.MaxDepartures < 1 || c.Prim.MaxDepartures > MaxDepartures {
		return fmt.Errorf("max departures %d out of range 1-%d", c.Prim.MaxDepartures, MaxDepartures)
	}
	if c.Prim.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Schedule.LoopTick <= 0 {
		return fmt.Errorf("loop tick must be positive")
	}
	policy, err := c.Policy()
	if err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Policy builds the refresh policy from the schedule settings and the
// board's rush windows
func (c *Config) Policy() (schedule.Policy, error) {
	policy := schedule.Policy{
		RushInterval:   c.Schedule.RushInterval,
		NormalInterval: c.Schedule.NormalInterval,
		NightStartHour: c.Schedule.NightStartHour,
		NightEndHour:   c.Schedule.NightEndHour,
	}
	windows, err := c.Board.Windows()
	if err != nil {
		return schedule.Policy{}, err
	}
	policy.RushWindows = windows
	return policy, nil
}

// Location loads the configured time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// Fetcher returns the PRIM client settings
func (c *Config) Fetcher() fetcher.Config {
	return fetcher.Config{
		BaseURL:       c.Prim.BaseURL,
		APIKey:        c.Prim.APIKey,
		Timeout:       c.Prim.Timeout,
		MaxDepartures: c.Prim.MaxDepartures,
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
