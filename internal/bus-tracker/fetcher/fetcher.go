// Package fetcher retrieves upcoming departures for a stop from the PRIM
// stop-monitoring endpoint.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jc3248-sketches/internal/bus-tracker/lines"
	"github.com/jc3248-sketches/internal/bus-tracker/state"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

const (
	DefaultBaseURL       = "https://prim.iledefrance-mobilites.fr/marketplace/stop-monitoring"
	DefaultMonitoringRef = "STIF:StopPoint:Q:%s:"
	DefaultTimeout       = 15 * time.Second
	DefaultMaxBodyBytes  = 2 << 20

	HeaderAPIKey = "apikey"
	UserAgent    = "jc3248-bustracker/1.0"
)

// Config for the stop-monitoring client
type Config struct {
	BaseURL          string
	APIKey           string
	MonitoringRefFmt string
	Timeout          time.Duration
	MaxDepartures    int
	MaxBodyBytes     int64
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MonitoringRefFmt == "" {
		c.MonitoringRefFmt = DefaultMonitoringRef
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxDepartures <= 0 {
		c.MaxDepartures = models.DefaultMaxDepartures
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// Fetcher performs one request per call and writes the outcome into the
// tracker state
type Fetcher struct {
	config     Config
	httpClient *http.Client
	resolver   *lines.Resolver
	logger     logger.Logger
	now        func() time.Time
}

// New creates a Fetcher
func New(cfg Config, resolver *lines.Resolver, log logger.Logger) *Fetcher {
	cfg = cfg.withDefaults()
	return &Fetcher{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		resolver: resolver,
		logger:   log,
		now:      time.Now,
	}
}

// Fetch requests departures for the tracker's stop. It returns false and
// leaves the state untouched when the stop is not configured or another
// fetch holds the in-flight flag.
func (f *Fetcher) Fetch(ctx context.Context, st *state.Tracker) bool {
	stop := st.Stop()
	if !stop.Configured() {
		return false
	}
	if !st.BeginFetch() {
		f.logger.Debug("Fetch already in flight, skipping", "stop_id", stop.ID)
		return false
	}
	defer st.EndFetch()

	start := time.Now()
	departures, fetchErr := f.fetch(ctx, stop)
	if fetchErr != nil {
		f.logger.Warn("Departure fetch failed",
			"stop_id", stop.ID,
			"kind", string(fetchErr.Kind),
			"error", fetchErr,
			"duration", time.Since(start))
		st.ApplyFailure(fetchErr)
		return true
	}

	st.ApplySuccess(departures, f.now())
	f.logger.Info("Departures updated",
		"stop_id", stop.ID,
		"departures", len(departures),
		"duration", time.Since(start))
	return true
}

// RequestURL builds the stop-monitoring URL for stop
func (f *Fetcher) RequestURL(stop models.Stop) string {
	q := url.Values{}
	q.Set("MonitoringRef", fmt.Sprintf(f.config.MonitoringRefFmt, stop.ID))
	return f.config.BaseURL + "?" + q.Encode()
}

func (f *Fetcher) fetch(ctx context.Context, stop models.Stop) ([]models.Departure, *models.FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RequestURL(stop), nil)
	if err != nil {
		return nil, &models.FetchError{Kind: models.ConnectionError, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderAPIKey, f.config.APIKey)
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Kind: models.ConnectionError, Err: fmt.Errorf("failed to fetch departures: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.config.MaxBodyBytes))
		return nil, &models.FetchError{Kind: models.HTTPStatusError, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes))
	if err != nil {
		return nil, &models.FetchError{Kind: models.ConnectionError, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return Parse(body, f.now(), f.resolver, f.config.MaxDepartures, f.logger)
}
