// Package poller drives the bus tracker: it applies the time policy every
// tick, starts fetches on a worker goroutine and keeps the board current.
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jc3248-sketches/internal/bus-tracker/render"
	"github.com/jc3248-sketches/internal/bus-tracker/schedule"
	"github.com/jc3248-sketches/internal/bus-tracker/state"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// DefaultTick is how often the loop re-evaluates the schedule
const DefaultTick = 100 * time.Millisecond

// Fetcher refreshes the tracker state. It reports whether a request was made.
type Fetcher interface {
	Fetch(ctx context.Context, st *state.Tracker) bool
}

// Renderer shows a board
type Renderer interface {
	Render(v render.BoardView)
}

// Sink receives every completed fetch result. Sinks may be called from
// more than one goroutine.
type Sink interface {
	Publish(ctx context.Context, stop models.Stop, res models.FetchResult) error
}

// Phase is what the loop is currently doing
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseNightSuppressed
	PhaseFetching
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseNightSuppressed:
		return "night_suppressed"
	case PhaseFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// Config for the poll loop
type Config struct {
	Tick         time.Duration
	Location     *time.Location
	Title        string
	FetchOnStart bool
}

// Loop is the single owner of the schedule. Only one fetch runs at a time.
type Loop struct {
	config   Config
	policy   schedule.Policy
	tracker  *state.Tracker
	fetcher  Fetcher
	renderer Renderer
	sinks    []Sink
	logger   logger.Logger
	now      func() time.Time

	done  chan bool
	busy  bool
	phase atomic.Int32
	wg    sync.WaitGroup
}

// New creates a poll loop
func New(cfg Config, policy schedule.Policy, tracker *state.Tracker, fetcher Fetcher, renderer Renderer, log logger.Logger, sinks ...Sink) *Loop {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Loop{
		config:   cfg,
		policy:   policy,
		tracker:  tracker,
		fetcher:  fetcher,
		renderer: renderer,
		sinks:    sinks,
		logger:   log,
		now:      time.Now,
		done:     make(chan bool, 1),
	}
}

// Phase returns the current phase. Safe to call from any goroutine.
func (l *Loop) Phase() Phase {
	return Phase(l.phase.Load())
}

// Run ticks until ctx is cancelled, then waits for an in-flight fetch
func (l *Loop) Run(ctx context.Context) error {
	stop := l.tracker.Stop()
	l.logger.Info("Starting poll loop",
		"stop_id", stop.ID,
		"stop_name", stop.Name,
		"tick", l.config.Tick,
		"location", l.config.Location.String())

	d := l.policy.Evaluate(l.localNow())
	l.tracker.UpdateSchedule(d.Interval, d.Night)
	l.updatePhase()
	l.render()

	if l.config.FetchOnStart {
		l.startFetch(ctx, "startup")
	}

	ticker := time.NewTicker(l.config.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Poll loop stopping")
			l.wg.Wait()
			return nil

		case fetched := <-l.done:
			l.finishFetch(fetched)

		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	now := l.localNow()
	d := l.policy.Evaluate(now)

	if wasNight := l.tracker.UpdateSchedule(d.Interval, d.Night); wasNight != d.Night {
		l.logger.Info("Night mode changed", "night", d.Night, "time", now.Format("15:04"))
		l.updatePhase()
		l.render()
	}

	if l.busy {
		return
	}

	if l.tracker.ConsumeRefresh() {
		l.startFetch(ctx, "manual")
		return
	}

	if d.Night {
		return
	}

	if now.Sub(l.tracker.Schedule().LastUpdate) >= d.Interval {
		l.startFetch(ctx, "scheduled")
	}
}

func (l *Loop) startFetch(ctx context.Context, reason string) {
	l.busy = true
	l.tracker.BeginCycle()
	l.updatePhase()
	l.render()

	l.logger.Debug("Starting fetch", "reason", reason)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fetched := l.fetcher.Fetch(ctx, l.tracker)
		// capture before signalling so the next fetch cannot overwrite it
		res := l.tracker.Result()
		l.done <- fetched
		if fetched {
			l.publish(ctx, res)
		}
	}()
}

func (l *Loop) finishFetch(fetched bool) {
	l.busy = false
	l.tracker.EndCycle()
	l.tracker.MarkUpdated(l.now())
	l.updatePhase()
	l.render()

	if fetched {
		res := l.tracker.Result()
		l.logger.Debug("Fetch finished", "valid", res.Valid, "departures", len(res.Departures), "error", res.ErrorText())
	}
}

func (l *Loop) publish(ctx context.Context, res models.FetchResult) {
	if len(l.sinks) == 0 {
		return
	}
	stop := l.tracker.Stop()
	for _, s := range l.sinks {
		if err := s.Publish(ctx, stop, res); err != nil {
			l.logger.Warn("Failed to publish fetch result", "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
}

func (l *Loop) render() {
	sched := l.tracker.Schedule()
	l.renderer.Render(render.BuildBoard(render.BoardInput{
		Title:        l.config.Title,
		Stop:         l.tracker.Stop(),
		Result:       l.tracker.Result(),
		Night:        sched.Night,
		ServiceHours: l.policy.ServiceHours(),
		Fetching:     l.busy,
		Location:     l.config.Location,
	}))
}

func (l *Loop) updatePhase() {
	p := PhaseIdle
	switch {
	case l.busy:
		p = PhaseFetching
	case l.tracker.Schedule().Night:
		p = PhaseNightSuppressed
	}
	l.phase.Store(int32(p))
}

func (l *Loop) localNow() time.Time {
	return l.now().In(l.config.Location)
}
