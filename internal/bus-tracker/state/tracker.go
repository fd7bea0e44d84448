// Package state holds the mutable state shared by the fetcher, the poll
// loop and the user-facing surfaces of the bus tracker.
package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// Schedule is the poll loop's view of the refresh cadence
type Schedule struct {
	Interval   time.Duration `json:"interval"`
	Night      bool          `json:"night"`
	LastUpdate time.Time     `json:"last_update"`
}

// Tracker owns the current stop, the latest fetch result, the schedule
// and the in-flight and manual refresh flags.
type Tracker struct {
	mu       sync.RWMutex
	stop     models.Stop
	result   models.FetchResult
	schedule Schedule

	fetching atomic.Bool

	// cycleMu guards the loop's busy window and the pending refresh so a
	// request is either rejected or served by the next cycle, never queued
	// behind a running one
	cycleMu sync.Mutex
	busy    bool
	refresh bool
}

// New creates a tracker for the given stop
func New(stop models.Stop) *Tracker {
	return &Tracker{stop: stop}
}

// Stop returns the monitored stop
func (t *Tracker) Stop() models.Stop {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stop
}

// Result returns a copy of the latest fetch result
func (t *Tracker) Result() models.FetchResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result.Clone()
}

// ApplySuccess replaces the departures and marks the data valid
func (t *Tracker) ApplySuccess(departures []models.Departure, at time.Time) {
	deps := make([]models.Departure, len(departures))
	copy(deps, departures)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = models.FetchResult{
		Departures:  deps,
		Valid:       true,
		LastUpdated: at,
	}
}

// ApplyFailure marks the data invalid. Previous departures and the last
// successful update time are kept.
func (t *Tracker) ApplyFailure(err *models.FetchError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result.Valid = false
	t.result.Err = err
}

// Schedule returns the current schedule state
func (t *Tracker) Schedule() Schedule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.schedule
}

// UpdateSchedule applies the interval and night flag and returns the
// previous night flag
func (t *Tracker) UpdateSchedule(interval time.Duration, night bool) (wasNight bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasNight = t.schedule.Night
	t.schedule.Interval = interval
	t.schedule.Night = night
	return wasNight
}

// MarkUpdated records the completion time of a fetch attempt
func (t *Tracker) MarkUpdated(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.schedule.LastUpdate = at
}

// BeginFetch claims the in-flight flag. It returns false when a fetch is
// already running.
func (t *Tracker) BeginFetch() bool {
	return t.fetching.CompareAndSwap(false, true)
}

// EndFetch releases the in-flight flag
func (t *Tracker) EndFetch() {
	t.fetching.Store(false)
}

// Fetching reports whether a fetch is in flight
func (t *Tracker) Fetching() bool {
	return t.fetching.Load()
}

// RequestRefresh asks for a fetch on the next loop tick. Requests made
// while a fetch cycle or a fetch is running are dropped.
func (t *Tracker) RequestRefresh() bool {
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()
	if t.busy || t.fetching.Load() {
		return false
	}
	t.refresh = true
	return true
}

// RefreshPending reports whether a manual refresh is waiting
func (t *Tracker) RefreshPending() bool {
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()
	return t.refresh
}

// ConsumeRefresh clears a pending manual refresh and reports whether one
// was set
func (t *Tracker) ConsumeRefresh() bool {
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()
	pending := t.refresh
	t.refresh = false
	return pending
}

// BeginCycle marks the loop busy from the moment it decides to fetch until
// the result has been applied. A refresh requested just before is served
// by this cycle and cleared.
func (t *Tracker) BeginCycle() {
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()
	t.busy = true
	t.refresh = false
}

// EndCycle marks the loop idle again
func (t *Tracker) EndCycle() {
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()
	t.busy = false
}
