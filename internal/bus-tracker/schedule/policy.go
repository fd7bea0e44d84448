// Package schedule decides how often departures are refreshed and when the
// board goes to sleep for the night.
package schedule

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes after midnight
type ClockTime int

// At builds a ClockTime from an hour and minute
func At(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is a half-open [Start, End) range of the day
type Window struct {
	Start ClockTime
	End   ClockTime
}

// Contains reports whether c falls inside the window
func (w Window) Contains(c ClockTime) bool {
	return c >= w.Start && c < w.End
}

// Policy holds the refresh cadence and night hours
type Policy struct {
	RushInterval   time.Duration
	NormalInterval time.Duration
	RushWindows    []Window
	NightStartHour int
	NightEndHour   int
}

// Decision is the outcome of evaluating the policy at an instant
type Decision struct {
	Interval time.Duration
	Night    bool
}

// DefaultPolicy refreshes every 5 minutes during the morning and evening
// rush, every 10 minutes otherwise, and sleeps from 20:00 to 06:00.
func DefaultPolicy() Policy {
	return Policy{
		RushInterval:   5 * time.Minute,
		NormalInterval: 10 * time.Minute,
		RushWindows: []Window{
			{Start: At(6, 30), End: At(9, 0)},
			{Start: At(16, 0), End: At(18, 0)},
		},
		NightStartHour: 20,
		NightEndHour:   6,
	}
}

// IsNight reports whether hour is inside the night range. A start hour
// later than the end hour wraps around midnight.
func (p Policy) IsNight(hour int) bool {
	if p.NightStartHour == p.NightEndHour {
		return false
	}
	if p.NightStartHour > p.NightEndHour {
		return hour >= p.NightStartHour || hour < p.NightEndHour
	}
	return hour >= p.NightStartHour && hour < p.NightEndHour
}

// Interval returns the refresh interval for the given time of day
func (p Policy) Interval(hour, minute int) time.Duration {
	now := At(hour, minute)
	for _, w := range p.RushWindows {
		if w.Contains(now) {
			return p.RushInterval
		}
	}
	return p.NormalInterval
}

// Evaluate applies the policy to t using t's own location
func (p Policy) Evaluate(t time.Time) Decision {
	return Decision{
		Interval: p.Interval(t.Hour(), t.Minute()),
		Night:    p.IsNight(t.Hour()),
	}
}

// ServiceHours renders the daytime service range, e.g. "06:00-20:00"
func (p Policy) ServiceHours() string {
	return fmt.Sprintf("%s-%s", At(p.NightEndHour, 0), At(p.NightStartHour, 0))
}

// Validate checks hours, windows and intervals
func (p Policy) Validate() error {
	if p.RushInterval <= 0 || p.NormalInterval <= 0 {
		return fmt.Errorf("refresh intervals must be positive (rush=%s, normal=%s)", p.RushInterval, p.NormalInterval)
	}
	if p.NightStartHour < 0 || p.NightStartHour > 23 {
		return fmt.Errorf("night start hour %d out of range 0-23", p.NightStartHour)
	}
	if p.NightEndHour < 0 || p.NightEndHour > 23 {
		return fmt.Errorf("night end hour %d out of range 0-23", p.NightEndHour)
	}
	for i, w := range p.RushWindows {
		if w.Start < 0 || w.End > At(24, 0) || w.Start >= w.End {
			return fmt.Errorf("rush window %d [%s,%s) is invalid", i, w.Start, w.End)
		}
	}
	return nil
}
