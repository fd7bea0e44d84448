package models

import "time"

const (
	// MaxLineNameLen is the longest line name kept on a departure
	MaxLineNameLen = 9
	// MaxDestinationLen is the longest destination kept on a departure
	MaxDestinationLen = 39
	// DefaultMaxDepartures caps the departures kept per fetch
	DefaultMaxDepartures = 5
)

// Stop is a monitored stop point. A stop with an empty ID is an unused slot.
type Stop struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Configured reports whether the stop can be polled
func (s Stop) Configured() bool {
	return s.ID != ""
}

// LineMapping maps an operator line code prefix to the public line name
type LineMapping struct {
	Code string `json:"code" yaml:"code" toml:"code"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Departure is one upcoming vehicle at the monitored stop
type Departure struct {
	MinutesLeft int    `json:"minutes_left"`
	LineName    string `json:"line_name"`
	Destination string `json:"destination"`
	AtStop      bool   `json:"at_stop"`
}

// NewDeparture builds a departure with line and destination clipped to
// their display limits
func NewDeparture(minutes int, line, destination string, atStop bool) Departure {
	return Departure{
		MinutesLeft: minutes,
		LineName:    Truncate(line, MaxLineNameLen),
		Destination: Truncate(destination, MaxDestinationLen),
		AtStop:      atStop,
	}
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FetchResult is the outcome of the most recent fetch attempts.
// Departures and LastUpdated always hold the last successful data.
type FetchResult struct {
	Departures  []Departure `json:"departures"`
	Valid       bool        `json:"valid"`
	LastUpdated time.Time   `json:"last_updated"`
	Err         *FetchError `json:"-"`
}

// Clone returns a copy that shares no memory with r
func (r FetchResult) Clone() FetchResult {
	out := r
	if r.Departures != nil {
		out.Departures = make([]Departure, len(r.Departures))
		copy(out.Departures, r.Departures)
	}
	if r.Err != nil {
		e := *r.Err
		out.Err = &e
	}
	return out
}

// ErrorText returns the short error descriptor, or an empty string
func (r FetchResult) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Descriptor()
}
