package models

import (
	"fmt"
	"time"
)

// siriTimeLayout is the date-time prefix every SIRI timestamp starts with
const siriTimeLayout = "2006-01-02T15:04:05"

// ParseSiriTime reads the leading "YYYY-MM-DDTHH:MM:SS" of a SIRI timestamp
// as UTC. Fractional seconds and zone suffixes after the first 19 characters
// are ignored; the feed always publishes UTC instants.
func ParseSiriTime(s string) (time.Time, error) {
	if len(s) < len(siriTimeLayout) {
		return time.Time{}, fmt.Errorf("unable to parse time %q: too short", s)
	}

	t, err := time.ParseInLocation(siriTimeLayout, s[:len(siriTimeLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse time %q: %w", s, err)
	}
	return t, nil
}
