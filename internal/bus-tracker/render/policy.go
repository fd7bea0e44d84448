// Package render decides how departures and the board status look,
// independently of where the board is drawn.
package render

import "fmt"

// Board palette
const (
	ColorBackground = "#1a1a2e"
	ColorCard       = "#16213e"
	ColorText       = "#ffffff"
	ColorAccent     = "#00ff88"
	ColorImminent   = "#f72585"
	ColorSoon       = "#fca311"
	ColorNormal     = "#4cc9f0"
	ColorDimmed     = "#666666"
)

// Bucket groups departures by urgency
type Bucket int

const (
	BucketImminentAtStop Bucket = iota
	BucketImminent
	BucketSoon
	BucketNormal
	BucketNormalLong
)

func (b Bucket) String() string {
	switch b {
	case BucketImminentAtStop:
		return "imminent-at-stop"
	case BucketImminent:
		return "imminent"
	case BucketSoon:
		return "soon"
	case BucketNormal:
		return "normal"
	case BucketNormalLong:
		return "normal-long"
	default:
		return "unknown"
	}
}

// MarshalText lets buckets appear by name in JSON
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Color is the fixed color of the bucket
func (b Bucket) Color() string {
	switch b {
	case BucketImminentAtStop, BucketImminent:
		return ColorImminent
	case BucketSoon:
		return ColorSoon
	default:
		return ColorNormal
	}
}

// Cell is the rendered time column of one departure
type Cell struct {
	Bucket Bucket `json:"bucket"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// Classify maps a departure to its bucket and label. Rules are checked in
// order and the first match wins.
func Classify(minutesLeft int, atStop bool) Cell {
	var b Bucket
	var label string

	switch {
	case atStop:
		b, label = BucketImminentAtStop, "AT STOP"
	case minutesLeft == 0:
		b, label = BucketImminent, "Due"
	case minutesLeft < 3:
		b, label = BucketImminent, fmt.Sprintf("%d min", minutesLeft)
	case minutesLeft < 10:
		b, label = BucketSoon, fmt.Sprintf("%d min", minutesLeft)
	case minutesLeft < 60:
		b, label = BucketNormal, fmt.Sprintf("%d min", minutesLeft)
	default:
		b, label = BucketNormalLong, fmt.Sprintf("%dh%02d", minutesLeft/60, minutesLeft%60)
	}

	return Cell{Bucket: b, Label: label, Color: b.Color()}
}
