package render

import (
	"fmt"
	"time"

	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

const (
	StatusStarting     = "Starting..."
	StatusLoading      = "Loading..."
	StatusNoDepartures = "No departures scheduled"
	updatedPrefix      = "Updated: "
	updatedUnknown     = "--:--"
)

// Row is one departure line on the board
type Row struct {
	Time        Cell   `json:"time"`
	Line        string `json:"line"`
	Destination string `json:"destination"`
}

// Text is the line and destination column, e.g. "[269] Gare"
func (r Row) Text() string {
	return fmt.Sprintf("[%s] %s", r.Line, r.Destination)
}

// BoardView is everything needed to draw the departure board
type BoardView struct {
	Title        string `json:"title"`
	StopName     string `json:"stop_name"`
	Status       string `json:"status"`
	UpdatedLabel string `json:"updated_label"`
	Rows         []Row  `json:"rows"`
	Night        bool   `json:"night"`
	NightMessage string `json:"night_message,omitempty"`
	Loading      bool   `json:"loading"`
	Failed       bool   `json:"failed"`
}

// Clone returns a deep copy of v
func (v BoardView) Clone() BoardView {
	out := v
	if v.Rows != nil {
		out.Rows = make([]Row, len(v.Rows))
		copy(out.Rows, v.Rows)
	}
	return out
}

// BoardInput collects the state a board is built from
type BoardInput struct {
	Title        string
	Stop         models.Stop
	Result       models.FetchResult
	Night        bool
	ServiceHours string
	Fetching     bool
	Location     *time.Location
}

// BuildBoard derives the board from the current state. Rows are only shown
// for valid data outside the night period.
func BuildBoard(in BoardInput) BoardView {
	v := BoardView{
		Title:        in.Title,
		StopName:     in.Stop.Name,
		UpdatedLabel: UpdatedLabel(in.Result.LastUpdated, in.Location),
	}

	switch {
	case in.Night:
		v.Night = true
		v.NightMessage = fmt.Sprintf("Service %s", in.ServiceHours)
		v.Status = fmt.Sprintf("Night mode (service %s)", in.ServiceHours)
	case in.Fetching:
		v.Loading = true
		v.Status = StatusLoading
	case !in.Result.Valid && in.Result.Err != nil:
		v.Failed = true
		v.Status = in.Result.Err.Descriptor()
	case !in.Result.Valid:
		v.Status = StatusStarting
	case len(in.Result.Departures) == 0:
		v.Status = StatusNoDepartures
	default:
		n := len(in.Result.Departures)
		v.Status = fmt.Sprintf("%d departure%s", n, plural(n))
	}

	if in.Result.Valid && !in.Night {
		v.Rows = make([]Row, 0, len(in.Result.Departures))
		for _, d := range in.Result.Departures {
			v.Rows = append(v.Rows, Row{
				Time:        Classify(d.MinutesLeft, d.AtStop),
				Line:        d.LineName,
				Destination: d.Destination,
			})
		}
	}

	return v
}

// UpdatedLabel formats the last successful update as "Updated: HH:MM"
func UpdatedLabel(at time.Time, loc *time.Location) string {
	if at.IsZero() {
		return updatedPrefix + updatedUnknown
	}
	if loc != nil {
		at = at.In(loc)
	}
	return updatedPrefix + at.Format("15:04")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
