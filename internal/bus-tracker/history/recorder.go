// Package history stores every successful board refresh in Postgres.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jc3248-sketches/internal/common/db"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

const columnsPerRow = 7

// Execer runs a single statement
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Recorder inserts one observation row per departure
type Recorder struct {
	exec   Execer
	logger logger.Logger
}

// NewRecorder creates a Recorder
func NewRecorder(exec Execer, log logger.Logger) *Recorder {
	return &Recorder{exec: exec, logger: log}
}

// Publish records a valid fetch result. Failed fetches and empty boards
// are not recorded.
func (r *Recorder) Publish(ctx context.Context, stop models.Stop, res models.FetchResult) error {
	if !res.Valid || len(res.Departures) == 0 {
		return nil
	}

	query, args := insertStatement(stop, res.Departures, res.LastUpdated)
	result, err := r.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting departure observations: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil {
		r.logger.Debug("Recorded departure observations", "stop_id", stop.ID, "rows", n)
	}
	return nil
}

func insertStatement(stop models.Stop, departures []models.Departure, observedAt time.Time) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(db.ObservationsTable)
	b.WriteString(" (stop_id, stop_name, line_name, destination, minutes_left, at_stop, observed_at) VALUES ")

	args := make([]interface{}, 0, len(departures)*columnsPerRow)
	for i, d := range departures {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * columnsPerRow
		b.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, stop.ID, stop.Name, d.LineName, d.Destination, d.MinutesLeft, d.AtStop, observedAt.UTC())
	}

	return b.String(), args
}
