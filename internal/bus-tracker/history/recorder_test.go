package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

type fakeExec struct {
	query string
	args  []interface{}
	calls int
	err   error
}

type rowsAffected int64

func (r rowsAffected) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r rowsAffected) RowsAffected() (int64, error) { return int64(r), nil }

func (f *fakeExec) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls++
	f.query = query
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return rowsAffected(len(args) / columnsPerRow), nil
}

func TestPublish(t *testing.T) {
	stop := models.Stop{ID: "413248", Name: "Marechal Foch"}
	observed := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should insert one row per departure", func(t *testing.T) {
		exec := &fakeExec{}
		r := NewRecorder(exec, logger.Nop())

		res := models.FetchResult{
			Valid:       true,
			LastUpdated: observed,
			Departures: []models.Departure{
				{MinutesLeft: 0, LineName: "269", Destination: "Gare", AtStop: true},
				{MinutesLeft: 12, LineName: "1517", Destination: "Velizy 2"},
			},
		}
		if err := r.Publish(context.Background(), stop, res); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if !strings.HasPrefix(exec.query, "INSERT INTO departure_observations") {
			t.Errorf("Unexpected query %s", exec.query)
		}
		if !strings.Contains(exec.query, "($8, $9, $10, $11, $12, $13, $14)") {
			t.Errorf("Expected placeholders for the second row, got %s", exec.query)
		}
		if len(exec.args) != 14 {
			t.Fatalf("Expected 14 args, got %d", len(exec.args))
		}
		if exec.args[10] != "Velizy 2" || exec.args[12] != false {
			t.Errorf("Unexpected second row args %v", exec.args[7:])
		}
	})

	t.Run("should skip invalid and empty results", func(t *testing.T) {
		exec := &fakeExec{}
		r := NewRecorder(exec, logger.Nop())

		_ = r.Publish(context.Background(), stop, models.FetchResult{Valid: false, Departures: []models.Departure{{}}})
		_ = r.Publish(context.Background(), stop, models.FetchResult{Valid: true})

		if exec.calls != 0 {
			t.Errorf("Expected no inserts, got %d", exec.calls)
		}
	})

	t.Run("should wrap insert errors", func(t *testing.T) {
		exec := &fakeExec{err: errors.New("connection reset")}
		r := NewRecorder(exec, logger.Nop())

		err := r.Publish(context.Background(), stop, models.FetchResult{Valid: true, Departures: []models.Departure{{LineName: "269"}}})
		if err == nil || !strings.Contains(err.Error(), "connection reset") {
			t.Errorf("Expected wrapped error, got %v", err)
		}
	})
}
