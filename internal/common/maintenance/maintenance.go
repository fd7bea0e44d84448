package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jc3248-sketches/internal/common/db"
	"github.com/jc3248-sketches/internal/common/logger"
)

// Execer runs a single statement
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupResult represents the result of a cleanup operation
type CleanupResult struct {
	Table          string        `json:"table"`
	Cutoff         time.Time     `json:"cutoff"`
	RecordsDeleted int64         `json:"records_deleted"`
	Duration       time.Duration `json:"duration"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
}

// Maintenance handles history retention
type Maintenance struct {
	exec   Execer
	logger logger.Logger
	now    func() time.Time
}

// New creates a new Maintenance instance
func New(exec Execer, logger logger.Logger) *Maintenance {
	return &Maintenance{
		exec:   exec,
		logger: logger,
		now:    time.Now,
	}
}

// CleanupOldObservations deletes observations older than retention
func (m *Maintenance) CleanupOldObservations(ctx context.Context, retention time.Duration) (CleanupResult, error) {
	start := time.Now()
	result := CleanupResult{
		Table:  db.ObservationsTable,
		Cutoff: m.now().Add(-retention).UTC(),
	}

	m.logger.Info("Starting cleanup of old departure observations",
		"retention", retention,
		"cutoff", result.Cutoff)

	query := `DELETE FROM ` + db.ObservationsTable + ` WHERE observed_at < $1`
	res, err := m.exec.ExecContext(ctx, query, result.Cutoff)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("deleting old observations: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		result.RecordsDeleted = n
	}
	result.Success = true

	m.logger.Info("Departure observation cleanup completed",
		"records_deleted", result.RecordsDeleted,
		"duration", result.Duration)

	return result, nil
}

// VacuumObservations reclaims space after large deletes
func (m *Maintenance) VacuumObservations(ctx context.Context) error {
	if _, err := m.exec.ExecContext(ctx, `VACUUM ANALYZE `+db.ObservationsTable); err != nil {
		return fmt.Errorf("vacuuming %s: %w", db.ObservationsTable, err)
	}
	return nil
}
