package db

import (
	"context"
	"fmt"
)

// ObservationsTable stores one row per departure seen on the board
const ObservationsTable = "departure_observations"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + ObservationsTable + ` (
		id           BIGSERIAL PRIMARY KEY,
		stop_id      TEXT        NOT NULL,
		stop_name    TEXT        NOT NULL,
		line_name    TEXT        NOT NULL,
		destination  TEXT        NOT NULL,
		minutes_left INTEGER     NOT NULL,
		at_stop      BOOLEAN     NOT NULL DEFAULT FALSE,
		observed_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_` + ObservationsTable + `_observed_at
		ON ` + ObservationsTable + ` (observed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_` + ObservationsTable + `_stop_line
		ON ` + ObservationsTable + ` (stop_id, line_name, observed_at)`,
}

// EnsureSchema creates the history tables when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating history schema: %w", err)
		}
	}
	db.logger.Info("History schema ready", "table", ObservationsTable)
	return nil
}
