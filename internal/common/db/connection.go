package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jc3248-sketches/internal/common/logger"
)

const connectTimeout = 10 * time.Second

// DB wraps the Postgres connection pool used for departure history
type DB struct {
	conn   *sql.DB
	logger logger.Logger
}

// New opens and pings a Postgres connection
func New(connStr string, logger logger.Logger) (*DB, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("Database connection established")

	return &DB{
		conn:   conn,
		logger: logger,
	}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying pool
func (db *DB) DB() *sql.DB {
	return db.conn
}

// ExecContext runs a statement on the pool
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// Logger returns the logger instance
func (db *DB) Logger() logger.Logger {
	return db.logger
}
