// Package snapshot mirrors the latest departures of each stop into Redis so
// other displays can read the board without calling the API.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// ErrNoSnapshot is returned by Latest when nothing was published for a stop
var ErrNoSnapshot = errors.New("no snapshot for stop")

// Snapshot is the stored board of one stop
type Snapshot struct {
	Departures []models.Departure
	UpdatedAt  time.Time
}

// Publisher writes snapshots as a Redis list per stop
type Publisher struct {
	pool   *redis.Pool
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

// NewPublisher creates a Publisher. A zero ttl keeps keys forever.
func NewPublisher(pool *redis.Pool, prefix string, ttl time.Duration, log logger.Logger) *Publisher {
	if prefix == "" {
		prefix = "bustracker:departures"
	}
	return &Publisher{pool: pool, prefix: prefix, ttl: ttl, logger: log}
}

// Key is the list holding the departures of stopID
func (p *Publisher) Key(stopID string) string {
	return p.prefix + ":" + stopID
}

func (p *Publisher) updatedKey(stopID string) string {
	return p.Key(stopID) + ":updated"
}

// Publish replaces the stored departures of stop atomically. Invalid
// results leave the previous snapshot in place.
func (p *Publisher) Publish(ctx context.Context, stop models.Stop, res models.FetchResult) error {
	if !res.Valid {
		return nil
	}

	encoded := make([][]byte, 0, len(res.Departures))
	for _, d := range res.Departures {
		b, err := json.Marshal(d)
		if err != nil {
			return errors.Wrap(err, "cannot encode departure")
		}
		encoded = append(encoded, b)
	}

	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot get Redis connection")
	}
	defer conn.Close()

	key := p.Key(stop.ID)
	updated := p.updatedKey(stop.ID)

	if err := conn.Send("MULTI"); err != nil {
		return errors.Wrap(err, "cannot start Redis transaction")
	}
	_ = conn.Send("DEL", key)
	if len(encoded) > 0 {
		_ = conn.Send("RPUSH", redis.Args{}.Add(key).AddFlat(encoded)...)
	}
	_ = conn.Send("SET", updated, res.LastUpdated.UTC().Format(time.RFC3339))
	if p.ttl > 0 {
		secs := int64(p.ttl / time.Second)
		_ = conn.Send("EXPIRE", key, secs)
		_ = conn.Send("EXPIRE", updated, secs)
	}

	if _, err := conn.Do("EXEC"); err != nil {
		return errors.Wrapf(err, "cannot publish snapshot for stop %s", stop.ID)
	}

	p.logger.Debug("Published departure snapshot", "key", key, "departures", len(encoded))
	return nil
}

// Latest reads back the stored snapshot of stopID
func (p *Publisher) Latest(ctx context.Context, stopID string) (Snapshot, error) {
	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "cannot get Redis connection")
	}
	defer conn.Close()

	ts, err := redis.String(conn.Do("GET", p.updatedKey(stopID)))
	if err == redis.ErrNil {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "cannot read snapshot time for stop %s", stopID)
	}

	updatedAt, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "cannot parse snapshot time %q", ts)
	}

	items, err := redis.ByteSlices(conn.Do("LRANGE", p.Key(stopID), 0, -1))
	if err != nil && err != redis.ErrNil {
		return Snapshot{}, errors.Wrapf(err, "cannot read snapshot for stop %s", stopID)
	}

	snap := Snapshot{UpdatedAt: updatedAt, Departures: make([]models.Departure, 0, len(items))}
	for _, item := range items {
		var d models.Departure
		if err := json.Unmarshal(item, &d); err != nil {
			return Snapshot{}, errors.Wrap(err, "cannot decode departure")
		}
		snap.Departures = append(snap.Departures, d)
	}
	return snap, nil
}
