package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortytw2/leaktest"

	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/internal/common/repository"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

func TestPublish(t *testing.T) {
	defer leaktest.Check(t)()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	pool := repository.NewRedisPool(repository.RedisPoolAddr(s.Addr()))
	defer pool.Close()

	p := NewPublisher(pool, "test:departures", 10*time.Minute, logger.Nop())
	stop := models.Stop{ID: "413248", Name: "Marechal Foch"}
	updated := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("should store departures in order with an expiry", func(t *testing.T) {
		res := models.FetchResult{
			Valid:       true,
			LastUpdated: updated,
			Departures: []models.Departure{
				{MinutesLeft: 1, LineName: "269", Destination: "Gare"},
				{MinutesLeft: 8, LineName: "1517", Destination: "Velizy 2"},
			},
		}
		if err := p.Publish(ctx, stop, res); err != nil {
			t.Fatalf("got `%v`, want no error", err)
		}

		items, err := s.List("test:departures:413248")
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Fatalf("got `%d`, want `%d` items", len(items), 2)
		}
		if ttl := s.TTL("test:departures:413248"); ttl != 10*time.Minute {
			t.Errorf("got `%v`, want `%v` for TTL", ttl, 10*time.Minute)
		}

		snap, err := p.Latest(ctx, stop.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !snap.UpdatedAt.Equal(updated) {
			t.Errorf("got `%v`, want `%v` for UpdatedAt", snap.UpdatedAt, updated)
		}
		if snap.Departures[1].LineName != "1517" {
			t.Errorf("got `%s`, want `%s` for second line", snap.Departures[1].LineName, "1517")
		}
	})

	t.Run("should replace the previous snapshot", func(t *testing.T) {
		res := models.FetchResult{Valid: true, LastUpdated: updated.Add(5 * time.Minute)}
		if err := p.Publish(ctx, stop, res); err != nil {
			t.Fatal(err)
		}

		snap, err := p.Latest(ctx, stop.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.Departures) != 0 {
			t.Errorf("got `%d`, want no departures", len(snap.Departures))
		}
	})

	t.Run("should keep the snapshot when the fetch failed", func(t *testing.T) {
		res := models.FetchResult{Valid: false, Err: &models.FetchError{Kind: models.NoJSONBody}}
		if err := p.Publish(ctx, stop, res); err != nil {
			t.Fatal(err)
		}
		if !s.Exists("test:departures:413248:updated") {
			t.Error("expected previous snapshot to be kept")
		}
	})

	t.Run("should report a missing snapshot", func(t *testing.T) {
		if _, err := p.Latest(ctx, "unknown"); err != ErrNoSnapshot {
			t.Errorf("got `%v`, want `%v`", err, ErrNoSnapshot)
		}
	})
}
