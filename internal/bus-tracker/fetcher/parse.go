package fetcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/jc3248-sketches/internal/bus-tracker/lines"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

// Parse extracts at most limit departures from a stop-monitoring body.
// Anything before the first '{' and after the first complete object is
// ignored. Visits without a readable
// expected departure time and visits already in the past are dropped.
func Parse(body []byte, now time.Time, resolver *lines.Resolver, limit int, log logger.Logger) ([]models.Departure, *models.FetchError) {
	start := bytes.IndexByte(body, '{')
	if start < 0 {
		return nil, &models.FetchError{Kind: models.NoJSONBody}
	}

	var doc models.StopMonitoringResponse
	if err := json.NewDecoder(bytes.NewReader(body[start:])).Decode(&doc); err != nil {
		return nil, &models.FetchError{Kind: models.JSONParseError, Detail: parseDetail(err), Err: err}
	}

	departures := make([]models.Departure, 0, limit)
	for _, visit := range doc.Visits() {
		if len(departures) >= limit {
			break
		}

		journey := visit.MonitoredVehicleJourney
		expected := journey.MonitoredCall.ExpectedDepartureTime
		if expected == "" {
			continue
		}

		at, err := models.ParseSiriTime(expected)
		if err != nil {
			log.Debug("Skipping visit with unreadable departure time", "value", expected, "error", err)
			continue
		}

		minutes := int(at.Sub(now) / time.Minute)
		if minutes < 0 {
			continue
		}

		departures = append(departures, models.NewDeparture(
			minutes,
			resolver.Resolve(journey.LineRef.Value),
			journey.Destination(),
			journey.MonitoredCall.VehicleAtStop,
		))
	}

	return departures, nil
}

// parseDetail reduces a decoder error to a short code for the status line
func parseDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return models.DetailIncompleteInput
	case errors.As(err, &typeErr):
		return models.DetailInvalidType
	default:
		return models.DetailInvalidInput
	}
}
