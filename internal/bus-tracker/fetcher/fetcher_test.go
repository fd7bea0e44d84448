package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jc3248-sketches/internal/bus-tracker/lines"
	"github.com/jc3248-sketches/internal/bus-tracker/state"
	"github.com/jc3248-sketches/internal/common/logger"
	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

var fixedNow = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

type visit struct {
	line   string
	dest   string
	at     string
	atStop bool
}

func stopMonitoringBody(visits ...visit) string {
	parts := make([]string, 0, len(visits))
	for _, v := range visits {
		parts = append(parts, fmt.Sprintf(`{
			"RecordedAtTime": "2024-05-01T09:59:30.000Z",
			"MonitoredVehicleJourney": {
				"LineRef": {"value": %q},
				"OperatorRef": {"value": "SAE-BUS"},
				"DestinationName": [{"value": %q, "lang": "fr"}],
				"MonitoredCall": {
					"StopPointName": [{"value": "Marechal Foch"}],
					"VehicleAtStop": %t,
					"ExpectedDepartureTime": %q,
					"AimedDepartureTime": %q
				}
			}
		}`, v.line, v.dest, v.atStop, v.at, v.at))
	}
	return `{"Siri": {"ServiceDelivery": {"ResponseTimestamp": "2024-05-01T10:00:00Z",
		"StopMonitoringDelivery": [{"Version": "2.0", "MonitoredStopVisit": [` + strings.Join(parts, ",") + `]}]}}}`
}

func minutesFromNow(m int) string {
	return fixedNow.Add(time.Duration(m) * time.Minute).Format("2006-01-02T15:04:05.000Z")
}

func newTestFetcher(baseURL string) *Fetcher {
	f := New(Config{BaseURL: baseURL, APIKey: "secret"}, lines.NewResolver(lines.DefaultMappings()), logger.Nop())
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery, gotKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, stopMonitoringBody(
			visit{"STIF:Line::C01252:", "Gare de Versailles", minutesFromNow(0), true},
			visit{"STIF:Line::C02462:", "Velizy 2", minutesFromNow(7), false},
			visit{"STIF:Line::C99999:", "Nowhere", minutesFromNow(75), false},
		))
	}))
	defer srv.Close()

	st := state.New(models.Stop{ID: "413248", Name: "Marechal Foch"})
	f := newTestFetcher(srv.URL)

	if !f.Fetch(context.Background(), st) {
		t.Fatal("Expected fetch to run")
	}

	if gotQuery != "MonitoringRef=STIF%3AStopPoint%3AQ%3A413248%3A" {
		t.Errorf("Expected encoded monitoring ref, got %s", gotQuery)
	}
	if gotKey != "secret" {
		t.Errorf("Expected apikey header, got %q", gotKey)
	}
	if gotAccept != "application/json" {
		t.Errorf("Expected Accept application/json, got %q", gotAccept)
	}

	res := st.Result()
	if !res.Valid || res.Err != nil {
		t.Fatalf("Expected valid result, got %+v", res)
	}
	if !res.LastUpdated.Equal(fixedNow) {
		t.Errorf("Expected last update %v, got %v", fixedNow, res.LastUpdated)
	}

	want := []models.Departure{
		{MinutesLeft: 0, LineName: "269", Destination: "Gare de Versailles", AtStop: true},
		{MinutesLeft: 7, LineName: "1517", Destination: "Velizy 2"},
		{MinutesLeft: 75, LineName: "C99999", Destination: "Nowhere"},
	}
	if len(res.Departures) != len(want) {
		t.Fatalf("Expected %d departures, got %d", len(want), len(res.Departures))
	}
	for i := range want {
		if res.Departures[i] != want[i] {
			t.Errorf("Expected departure %d to be %+v, got %+v", i, want[i], res.Departures[i])
		}
	}
	if st.Fetching() {
		t.Error("Expected in-flight flag to be released")
	}
}

func TestFetchFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "should report HTTP status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			},
			want: "HTTP 401",
		},
		{
			name: "should report a body without JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "maintenance in progress")
			},
			want: "No JSON",
		},
		{
			name: "should report truncated JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"Siri": {"ServiceDelivery": {`)
			},
			want: "JSON: IncompleteInput",
		},
		{
			name: "should report malformed JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"Siri": nope}`)
			},
			want: "JSON: InvalidInput",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(c.handler)
			defer srv.Close()

			st := state.New(models.Stop{ID: "413248"})
			previous := []models.Departure{{MinutesLeft: 4, LineName: "269", Destination: "Gare"}}
			st.ApplySuccess(previous, fixedNow.Add(-time.Minute))

			f := newTestFetcher(srv.URL)
			if !f.Fetch(context.Background(), st) {
				t.Fatal("Expected fetch to run")
			}

			res := st.Result()
			if res.Valid {
				t.Error("Expected invalid result")
			}
			if res.ErrorText() != c.want {
				t.Errorf("Expected %q, got %q", c.want, res.ErrorText())
			}
			if len(res.Departures) != 1 || res.Departures[0] != previous[0] {
				t.Errorf("Expected previous departures to be kept, got %+v", res.Departures)
			}
			if st.Fetching() {
				t.Error("Expected in-flight flag to be released")
			}
		})
	}

	t.Run("should report connection errors", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		st := state.New(models.Stop{ID: "413248"})
		f := newTestFetcher(url)
		f.Fetch(context.Background(), st)

		if got := st.Result().ErrorText(); got != "Connection failed" {
			t.Errorf("Expected connection failure, got %q", got)
		}
	})
}

func TestFetchNoop(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, stopMonitoringBody())
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)

	t.Run("should skip an unconfigured stop", func(t *testing.T) {
		st := state.New(models.Stop{})
		if f.Fetch(context.Background(), st) {
			t.Error("Expected fetch to be skipped")
		}
		if res := st.Result(); res.Valid || res.Err != nil {
			t.Errorf("Expected state untouched, got %+v", res)
		}
	})

	t.Run("should skip while another fetch is in flight", func(t *testing.T) {
		st := state.New(models.Stop{ID: "413248"})
		st.BeginFetch()
		if f.Fetch(context.Background(), st) {
			t.Error("Expected fetch to be skipped")
		}
		if !st.Fetching() {
			t.Error("Expected the other fetch to keep its flag")
		}
		st.EndFetch()
	})

	if calls != 0 {
		t.Errorf("Expected no requests, got %d", calls)
	}
}
