package models

import (
	"testing"
	"time"
)

func TestParseSiriTime(t *testing.T) {
	t.Run("should read the first 19 characters as UTC", func(t *testing.T) {
		cases := []string{
			"2024-05-01T10:05:00.000Z",
			"2024-05-01T10:05:00Z",
			"2024-05-01T10:05:00",
		}
		want := time.Date(2024, time.May, 1, 10, 5, 0, 0, time.UTC)

		for _, in := range cases {
			got, err := ParseSiriTime(in)
			if err != nil {
				t.Fatalf("Expected no error for %q, got %v", in, err)
			}
			if !got.Equal(want) {
				t.Errorf("Expected %v for %q, got %v", want, in, got)
			}
		}
	})

	t.Run("should reject unscannable timestamps", func(t *testing.T) {
		for _, in := range []string{"", "2024-05-01", "not-a-timestampXXXXXX", "2024-13-01T10:05:00Z"} {
			if _, err := ParseSiriTime(in); err == nil {
				t.Errorf("Expected error for %q", in)
			}
		}
	})
}

func TestNewDeparture(t *testing.T) {
	d := NewDeparture(4, "ABCDEFGHIJKL", "Gare de Versailles Chantiers via Porchefontaine et Montreuil", false)

	if d.LineName != "ABCDEFGHI" {
		t.Errorf("Expected line name clipped to 9 characters, got %q", d.LineName)
	}
	if len([]rune(d.Destination)) != MaxDestinationLen {
		t.Errorf("Expected destination clipped to %d characters, got %d", MaxDestinationLen, len([]rune(d.Destination)))
	}
	if got := Truncate("Hôtel de Ville", 5); got != "Hôtel" {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
}

func TestFetchErrorDescriptor(t *testing.T) {
	cases := []struct {
		err  FetchError
		want string
	}{
		{FetchError{Kind: ConnectionError}, "Connection failed"},
		{FetchError{Kind: HTTPStatusError, StatusCode: 503}, "HTTP 503"},
		{FetchError{Kind: NoJSONBody}, "No JSON"},
		{FetchError{Kind: JSONParseError, Detail: DetailIncompleteInput}, "JSON: IncompleteInput"},
	}

	for _, c := range cases {
		if got := c.err.Descriptor(); got != c.want {
			t.Errorf("Expected %q, got %q", c.want, got)
		}
	}
}

func TestFetchResultClone(t *testing.T) {
	orig := FetchResult{
		Departures: []Departure{{MinutesLeft: 3, LineName: "269"}},
		Valid:      true,
		Err:        &FetchError{Kind: NoJSONBody},
	}

	clone := orig.Clone()
	clone.Departures[0].MinutesLeft = 99
	clone.Err.Kind = ConnectionError

	if orig.Departures[0].MinutesLeft != 3 {
		t.Error("Expected clone departures to be independent")
	}
	if orig.Err.Kind != NoJSONBody {
		t.Error("Expected clone error to be independent")
	}
}
