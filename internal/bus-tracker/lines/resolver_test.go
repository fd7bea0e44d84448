package lines

import (
	"testing"

	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

func TestResolve(t *testing.T) {
	r := NewResolver(DefaultMappings())

	cases := []struct {
		in   string
		want string
	}{
		{"STIF:Line::C01252:", "269"},
		{"STIF:Line::C02462:", "1517"},
		{"STIF:Line::C99999:", "C99999"},
		{"STIF:Line::AB:", "AB"},
		{"STIF:Line::C012", "C012"},
		{"STIF:Line::", Unknown},
		{"STIF:Line::::", Unknown},
		{"", Unknown},
		{"no separator here", Unknown},
	}

	for _, c := range cases {
		if got := r.Resolve(c.in); got != c.want {
			t.Errorf("Expected %q for %q, got %q", c.want, c.in, got)
		}
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := NewResolver([]models.LineMapping{
		{Code: "C01", Name: "first"},
		{Code: "C01252", Name: "second"},
	})

	if got := r.Resolve("STIF:Line::C01252:"); got != "first" {
		t.Errorf("Expected first matching entry, got %q", got)
	}
}

func TestResolveUsesLastSeparator(t *testing.T) {
	r := NewResolver(DefaultMappings())

	if got := r.Resolve("A::B::C01252:"); got != "269" {
		t.Errorf("Expected code after the last separator, got %q", got)
	}
}
