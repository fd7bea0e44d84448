// Package lines turns operator line references into the short names
// printed on the board.
package lines

import (
	"strings"

	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

const (
	// Unknown is shown when a line reference cannot be read
	Unknown = "?"

	separator   = "::"
	fallbackLen = 6
)

// DefaultMappings are the lines serving the default stop
func DefaultMappings() []models.LineMapping {
	return []models.LineMapping{
		{Code: "C01252", Name: "269"},
		{Code: "C02462", Name: "1517"},
	}
}

// Resolver maps line references against an ordered table
type Resolver struct {
	mappings []models.LineMapping
}

// NewResolver creates a resolver over a copy of mappings
func NewResolver(mappings []models.LineMapping) *Resolver {
	m := make([]models.LineMapping, len(mappings))
	copy(m, mappings)
	return &Resolver{mappings: m}
}

// Resolve returns the display name for a reference such as
// "STIF:Line::C01252:". The first table entry whose code prefixes the
// extracted code wins; unknown codes fall back to their first six
// characters. The result is never empty.
func (r *Resolver) Resolve(lineRef string) string {
	idx := strings.LastIndex(lineRef, separator)
	if idx < 0 {
		return Unknown
	}
	code := lineRef[idx+len(separator):]

	for _, m := range r.mappings {
		if m.Code != "" && strings.HasPrefix(code, m.Code) {
			return m.Name
		}
	}

	short := models.Truncate(code, fallbackLen)
	if i := strings.IndexByte(short, ':'); i >= 0 {
		short = short[:i]
	}
	if short == "" {
		return Unknown
	}
	return short
}
