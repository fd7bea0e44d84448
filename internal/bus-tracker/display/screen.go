// Package display owns the on-screen departure board. Every change to the
// board goes through the screen lock.
package display

import (
	"sync"

	"github.com/jc3248-sketches/internal/bus-tracker/render"
)

// Screen holds the board currently shown to the user
type Screen struct {
	mu      sync.Mutex
	view    render.BoardView
	version uint64
}

// NewScreen creates a screen showing the initial board
func NewScreen(initial render.BoardView) *Screen {
	return &Screen{view: initial.Clone()}
}

// Update runs fn with exclusive access to the board. The lock is released
// when fn returns or panics.
func (s *Screen) Update(fn func(v *render.BoardView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.view)
	s.version++
}

// Render replaces the whole board
func (s *Screen) Render(v render.BoardView) {
	s.Update(func(cur *render.BoardView) {
		*cur = v.Clone()
	})
}

// Snapshot returns a copy of the board
func (s *Screen) Snapshot() render.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

// Version increases on every update
func (s *Screen) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
