package overlay

import (
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

// Stack holds the active overlays, bottom first. The stack itself
// never mutates during event handling; the caller applies dismissals
// after inspecting the returned action.
type Stack[M any] struct {
	layers []Overlay[M]
}

// NewStack creates an empty overlay stack
func NewStack[M any]() *Stack[M] {
	return &Stack[M]{}
}

// Push adds an overlay on top
func (s *Stack[M]) Push(o Overlay[M]) {
	s.layers = append(s.layers, o)
}

// Pop removes and returns the top overlay
func (s *Stack[M]) Pop() (Overlay[M], bool) {
	if len(s.layers) == 0 {
		return nil, false
	}
	top := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	return top, true
}

// Top returns the top overlay without removing it
func (s *Stack[M]) Top() (Overlay[M], bool) {
	if len(s.layers) == 0 {
		return nil, false
	}
	return s.layers[len(s.layers)-1], true
}

// Clear removes every overlay
func (s *Stack[M]) Clear() {
	s.layers = s.layers[:0]
}

// Len returns the number of active overlays
func (s *Stack[M]) Len() int {
	return len(s.layers)
}

// IsActive reports whether any overlay is shown
func (s *Stack[M]) IsActive() bool {
	return len(s.layers) > 0
}

// HandleEvent offers the event to overlays top-down. The first
// non-propagate action wins and is returned along with the depth of
// the overlay that produced it (0 = top). Returns ok=false when every
// overlay propagated or the stack is empty; the event then belongs to
// the application.
func (s *Stack[M]) HandleEvent(ev terminal.Event) (Action[M], int, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		act := s.layers[i].HandleEvent(ev)
		if !act.IsPropagate() {
			return act, len(s.layers) - 1 - i, true
		}
	}
	return Propagate[M](), 0, false
}

// RemoveAt removes the overlay at the given depth from the top
func (s *Stack[M]) RemoveAt(depth int) {
	idx := len(s.layers) - 1 - depth
	if idx < 0 || idx >= len(s.layers) {
		return
	}
	s.layers = append(s.layers[:idx], s.layers[idx+1:]...)
}

// Render draws overlays bottom-up so the top overlay paints last
func (s *Stack[M]) Render(f *frame.Frame, th *theme.Theme) {
	for _, o := range s.layers {
		o.View(f, f.Bounds(), th)
	}
}
