package runtime

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/tui/annotation"
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/overlay"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

// EventResult classifies what processing one input event did
type EventResult uint8

const (
	// EventNone means the queue was empty
	EventNone EventResult = iota
	// EventConsumed means an overlay swallowed the event
	EventConsumed
	// EventDispatched means the event produced a message
	EventDispatched
	// EventIgnored means no handler wanted the event
	EventIgnored
)

// Core holds the synchronous heart of a runtime: application state,
// the render path with frame diffing, the input queue, and the
// overlay stack. The async Runtime wraps it; tests can also drive a
// Core directly.
type Core[S, M any] struct {
	app     App[S, M]
	state   S
	backend terminal.Backend
	fr      *frame.Frame
	prev    []terminal.Cell

	queue    *EventQueue
	overlays *overlay.Stack[M]
	th       *theme.Theme

	shouldQuit bool
	logger     zerolog.Logger
}

// NewCore creates a core around an initialized state. The caller is
// responsible for executing the app's init command.
func NewCore[S, M any](app App[S, M], state S, backend terminal.Backend, logger zerolog.Logger) (*Core[S, M], error) {
	w, h, err := backend.Size()
	if err != nil {
		return nil, fmt.Errorf("query backend size: %w", err)
	}
	return &Core[S, M]{
		app:      app,
		state:    state,
		backend:  backend,
		fr:       frame.New(w, h),
		queue:    NewEventQueue(),
		overlays: overlay.NewStack[M](),
		th:       theme.Default(),
		logger:   logger,
	}, nil
}

// State returns the application state
func (c *Core[S, M]) State() *S {
	return &c.state
}

// Backend returns the drawing backend
func (c *Core[S, M]) Backend() terminal.Backend {
	return c.backend
}

// Queue returns the input event queue
func (c *Core[S, M]) Queue() *EventQueue {
	return c.queue
}

// SetTheme replaces the render theme
func (c *Core[S, M]) SetTheme(th *theme.Theme) {
	c.th = th
}

// Theme returns the render theme
func (c *Core[S, M]) Theme() *theme.Theme {
	return c.th
}

// SetAnnotations attaches a registry collecting semantic regions
// during renders
func (c *Core[S, M]) SetAnnotations(reg *annotation.Registry) {
	c.fr.SetAnnotations(reg)
}

// PushOverlay adds a modal layer on top
func (c *Core[S, M]) PushOverlay(o overlay.Overlay[M]) {
	c.overlays.Push(o)
}

// PopOverlay removes the top modal layer
func (c *Core[S, M]) PopOverlay() bool {
	_, ok := c.overlays.Pop()
	return ok
}

// ClearOverlays removes every modal layer
func (c *Core[S, M]) ClearOverlays() {
	c.overlays.Clear()
}

// HasOverlay reports whether any modal layer is active
func (c *Core[S, M]) HasOverlay() bool {
	return c.overlays.IsActive()
}

// OverlayLen returns the number of active modal layers
func (c *Core[S, M]) OverlayLen() int {
	return c.overlays.Len()
}

// RequestQuit sets the quit flag
func (c *Core[S, M]) RequestQuit() {
	c.shouldQuit = true
}

// ShouldQuit reports whether shutdown was requested, either through a
// quit command or by the app's own QuitCheck
func (c *Core[S, M]) ShouldQuit() bool {
	if c.shouldQuit {
		return true
	}
	if qc, ok := any(c.app).(QuitCheck[S]); ok {
		return qc.ShouldQuit(&c.state)
	}
	return false
}

// Render draws the current state: view, then overlays bottom-up, then
// a diff against the previous frame so only changed cells reach the
// backend, finished with a single flush
func (c *Core[S, M]) Render() error {
	w, h, err := c.backend.Size()
	if err != nil {
		return fmt.Errorf("query backend size: %w", err)
	}
	if w != c.fr.Width() || h != c.fr.Height() {
		c.fr.Resize(w, h)
		c.prev = nil
		if err := c.backend.Clear(); err != nil {
			return fmt.Errorf("clear backend: %w", err)
		}
	}

	c.fr.Begin()
	c.app.View(&c.state, c.fr)
	c.overlays.Render(c.fr, c.th)

	cells := c.fr.Cells()
	var updates []terminal.CellUpdate
	full := c.prev == nil || len(c.prev) != len(cells)
	for i, cell := range cells {
		if !full && cell.VisualEqual(c.prev[i]) {
			continue
		}
		updates = append(updates, terminal.CellUpdate{X: i % w, Y: i / w, Cell: cell})
	}
	if len(updates) > 0 {
		if err := c.backend.Draw(updates); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}
	}

	if x, y, visible := c.fr.Cursor(); visible {
		if err := c.backend.SetCursor(x, y); err != nil {
			return fmt.Errorf("set cursor: %w", err)
		}
		if err := c.backend.ShowCursor(); err != nil {
			return fmt.Errorf("show cursor: %w", err)
		}
	} else if err := c.backend.HideCursor(); err != nil {
		return fmt.Errorf("hide cursor: %w", err)
	}

	if err := c.backend.Flush(); err != nil {
		return fmt.Errorf("flush frame: %w", err)
	}

	if c.prev == nil || len(c.prev) != len(cells) {
		c.prev = make([]terminal.Cell, len(cells))
	}
	copy(c.prev, cells)
	return nil
}

// ProcessEvent pops one event and routes it: overlays first, top
// down, then the app's event handler. The returned message is only
// meaningful for EventDispatched; the caller dispatches it.
func (c *Core[S, M]) ProcessEvent() (M, EventResult) {
	var zero M
	ev, ok := c.queue.Pop()
	if !ok {
		return zero, EventNone
	}

	if c.overlays.IsActive() {
		act, depth, handled := c.overlays.HandleEvent(ev)
		if handled {
			if act.IsDismiss() {
				c.overlays.RemoveAt(depth)
			}
			if m, has := act.TakeMessage(); has {
				return m, EventDispatched
			}
			return zero, EventConsumed
		}
	}

	if h, ok := any(c.app).(StateEventHandler[S, M]); ok {
		if m, want := h.HandleEventWithState(&c.state, ev); want {
			return m, EventDispatched
		}
		return zero, EventIgnored
	}
	if h, ok := any(c.app).(EventHandler[M]); ok {
		if m, want := h.HandleEvent(ev); want {
			return m, EventDispatched
		}
	}
	return zero, EventIgnored
}
