// Package overlay implements modal layers stacked above the base
// view. The top overlay sees input first; an overlay that consumes,
// converts, or dismisses stops propagation, otherwise the event falls
// through to the layer below and finally to the application.
package overlay

import (
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

// actionKind enumerates the handling outcomes
type actionKind uint8

const (
	actPropagate actionKind = iota
	actConsumed
	actMessage
	actDismiss
	actDismissMessage
)

// Action is an overlay's verdict on an input event
type Action[M any] struct {
	kind actionKind
	msg  M
}

// Propagate passes the event to the layer below
func Propagate[M any]() Action[M] {
	return Action[M]{kind: actPropagate}
}

// Consumed swallows the event with no further effect
func Consumed[M any]() Action[M] {
	return Action[M]{kind: actConsumed}
}

// WithMessage consumes the event and emits a message to the app
func WithMessage[M any](m M) Action[M] {
	return Action[M]{kind: actMessage, msg: m}
}

// Dismiss consumes the event and removes the overlay
func Dismiss[M any]() Action[M] {
	return Action[M]{kind: actDismiss}
}

// DismissWithMessage removes the overlay and emits a message
func DismissWithMessage[M any](m M) Action[M] {
	return Action[M]{kind: actDismissMessage, msg: m}
}

// IsPropagate reports whether the event should continue downward
func (a Action[M]) IsPropagate() bool {
	return a.kind == actPropagate
}

// IsDismiss reports whether the overlay asked to be removed
func (a Action[M]) IsDismiss() bool {
	return a.kind == actDismiss || a.kind == actDismissMessage
}

// TakeMessage returns the attached message, if any
func (a Action[M]) TakeMessage() (M, bool) {
	if a.kind == actMessage || a.kind == actDismissMessage {
		return a.msg, true
	}
	var zero M
	return zero, false
}

// Overlay is a modal layer. HandleEvent runs before the application
// sees the event; View draws after the base view, within the given
// area.
type Overlay[M any] interface {
	HandleEvent(ev terminal.Event) Action[M]
	View(f *frame.Frame, area frame.Rect, th *theme.Theme)
}
