// Package runtime drives Elm-style terminal applications: immutable
// state advanced by messages through a pure update function, a view
// rendered into a frame, commands for side effects, subscriptions for
// long-running message streams, and an overlay stack for modal
// layers.
package runtime

import (
	"time"

	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/terminal"
)

// App is the application contract. S is the state type, M the
// message type. Update receives the state by pointer for in-place
// mutation but must stay deterministic: same state and message, same
// result.
type App[S, M any] interface {
	// Init produces the initial state and a startup command
	Init() (S, Command[M])

	// Update applies a message to the state and returns a follow-up
	// command, possibly None
	Update(state *S, msg M) Command[M]

	// View renders the state into the frame
	View(state *S, f *frame.Frame)
}

// Optional application capabilities, discovered by type assertion on
// the App value. An app implements only what it needs.

// EventHandler converts terminal events to messages without looking
// at state
type EventHandler[M any] interface {
	// HandleEvent maps an event to a message; false means ignore
	HandleEvent(ev terminal.Event) (M, bool)
}

// StateEventHandler converts terminal events to messages with read
// access to the state. When both handlers are implemented this one
// wins.
type StateEventHandler[S, M any] interface {
	HandleEventWithState(state *S, ev terminal.Event) (M, bool)
}

// TickHandler receives periodic ticks with the elapsed time since the
// previous tick
type TickHandler[S, M any] interface {
	// OnTick maps a tick to a message; false means no message
	OnTick(state *S, elapsed time.Duration) (M, bool)
}

// QuitCheck lets the app request shutdown from its state
type QuitCheck[S any] interface {
	ShouldQuit(state *S) bool
}

// ExitHook runs once during shutdown, after the final render
type ExitHook[S any] interface {
	OnExit(state *S)
}
