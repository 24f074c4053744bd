package runtime

import (
	"context"

	"github.com/lixenwraith/tui/overlay"
)

// Future is a deferred effect executed on its own goroutine. It may
// produce a message (ok=true) and/or an error; errors surface on the
// runtime error channel.
type Future[M any] func(ctx context.Context) (M, bool, error)

type actionKind uint8

const (
	actMessage actionKind = iota
	actSync
	actFuture
	actQuit
	actPushOverlay
	actPopOverlay
)

type action[M any] struct {
	kind   actionKind
	msg    M
	sync   func() (M, bool)
	future Future[M]
	push   overlay.Overlay[M]
}

// Command is an ordered list of effects returned by Init and Update.
// The zero value is the empty command.
type Command[M any] struct {
	actions []action[M]
}

// None returns the empty command
func None[M any]() Command[M] {
	return Command[M]{}
}

// Message returns a command that dispatches m
func Message[M any](m M) Command[M] {
	return Command[M]{actions: []action[M]{{kind: actMessage, msg: m}}}
}

// Batch combines commands in order
func Batch[M any](cmds ...Command[M]) Command[M] {
	var out Command[M]
	for _, c := range cmds {
		out.actions = append(out.actions, c.actions...)
	}
	return out
}

// Quit returns a command that requests shutdown
func Quit[M any]() Command[M] {
	return Command[M]{actions: []action[M]{{kind: actQuit}}}
}

// Perform runs fn synchronously during command execution; a true
// second return dispatches the message
func Perform[M any](fn func() (M, bool)) Command[M] {
	return Command[M]{actions: []action[M]{{kind: actSync, sync: fn}}}
}

// PerformAsync runs fn on its own goroutine. The context carries the
// runtime clock and is cancelled on shutdown.
func PerformAsync[M any](fn func(ctx context.Context) (M, bool)) Command[M] {
	f := func(ctx context.Context) (M, bool, error) {
		m, ok := fn(ctx)
		return m, ok, nil
	}
	return Command[M]{actions: []action[M]{{kind: actFuture, future: f}}}
}

// PerformAsyncFallible runs fn on its own goroutine and maps its
// outcome, success or failure, to a message
func PerformAsyncFallible[T, M any](fn func(ctx context.Context) (T, error), onResult func(T, error) M) Command[M] {
	f := func(ctx context.Context) (M, bool, error) {
		v, err := fn(ctx)
		return onResult(v, err), true, nil
	}
	return Command[M]{actions: []action[M]{{kind: actFuture, future: f}}}
}

// TryPerformAsync runs fn on its own goroutine. Success maps to a
// message; an error goes to the runtime error channel instead.
func TryPerformAsync[T, M any](fn func(ctx context.Context) (T, error), onSuccess func(T) M) Command[M] {
	f := func(ctx context.Context) (M, bool, error) {
		v, err := fn(ctx)
		if err != nil {
			var zero M
			return zero, false, err
		}
		return onSuccess(v), true, nil
	}
	return Command[M]{actions: []action[M]{{kind: actFuture, future: f}}}
}

// PushOverlay returns a command that pushes a modal layer
func PushOverlay[M any](o overlay.Overlay[M]) Command[M] {
	return Command[M]{actions: []action[M]{{kind: actPushOverlay, push: o}}}
}

// PopOverlay returns a command that removes the top modal layer
func PopOverlay[M any]() Command[M] {
	return Command[M]{actions: []action[M]{{kind: actPopOverlay}}}
}

// And appends another command's effects after this one's
func (c Command[M]) And(other Command[M]) Command[M] {
	return Batch(c, other)
}

// IsNone reports whether the command has no effects
func (c Command[M]) IsNone() bool {
	return len(c.actions) == 0
}

// Len returns the number of effects
func (c Command[M]) Len() int {
	return len(c.actions)
}

// Clone copies the cloneable effects: messages, quit, and overlay
// pops. Closures and overlay pushes are skipped since they may own
// state that must not run twice.
func (c Command[M]) Clone() Command[M] {
	var out Command[M]
	for _, a := range c.actions {
		switch a.kind {
		case actMessage, actQuit, actPopOverlay:
			out.actions = append(out.actions, a)
		}
	}
	return out
}

// Map converts a command's message type. Overlay pushes are dropped:
// an overlay is bound to its message type and cannot be converted.
func Map[M, N any](c Command[M], fn func(M) N) Command[N] {
	var out Command[N]
	for _, a := range c.actions {
		switch a.kind {
		case actMessage:
			out.actions = append(out.actions, action[N]{kind: actMessage, msg: fn(a.msg)})
		case actSync:
			inner := a.sync
			out.actions = append(out.actions, action[N]{kind: actSync, sync: func() (N, bool) {
				m, ok := inner()
				if !ok {
					var zero N
					return zero, false
				}
				return fn(m), true
			}})
		case actFuture:
			inner := a.future
			out.actions = append(out.actions, action[N]{kind: actFuture, future: func(ctx context.Context) (N, bool, error) {
				m, ok, err := inner(ctx)
				if !ok {
					var zero N
					return zero, false, err
				}
				return fn(m), true, err
			}})
		case actQuit:
			out.actions = append(out.actions, action[N]{kind: actQuit})
		case actPopOverlay:
			out.actions = append(out.actions, action[N]{kind: actPopOverlay})
		}
	}
	return out
}
