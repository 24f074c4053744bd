// Package clock abstracts time so runtimes and tests share one time
// source. The real clock delegates to package time; the mock clock
// only moves when told to, firing timers and tickers deterministically.
package clock

import (
	"context"
	"time"
)

// Clock is an injectable time source
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// After returns a channel that receives once after d has elapsed
	After(d time.Duration) <-chan time.Time

	// Timer returns a stoppable one-shot timer
	Timer(d time.Duration) Timer

	// Ticker returns a ticker firing every d
	Ticker(d time.Duration) Ticker

	// Sleep blocks for d or until the context is cancelled
	Sleep(ctx context.Context, d time.Duration) error
}

// Timer fires once unless stopped first
type Timer interface {
	C() <-chan time.Time
	// Stop cancels the timer, reporting whether it was still pending
	Stop() bool
}

// Ticker delivers periodic time signals until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real is the wall-clock implementation
type Real struct{}

// NewReal returns a clock backed by package time
func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (Real) Timer(d time.Duration) Timer {
	return realTimer{time.NewTimer(d)}
}

func (Real) Ticker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type realTimer struct {
	t *time.Timer
}

func (rt realTimer) C() <-chan time.Time {
	return rt.t.C
}

func (rt realTimer) Stop() bool {
	return rt.t.Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (rt realTicker) C() <-chan time.Time {
	return rt.t.C
}

func (rt realTicker) Stop() {
	rt.t.Stop()
}

type ctxKey struct{}

// Context returns a context carrying the given clock
func Context(ctx context.Context, clk Clock) context.Context {
	return context.WithValue(ctx, ctxKey{}, clk)
}

// FromContext extracts the clock from ctx, falling back to the real
// clock when none was attached
func FromContext(ctx context.Context) Clock {
	if clk, ok := ctx.Value(ctxKey{}).(Clock); ok {
		return clk
	}
	return Real{}
}
