// Package harness wraps a virtual runtime and a mock clock into a
// test façade: type keys, advance time, and assert on the screen. It
// deliberately avoids *testing.T so it also serves examples and
// scripted demos; assertion helpers panic with a screen dump instead.
package harness

import (
	"fmt"
	"time"

	gort "runtime"

	"github.com/lixenwraith/tui/capture"
	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/runtime"
	"github.com/lixenwraith/tui/terminal"
)

// advanceStep is the granularity of AdvanceTime: small enough that
// timers, tickers, and follow-up messages interleave realistically
const advanceStep = 10 * time.Millisecond

// Harness drives an application deterministically: events go through
// the real runtime paths and every timer fires under the mock clock.
type Harness[S, M any] struct {
	rt *runtime.Runtime[S, M]
	mk *clock.Mock
}

// New creates a harness around the app with a WxH virtual screen
func New[S, M any](app runtime.App[S, M], width, height int) (*Harness[S, M], error) {
	return WithConfig(app, width, height, runtime.DefaultConfig())
}

// WithConfig creates a harness with explicit runtime configuration
func WithConfig[S, M any](app runtime.App[S, M], width, height int, cfg runtime.Config) (*Harness[S, M], error) {
	mk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	rt, err := runtime.NewVirtual(app, width, height, cfg, mk)
	if err != nil {
		return nil, fmt.Errorf("create virtual runtime: %w", err)
	}
	return &Harness[S, M]{rt: rt, mk: mk}, nil
}

// Runtime returns the underlying runtime
func (h *Harness[S, M]) Runtime() *runtime.Runtime[S, M] {
	return h.rt
}

// Clock returns the mock clock
func (h *Harness[S, M]) Clock() *clock.Mock {
	return h.mk
}

// State returns the application state
func (h *Harness[S, M]) State() *S {
	return h.rt.State()
}

// Dispatch sends a message through Update
func (h *Harness[S, M]) Dispatch(m M) {
	h.rt.Dispatch(m)
}

// DispatchAll sends messages in order
func (h *Harness[S, M]) DispatchAll(msgs ...M) {
	h.rt.DispatchAll(msgs...)
}

// TypeStr queues one key press per rune
func (h *Harness[S, M]) TypeStr(s string) *Harness[S, M] {
	h.rt.Events().TypeStr(s)
	return h
}

// Enter queues an Enter press
func (h *Harness[S, M]) Enter() *Harness[S, M] {
	h.rt.Events().Enter()
	return h
}

// Escape queues an Escape press
func (h *Harness[S, M]) Escape() *Harness[S, M] {
	h.rt.Events().Escape()
	return h
}

// Tab queues a Tab press
func (h *Harness[S, M]) Tab() *Harness[S, M] {
	h.rt.Events().Tab()
	return h
}

// Ctrl queues a Ctrl+key press
func (h *Harness[S, M]) Ctrl(c rune) *Harness[S, M] {
	h.rt.Events().Ctrl(c)
	return h
}

// Click queues a click gesture
func (h *Harness[S, M]) Click(x, y int) *Harness[S, M] {
	h.rt.Events().Click(x, y)
	return h
}

// PushEvent queues an arbitrary terminal event
func (h *Harness[S, M]) PushEvent(ev terminal.Event) *Harness[S, M] {
	h.rt.Send(ev)
	return h
}

// ResizeTo resizes the virtual screen and queues the matching resize
// event for the application
func (h *Harness[S, M]) ResizeTo(width, height int) error {
	if err := h.rt.Capture().Resize(width, height); err != nil {
		return err
	}
	h.rt.Send(terminal.Resize(width, height))
	return nil
}

// Tick runs one logic step and renders
func (h *Harness[S, M]) Tick() error {
	return h.rt.Tick()
}

// RunTicks runs n logic steps
func (h *Harness[S, M]) RunTicks(n int) error {
	return h.rt.RunTicks(n)
}

// ProcessPending spawns queued async effects
func (h *Harness[S, M]) ProcessPending() {
	h.rt.ProcessPending()
}

// AdvanceTime moves the mock clock forward in small steps, ticking
// the runtime after each step so timer-driven messages are processed
// in order instead of all at once
func (h *Harness[S, M]) AdvanceTime(d time.Duration) error {
	h.rt.ProcessPending()
	for d > 0 {
		step := advanceStep
		if step > d {
			step = d
		}
		h.mk.Advance(step)
		d -= step

		// Yield so goroutines woken by the advance can run before
		// the runtime drains their messages
		for i := 0; i < 16; i++ {
			gort.Gosched()
		}
		if err := h.rt.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// WaitFor polls the predicate, stepping virtual time and ticking the
// runtime between polls, until it holds or the real-time timeout
// expires. Conditions gated on virtual timers converge without an
// explicit AdvanceTime.
func (h *Harness[S, M]) WaitFor(pred func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if pred() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		h.mk.Advance(advanceStep)
		if err := h.rt.Tick(); err != nil {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitForText waits until the screen shows the text
func (h *Harness[S, M]) WaitForText(s string, timeout time.Duration) bool {
	return h.WaitFor(func() bool { return h.rt.ContainsText(s) }, timeout)
}

// Subscribe starts a subscription on the runtime
func (h *Harness[S, M]) Subscribe(sub runtime.Subscription[M]) {
	h.rt.Subscribe(sub)
}

// TakeErrors drains buffered async errors
func (h *Harness[S, M]) TakeErrors() []error {
	return h.rt.TakeErrors()
}

// Quit requests shutdown
func (h *Harness[S, M]) Quit() {
	h.rt.Quit()
}

// ShouldQuit reports whether shutdown was requested
func (h *Harness[S, M]) ShouldQuit() bool {
	return h.rt.ShouldQuit()
}

// Close releases runtime resources
func (h *Harness[S, M]) Close() {
	h.rt.Close()
}

// Screen returns the rendered screen as plain text
func (h *Harness[S, M]) Screen() string {
	return h.rt.Screen()
}

// ScreenANSI returns the rendered screen with ANSI styling
func (h *Harness[S, M]) ScreenANSI() string {
	return h.rt.ScreenANSI()
}

// Row returns one row of the screen
func (h *Harness[S, M]) Row(y int) string {
	return h.rt.Capture().RowContent(y)
}

// CellAt returns a cell of the screen
func (h *Harness[S, M]) CellAt(x, y int) terminal.Cell {
	return h.rt.CellAt(x, y)
}

// ContainsText reports whether the screen shows the text
func (h *Harness[S, M]) ContainsText(s string) bool {
	return h.rt.ContainsText(s)
}

// FindText locates text on the screen
func (h *Harness[S, M]) FindText(s string) []capture.Position {
	return h.rt.FindText(s)
}

// Snapshot captures the current screen
func (h *Harness[S, M]) Snapshot() capture.Snapshot {
	return h.rt.Capture().Snapshot()
}

// RequireContains panics with a screen dump when the text is missing
func (h *Harness[S, M]) RequireContains(s string) {
	if !h.rt.ContainsText(s) {
		panic(fmt.Sprintf("expected screen to contain %q\nscreen:\n%s", s, h.rt.Screen()))
	}
}

// RequireNotContains panics with a screen dump when the text is shown
func (h *Harness[S, M]) RequireNotContains(s string) {
	if h.rt.ContainsText(s) {
		panic(fmt.Sprintf("expected screen to not contain %q\nscreen:\n%s", s, h.rt.Screen()))
	}
}
