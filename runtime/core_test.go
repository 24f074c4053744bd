package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tui/annotation"
	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/overlay"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

var errAsyncBoom = errors.New("async boom")

// counterApp is the canonical test application: a counter advanced by
// messages, keys, and ticks
type counterState struct {
	count  int
	ticks  int
	soft   bool
	exited bool
}

type counterApp struct{}

func (counterApp) Init() (counterState, Command[tMsg]) {
	return counterState{}, None[tMsg]()
}

func (counterApp) Update(s *counterState, m tMsg) Command[tMsg] {
	switch m.tag {
	case "inc":
		s.count++
	case "add":
		s.count += m.n
	case "chain":
		s.count++
		return Message(tMsg{tag: "inc"})
	case "tick":
		s.ticks++
	case "quit":
		return Quit[tMsg]()
	case "softquit":
		s.soft = true
	case "modal":
		return PushOverlay[tMsg](modalOverlay{})
	case "closemodal":
		return PopOverlay[tMsg]()
	case "async":
		return PerformAsync(func(ctx context.Context) (tMsg, bool) {
			return tMsg{tag: "add", n: 5}, true
		})
	case "fail":
		return TryPerformAsync(
			func(ctx context.Context) (int, error) { return 0, errAsyncBoom },
			func(v int) tMsg { return tMsg{} },
		)
	}
	return None[tMsg]()
}

func (counterApp) View(s *counterState, f *frame.Frame) {
	f.Region().Text(0, 0, fmt.Sprintf("Count: %d", s.count), frame.Style{})
}

func (counterApp) HandleEvent(ev terminal.Event) (tMsg, bool) {
	switch {
	case ev.IsRune('+'):
		return tMsg{tag: "inc"}, true
	case ev.IsRune('q'):
		return tMsg{tag: "quit"}, true
	}
	return tMsg{}, false
}

func (counterApp) OnTick(s *counterState, elapsed time.Duration) (tMsg, bool) {
	return tMsg{tag: "tick"}, true
}

func (counterApp) ShouldQuit(s *counterState) bool {
	return s.soft
}

func (counterApp) OnExit(s *counterState) {
	s.exited = true
}

// modalOverlay consumes 'x', converts Enter, dismisses on Escape, and
// propagates everything else
type modalOverlay struct{}

func (modalOverlay) HandleEvent(ev terminal.Event) overlay.Action[tMsg] {
	switch {
	case ev.IsRune('x'):
		return overlay.Consumed[tMsg]()
	case ev.IsKeyPress(terminal.KeyEnter):
		return overlay.WithMessage(tMsg{tag: "add", n: 10})
	case ev.IsKeyPress(terminal.KeyEscape):
		return overlay.Dismiss[tMsg]()
	case ev.IsRune('d'):
		return overlay.DismissWithMessage(tMsg{tag: "add", n: 100})
	}
	return overlay.Propagate[tMsg]()
}

func (modalOverlay) View(f *frame.Frame, area frame.Rect, th *theme.Theme) {
	f.Region().Text(0, 1, "[modal]", frame.Style{Fg: th.Accent})
}

func newTestRuntime(t *testing.T) *Runtime[counterState, tMsg] {
	t.Helper()
	r, err := NewVirtual[counterState, tMsg](counterApp{}, 40, 10, DefaultConfig(), clock.NewMock(subEpoch))
	require.NoError(t, err)
	return r
}

func TestRenderShowsView(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.Core().Render())
	require.True(t, r.ContainsText("Count: 0"))

	r.Dispatch(tMsg{tag: "inc"})
	require.NoError(t, r.Core().Render())
	require.True(t, r.ContainsText("Count: 1"))
	require.False(t, r.ContainsText("Count: 0"))
}

func TestRenderDiffsUnchangedFrames(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.Core().Render())
	require.Equal(t, uint64(1), r.Capture().Frame())
	require.Equal(t, uint64(1), r.CellAt(0, 0).Frame)

	// Second render with identical content draws nothing, so the
	// cell keeps its original frame stamp
	require.NoError(t, r.Core().Render())
	require.Equal(t, uint64(2), r.Capture().Frame())
	require.Equal(t, uint64(1), r.CellAt(0, 0).Frame)

	// A state change redraws only the changed cells
	r.Dispatch(tMsg{tag: "inc"})
	require.NoError(t, r.Core().Render())
	require.Equal(t, uint64(1), r.CellAt(0, 0).Frame, "unchanged cell not redrawn")
	require.Equal(t, uint64(3), r.CellAt(7, 0).Frame, "digit cell redrawn")
}

func TestRenderAfterBackendResize(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.Core().Render())

	require.NoError(t, r.Capture().Resize(20, 5))
	require.NoError(t, r.Core().Render())
	w, h, _ := r.Capture().Size()
	require.Equal(t, 20, w)
	require.Equal(t, 5, h)
	require.True(t, r.ContainsText("Count: 0"))
}

func TestProcessEventEmptyQueue(t *testing.T) {
	r := newTestRuntime(t)
	_, res := r.Core().ProcessEvent()
	require.Equal(t, EventNone, res)
}

func TestProcessEventAppHandler(t *testing.T) {
	r := newTestRuntime(t)
	r.Send(terminal.Char('+'))
	m, res := r.Core().ProcessEvent()
	require.Equal(t, EventDispatched, res)
	require.Equal(t, "inc", m.tag)

	r.Send(terminal.Char('z'))
	_, res = r.Core().ProcessEvent()
	require.Equal(t, EventIgnored, res)
}

func TestProcessEventOverlayTable(t *testing.T) {
	r := newTestRuntime(t)
	r.Core().PushOverlay(modalOverlay{})

	// Consumed: swallowed, never reaches the app
	r.Send(terminal.Char('x'))
	_, res := r.Core().ProcessEvent()
	require.Equal(t, EventConsumed, res)
	require.Equal(t, 1, r.Core().OverlayLen())

	// Message: converted, overlay stays
	r.Send(terminal.KeyPress(terminal.KeyEnter))
	m, res := r.Core().ProcessEvent()
	require.Equal(t, EventDispatched, res)
	require.Equal(t, 10, m.n)
	require.Equal(t, 1, r.Core().OverlayLen())

	// Propagate: falls through to the app handler
	r.Send(terminal.Char('+'))
	m, res = r.Core().ProcessEvent()
	require.Equal(t, EventDispatched, res)
	require.Equal(t, "inc", m.tag)

	// DismissWithMessage: overlay removed and message dispatched
	r.Send(terminal.Char('d'))
	m, res = r.Core().ProcessEvent()
	require.Equal(t, EventDispatched, res)
	require.Equal(t, 100, m.n)
	require.Equal(t, 0, r.Core().OverlayLen())

	// Dismiss: removed silently
	r.Core().PushOverlay(modalOverlay{})
	r.Send(terminal.KeyPress(terminal.KeyEscape))
	_, res = r.Core().ProcessEvent()
	require.Equal(t, EventConsumed, res)
	require.Equal(t, 0, r.Core().OverlayLen())
}

func TestOverlayRendersAboveView(t *testing.T) {
	r := newTestRuntime(t)
	r.Core().PushOverlay(modalOverlay{})
	require.NoError(t, r.Core().Render())
	require.True(t, r.ContainsText("Count: 0"))
	require.True(t, r.ContainsText("[modal]"))

	r.Core().PopOverlay()
	require.NoError(t, r.Core().Render())
	require.False(t, r.ContainsText("[modal]"))
}

func TestQuitChecks(t *testing.T) {
	r := newTestRuntime(t)
	require.False(t, r.ShouldQuit())

	// Quit command path
	r.Dispatch(tMsg{tag: "quit"})
	require.True(t, r.ShouldQuit())

	// App-driven QuitCheck path
	r2 := newTestRuntime(t)
	r2.Dispatch(tMsg{tag: "softquit"})
	require.True(t, r2.ShouldQuit())
}

func TestAnnotationsCollectedDuringRender(t *testing.T) {
	reg := annotation.NewRegistry()
	app := annotatingApp{}
	r, err := NewVirtual[counterState, tMsg](app, 40, 10, DefaultConfig(), clock.NewMock(subEpoch))
	require.NoError(t, err)
	r.Core().SetAnnotations(reg)

	require.NoError(t, r.Core().Render())
	ri, ok := reg.ByID("counter")
	require.True(t, ok)
	require.Equal(t, "label", ri.Annotation.Kind)

	// Each render starts from a clean registry
	require.NoError(t, r.Core().Render())
	require.Equal(t, 1, reg.Len())
}

// annotatingApp wraps counterApp with an annotated view
type annotatingApp struct {
	counterApp
}

func (annotatingApp) View(s *counterState, f *frame.Frame) {
	f.Region().Text(0, 0, fmt.Sprintf("Count: %d", s.count), frame.Style{})
	f.Annotate(frame.NewRect(0, 0, 10, 1), annotation.Annotation{Kind: "label", ID: "counter"})
}
