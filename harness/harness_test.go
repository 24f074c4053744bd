package harness

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/overlay"
	"github.com/lixenwraith/tui/runtime"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

type msg struct {
	tag string
	n   int
}

type state struct {
	count   int
	seconds int
	width   int
	height  int
}

type app struct{}

func (app) Init() (state, runtime.Command[msg]) {
	return state{}, runtime.None[msg]()
}

func (app) Update(s *state, m msg) runtime.Command[msg] {
	switch m.tag {
	case "inc":
		s.count++
	case "add":
		s.count += m.n
	case "second":
		s.seconds++
	case "size":
		s.width, s.height = m.n/1000, m.n%1000
	case "confirm":
		return runtime.PushOverlay[msg](confirmOverlay{})
	case "fetch":
		return runtime.PerformAsync(func(ctx context.Context) (msg, bool) {
			return msg{tag: "add", n: 40}, true
		})
	case "slowfetch":
		return runtime.PerformAsync(func(ctx context.Context) (msg, bool) {
			if err := clock.FromContext(ctx).Sleep(ctx, time.Second); err != nil {
				return msg{}, false
			}
			return msg{tag: "add", n: 42}, true
		})
	case "quit":
		return runtime.Quit[msg]()
	}
	return runtime.None[msg]()
}

func (app) View(s *state, f *frame.Frame) {
	r := f.Region()
	r.Text(0, 0, fmt.Sprintf("count=%d", s.count), frame.Style{})
	r.Text(0, 1, fmt.Sprintf("uptime=%ds", s.seconds), frame.Style{})
	if s.width > 0 {
		r.Text(0, 2, fmt.Sprintf("size=%dx%d", s.width, s.height), frame.Style{})
	}
}

func (app) HandleEvent(ev terminal.Event) (msg, bool) {
	switch {
	case ev.IsRune('+'):
		return msg{tag: "inc"}, true
	case ev.IsRune('c'):
		return msg{tag: "confirm"}, true
	case ev.Type == terminal.EventResize:
		return msg{tag: "size", n: ev.Width*1000 + ev.Height}, true
	case ev.IsMouse() && ev.MouseAction == terminal.MouseActionPress:
		return msg{tag: "add", n: ev.MouseX}, true
	}
	return msg{}, false
}

// confirmOverlay adds 5 on Enter and dismisses on Escape
type confirmOverlay struct{}

func (confirmOverlay) HandleEvent(ev terminal.Event) overlay.Action[msg] {
	switch {
	case ev.IsKeyPress(terminal.KeyEnter):
		return overlay.DismissWithMessage(msg{tag: "add", n: 5})
	case ev.IsKeyPress(terminal.KeyEscape):
		return overlay.Dismiss[msg]()
	}
	return overlay.Consumed[msg]()
}

func (confirmOverlay) View(f *frame.Frame, area frame.Rect, th *theme.Theme) {
	box := f.SubRegion(frame.NewRect(2, 2, 20, 3))
	box.BoxTitled("confirm?", frame.Style{Fg: th.OverlayBorder}, frame.Style{Fg: th.Title})
}

func newHarness(t *testing.T) *Harness[state, msg] {
	t.Helper()
	h, err := New[state, msg](app{}, 40, 10)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func TestTypeAndRender(t *testing.T) {
	h := newHarness(t)
	h.TypeStr("+++")
	require.NoError(t, h.Tick())

	require.Equal(t, 3, h.State().count)
	require.True(t, h.ContainsText("count=3"))
	require.Contains(t, h.Row(0), "count=3")
}

func TestDispatchBypassesInput(t *testing.T) {
	h := newHarness(t)
	h.Dispatch(msg{tag: "add", n: 9})
	h.DispatchAll(msg{tag: "inc"}, msg{tag: "inc"})
	require.Equal(t, 11, h.State().count)
}

func TestAdvanceTimeDrivesSubscription(t *testing.T) {
	h := newHarness(t)
	h.Subscribe(runtime.Every(time.Second, func(time.Time) msg {
		return msg{tag: "second"}
	}))

	// Let the subscription register its ticker before advancing
	require.Eventually(t, func() bool {
		return len(h.Clock().PendingDeadlines()) == 1
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, h.AdvanceTime(3*time.Second))
	require.True(t, h.WaitFor(func() bool { return h.State().seconds == 3 }, 2*time.Second))
	require.True(t, h.ContainsText("uptime=3s"))
}

func TestWaitForTextWithAsyncCommand(t *testing.T) {
	h := newHarness(t)
	h.Dispatch(msg{tag: "fetch"})
	h.ProcessPending()
	require.True(t, h.WaitForText("count=40", 2*time.Second))
}

func TestDelayedAsyncResolvesUnderPausedTime(t *testing.T) {
	h := newHarness(t)
	h.Dispatch(msg{tag: "slowfetch"})
	h.ProcessPending()

	// The future sleeps on the injected clock, so nothing resolves
	// until virtual time moves
	require.NoError(t, h.Tick())
	require.Equal(t, 0, h.State().count)

	require.NoError(t, h.AdvanceTime(2*time.Second))
	require.True(t, h.WaitFor(func() bool { return h.State().count == 42 }, 2*time.Second))
}

func TestWaitForConvergesOnVirtualTimer(t *testing.T) {
	h := newHarness(t)
	h.Subscribe(runtime.After(500*time.Millisecond, msg{tag: "add", n: 7}))

	// No explicit AdvanceTime: WaitFor must step the clock itself
	require.True(t, h.WaitFor(func() bool { return h.State().count == 7 }, 5*time.Second))
}

func TestOverlayFlow(t *testing.T) {
	h := newHarness(t)
	h.TypeStr("c")
	require.NoError(t, h.Tick())
	require.True(t, h.ContainsText("confirm?"))

	// Overlay consumes ordinary keys: '+' must not reach the app
	h.TypeStr("+")
	require.NoError(t, h.Tick())
	require.Equal(t, 0, h.State().count)

	h.Enter()
	require.NoError(t, h.Tick())
	require.Equal(t, 5, h.State().count)
	require.False(t, h.ContainsText("confirm?"))
}

func TestOverlayEscapeDismissesSilently(t *testing.T) {
	h := newHarness(t)
	h.Dispatch(msg{tag: "confirm"})
	require.NoError(t, h.Tick())
	require.True(t, h.ContainsText("confirm?"))

	h.Escape()
	require.NoError(t, h.Tick())
	require.False(t, h.ContainsText("confirm?"))
	require.Equal(t, 0, h.State().count)
}

func TestClickReachesApp(t *testing.T) {
	h := newHarness(t)
	h.Click(7, 3)
	require.NoError(t, h.Tick())
	require.Equal(t, 7, h.State().count)
}

func TestResizeTo(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ResizeTo(25, 8))
	require.NoError(t, h.Tick())

	require.Equal(t, 25, h.State().width)
	require.Equal(t, 8, h.State().height)
	require.True(t, h.ContainsText("size=25x8"))

	snap := h.Snapshot()
	require.Equal(t, 25, snap.Width)
	require.Equal(t, 8, snap.Height)
}

func TestScreenAccessors(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.Tick())

	require.Contains(t, h.Screen(), "count=0")
	require.Contains(t, h.ScreenANSI(), "count=0")
	require.Equal(t, "c", h.CellAt(0, 0).Symbol)

	pos := h.FindText("uptime")
	require.Len(t, pos, 1)
	require.Equal(t, 1, pos[0].Y)
}

func TestRequireContains(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.Tick())

	require.NotPanics(t, func() { h.RequireContains("count=0") })
	require.NotPanics(t, func() { h.RequireNotContains("missing") })

	require.PanicsWithValue(t,
		fmt.Sprintf("expected screen to contain %q\nscreen:\n%s", "nope", h.Screen()),
		func() { h.RequireContains("nope") })
	require.Panics(t, func() { h.RequireNotContains("count=0") })
}

func TestQuitFlow(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.ShouldQuit())
	h.Dispatch(msg{tag: "quit"})
	require.True(t, h.ShouldQuit())

	h2 := newHarness(t)
	h2.Quit()
	require.True(t, h2.ShouldQuit())
	require.Empty(t, h2.TakeErrors())
}
