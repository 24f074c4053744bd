package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lixenwraith/tui/clock"
	"github.com/lixenwraith/tui/frame"
	"github.com/lixenwraith/tui/overlay"
	"github.com/lixenwraith/tui/runtime"
	"github.com/lixenwraith/tui/terminal"
	"github.com/lixenwraith/tui/theme"
)

type msgKind int

const (
	msgInc msgKind = iota
	msgDec
	msgSlowStart
	msgSlowDone
	msgUptime
	msgHelp
	msgQuit
)

type counterMsg struct {
	kind  msgKind
	delta int
}

type counterState struct {
	count   int
	uptime  int
	pending bool
}

type counterApp struct{}

func (counterApp) Init() (counterState, runtime.Command[counterMsg]) {
	return counterState{}, runtime.None[counterMsg]()
}

func (counterApp) Update(s *counterState, m counterMsg) runtime.Command[counterMsg] {
	switch m.kind {
	case msgInc:
		s.count++
	case msgDec:
		s.count--
	case msgSlowStart:
		if s.pending {
			return runtime.None[counterMsg]()
		}
		s.pending = true
		return runtime.PerformAsync(func(ctx context.Context) (counterMsg, bool) {
			clk := clock.FromContext(ctx)
			if err := clk.Sleep(ctx, 2*time.Second); err != nil {
				return counterMsg{}, false
			}
			return counterMsg{kind: msgSlowDone, delta: 5}, true
		})
	case msgSlowDone:
		s.count += m.delta
		s.pending = false
	case msgUptime:
		s.uptime++
	case msgHelp:
		return runtime.PushOverlay[counterMsg](helpOverlay{})
	case msgQuit:
		return runtime.Quit[counterMsg]()
	}
	return runtime.None[counterMsg]()
}

func (counterApp) HandleEvent(ev terminal.Event) (counterMsg, bool) {
	switch {
	case ev.IsRune('+'):
		return counterMsg{kind: msgInc}, true
	case ev.IsRune('-'):
		return counterMsg{kind: msgDec}, true
	case ev.IsRune('s'):
		return counterMsg{kind: msgSlowStart}, true
	case ev.IsRune('?'):
		return counterMsg{kind: msgHelp}, true
	case ev.IsRune('q'), ev.IsKeyPress(terminal.KeyEscape):
		return counterMsg{kind: msgQuit}, true
	}
	return counterMsg{}, false
}

func (counterApp) View(s *counterState, f *frame.Frame) {
	th := theme.Default()
	r := f.Region()
	r.BoxTitled("tui-counter", frame.Style{Fg: th.Border}, frame.Style{Fg: th.Title})

	body := r.Inset(2)
	body.Text(0, 0, fmt.Sprintf("Count: %d", s.count), frame.Style{Fg: th.Fg, Attrs: terminal.AttrBold})
	body.Text(0, 1, fmt.Sprintf("Uptime: %ds", s.uptime), frame.Style{Fg: th.MutedFg})
	if s.pending {
		body.Text(0, 2, "slow increment running...", frame.Style{Fg: th.Warning})
	}
	body.Text(0, body.H()-1, "+/- count  s slow  ? help  q quit", frame.Style{Fg: th.HintFg})
}

// helpOverlay lists the key bindings. Any other key dismisses it.
type helpOverlay struct{}

func (helpOverlay) HandleEvent(ev terminal.Event) overlay.Action[counterMsg] {
	if ev.Type == terminal.EventKey {
		return overlay.Dismiss[counterMsg]()
	}
	return overlay.Consumed[counterMsg]()
}

func (helpOverlay) View(f *frame.Frame, area frame.Rect, th *theme.Theme) {
	w, h := 36, 8
	box := frame.NewRect(area.X+(area.W-w)/2, area.Y+(area.H-h)/2, w, h)
	r := f.SubRegion(box)
	r.Fill(" ", frame.Style{Bg: th.OverlayBg})
	r.BoxTitled("Help", frame.Style{Fg: th.OverlayBorder, Bg: th.OverlayBg}, frame.Style{Fg: th.Title, Bg: th.OverlayBg})

	body := r.Inset(2)
	st := frame.Style{Fg: th.Fg, Bg: th.OverlayBg}
	body.Text(0, 0, "+  increment", st)
	body.Text(0, 1, "-  decrement", st)
	body.Text(0, 2, "s  slow async increment", st)
	body.Text(0, 3, "q  quit", st)
	body.Text(0, body.H()-1, "press any key to close", frame.Style{Fg: th.HintFg, Bg: th.OverlayBg})
}
