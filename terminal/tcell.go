package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// keyToTcell maps framework keys to tcell keys; inverted at init for
// the reverse direction
var keyToTcell = map[Key]tcell.Key{
	KeyEscape:    tcell.KeyEscape,
	KeyEnter:     tcell.KeyEnter,
	KeyTab:       tcell.KeyTab,
	KeyBacktab:   tcell.KeyBacktab,
	KeyBackspace: tcell.KeyBackspace2,
	KeyDelete:    tcell.KeyDelete,
	KeyUp:        tcell.KeyUp,
	KeyDown:      tcell.KeyDown,
	KeyLeft:      tcell.KeyLeft,
	KeyRight:     tcell.KeyRight,
	KeyHome:      tcell.KeyHome,
	KeyEnd:       tcell.KeyEnd,
	KeyPageUp:    tcell.KeyPgUp,
	KeyPageDown:  tcell.KeyPgDn,
	KeyInsert:    tcell.KeyInsert,
	KeyF1:        tcell.KeyF1,
	KeyF2:        tcell.KeyF2,
	KeyF3:        tcell.KeyF3,
	KeyF4:        tcell.KeyF4,
	KeyF5:        tcell.KeyF5,
	KeyF6:        tcell.KeyF6,
	KeyF7:        tcell.KeyF7,
	KeyF8:        tcell.KeyF8,
	KeyF9:        tcell.KeyF9,
	KeyF10:       tcell.KeyF10,
	KeyF11:       tcell.KeyF11,
	KeyF12:       tcell.KeyF12,
}

var keyFromTcell map[tcell.Key]Key

func init() {
	keyFromTcell = make(map[tcell.Key]Key, len(keyToTcell)+1)
	for k, tk := range keyToTcell {
		keyFromTcell[tk] = k
	}
	// Legacy backspace code arrives on some terminals
	keyFromTcell[tcell.KeyBackspace] = KeyBackspace
}

func modsToTcell(m Modifier) tcell.ModMask {
	var mask tcell.ModMask
	if m.Has(ModShift) {
		mask |= tcell.ModShift
	}
	if m.Has(ModAlt) {
		mask |= tcell.ModAlt
	}
	if m.Has(ModCtrl) {
		mask |= tcell.ModCtrl
	}
	if m.Has(ModMeta) {
		mask |= tcell.ModMeta
	}
	return mask
}

func modsFromTcell(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods |= ModShift
	}
	if m&tcell.ModAlt != 0 {
		mods |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mods |= ModCtrl
	}
	if m&tcell.ModMeta != 0 {
		mods |= ModMeta
	}
	return mods
}

// ColorToTcell converts a framework color to its tcell equivalent
func ColorToTcell(c Color) tcell.Color {
	switch c.Kind {
	case ColorKindIndexed:
		return tcell.PaletteColor(int(c.Index))
	case ColorKindRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// ColorFromTcell converts a tcell color to the framework representation
func ColorFromTcell(c tcell.Color) Color {
	if c == tcell.ColorDefault {
		return ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return RGB(uint8(r), uint8(g), uint8(b))
	}
	return Indexed(uint8(c - tcell.ColorValid))
}

// StyleToTcell builds a tcell style from a cell's visual fields
func StyleToTcell(cell Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(ColorToTcell(cell.Fg)).
		Background(ColorToTcell(cell.Bg))
	if cell.Attrs.Has(AttrBold) {
		st = st.Bold(true)
	}
	if cell.Attrs.Has(AttrDim) {
		st = st.Dim(true)
	}
	if cell.Attrs.Has(AttrItalic) {
		st = st.Italic(true)
	}
	if cell.Attrs.Has(AttrUnderline) {
		st = st.Underline(true)
	}
	if cell.Attrs.Has(AttrBlink) {
		st = st.Blink(true)
	}
	if cell.Attrs.Has(AttrReverse) {
		st = st.Reverse(true)
	}
	if cell.Attrs.Has(AttrCrossedOut) {
		st = st.StrikeThrough(true)
	}
	return st
}

// ToTcell converts a framework event to the underlying tcell event.
// Paste events have no single tcell equivalent (tcell brackets paste
// content with start/end markers) and return nil.
func ToTcell(e Event) tcell.Event {
	switch e.Type {
	case EventKey:
		mods := modsToTcell(e.Modifiers)
		if e.Key == KeyRune || e.Key == KeySpace {
			r := e.Rune
			if e.Key == KeySpace {
				r = ' '
			}
			if e.Modifiers.Has(ModCtrl) && r >= 'a' && r <= 'z' {
				return tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key(r-'a'), r, mods)
			}
			return tcell.NewEventKey(tcell.KeyRune, r, mods)
		}
		if tk, ok := keyToTcell[e.Key]; ok {
			return tcell.NewEventKey(tk, 0, mods)
		}
		return tcell.NewEventKey(tcell.KeyRune, e.Rune, mods)
	case EventMouse:
		var btn tcell.ButtonMask
		switch e.MouseAction {
		case MouseActionPress, MouseActionDrag:
			switch e.MouseBtn {
			case MouseBtnLeft:
				btn = tcell.Button1
			case MouseBtnMiddle:
				btn = tcell.Button2
			case MouseBtnRight:
				btn = tcell.Button3
			}
		case MouseActionScroll:
			if e.MouseBtn == MouseBtnWheelUp {
				btn = tcell.WheelUp
			} else {
				btn = tcell.WheelDown
			}
		}
		return tcell.NewEventMouse(e.MouseX, e.MouseY, btn, modsToTcell(e.Modifiers))
	case EventResize:
		return tcell.NewEventResize(e.Width, e.Height)
	case EventFocusGained:
		return tcell.NewEventFocus(true)
	case EventFocusLost:
		return tcell.NewEventFocus(false)
	default:
		return nil
	}
}

// FromTcell converts a tcell event to the framework representation.
// Returns false for event kinds the framework does not model
// (interrupts, paste markers, errors).
//
// Mouse release and drag cannot be distinguished from move and press
// in tcell's stateless encoding, and tcell strips ModShift from rune
// keys, so those shapes do not round-trip; everything else does.
func FromTcell(ev tcell.Event) (Event, bool) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		mods := modsFromTcell(tev.Modifiers())
		k := tev.Key()
		if k == tcell.KeyRune {
			return Event{Type: EventKey, Key: KeyRune, Rune: tev.Rune(), Modifiers: mods}, true
		}
		// Ctrl+letter arrives as a dedicated control key constant;
		// the input parser leaves the rune empty, so derive the
		// letter from the key itself
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			return Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Modifiers: mods | ModCtrl}, true
		}
		if our, ok := keyFromTcell[k]; ok {
			return Event{Type: EventKey, Key: our, Modifiers: mods}, true
		}
		return Event{}, false
	case *tcell.EventMouse:
		x, y := tev.Position()
		mods := modsFromTcell(tev.Modifiers())
		btns := tev.Buttons()
		switch {
		case btns&tcell.WheelUp != 0:
			return Event{Type: EventMouse, MouseAction: MouseActionScroll, MouseBtn: MouseBtnWheelUp, MouseX: x, MouseY: y, Modifiers: mods}, true
		case btns&tcell.WheelDown != 0:
			return Event{Type: EventMouse, MouseAction: MouseActionScroll, MouseBtn: MouseBtnWheelDown, MouseX: x, MouseY: y, Modifiers: mods}, true
		case btns&tcell.Button1 != 0:
			return Event{Type: EventMouse, MouseAction: MouseActionPress, MouseBtn: MouseBtnLeft, MouseX: x, MouseY: y, Modifiers: mods}, true
		case btns&tcell.Button2 != 0:
			return Event{Type: EventMouse, MouseAction: MouseActionPress, MouseBtn: MouseBtnMiddle, MouseX: x, MouseY: y, Modifiers: mods}, true
		case btns&tcell.Button3 != 0:
			return Event{Type: EventMouse, MouseAction: MouseActionPress, MouseBtn: MouseBtnRight, MouseX: x, MouseY: y, Modifiers: mods}, true
		default:
			return Event{Type: EventMouse, MouseAction: MouseActionMove, MouseX: x, MouseY: y, Modifiers: mods}, true
		}
	case *tcell.EventResize:
		w, h := tev.Size()
		return Resize(w, h), true
	case *tcell.EventFocus:
		return Focus(tev.Focused), true
	default:
		return Event{}, false
	}
}

// TcellBackend drives a physical terminal through tcell: raw mode,
// alternate screen, mouse capture, and bracketed paste are enabled on
// construction and reversed by Fini.
type TcellBackend struct {
	screen tcell.Screen

	events chan Event
	stop   chan struct{}

	mu       sync.Mutex
	cursorX  int
	cursorY  int
	finiOnce sync.Once
}

// NewTcellBackend initialises a physical terminal backend
func NewTcellBackend() (*TcellBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.EnableFocus()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	b := &TcellBackend{
		screen: screen,
		events: make(chan Event, 256),
		stop:   make(chan struct{}),
	}
	go b.pump()
	return b, nil
}

// pump reads tcell events, aggregates bracketed paste runs, and
// forwards framework events
func (b *TcellBackend) pump() {
	var pasting bool
	var pasteBuf []rune
	for {
		select {
		case <-b.stop:
			return
		default:
		}

		ev := b.screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}

		if pev, ok := ev.(*tcell.EventPaste); ok {
			if pev.Start() {
				pasting = true
				pasteBuf = pasteBuf[:0]
			} else {
				pasting = false
				b.send(Paste(string(pasteBuf)))
			}
			continue
		}
		if pasting {
			if kev, ok := ev.(*tcell.EventKey); ok {
				switch kev.Key() {
				case tcell.KeyRune:
					pasteBuf = append(pasteBuf, kev.Rune())
				case tcell.KeyEnter:
					pasteBuf = append(pasteBuf, '\n')
				case tcell.KeyTab:
					pasteBuf = append(pasteBuf, '\t')
				}
			}
			continue
		}

		if e, ok := FromTcell(ev); ok {
			b.send(e)
		}
	}
}

func (b *TcellBackend) send(e Event) {
	select {
	case b.events <- e:
	case <-b.stop:
	}
}

// Events returns the input event channel
func (b *TcellBackend) Events() <-chan Event {
	return b.events
}

// PostEvent injects a synthetic event, for driver code and tests
func (b *TcellBackend) PostEvent(e Event) {
	b.send(e)
}

// Fini restores the terminal. Safe to call multiple times.
func (b *TcellBackend) Fini() {
	b.finiOnce.Do(func() {
		close(b.stop)
		b.screen.Fini()
	})
}

// Draw applies cell updates to the tcell screen
func (b *TcellBackend) Draw(updates []CellUpdate) error {
	w, h := b.screen.Size()
	for _, u := range updates {
		if u.X < 0 || u.X >= w || u.Y < 0 || u.Y >= h {
			continue
		}
		runes := []rune(u.Cell.Glyph())
		main := runes[0]
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		b.screen.SetContent(u.X, u.Y, main, comb, StyleToTcell(u.Cell))
	}
	return nil
}

// HideCursor makes the cursor invisible
func (b *TcellBackend) HideCursor() error {
	b.screen.HideCursor()
	return nil
}

// ShowCursor makes the cursor visible at its current position
func (b *TcellBackend) ShowCursor() error {
	b.mu.Lock()
	x, y := b.cursorX, b.cursorY
	b.mu.Unlock()
	b.screen.ShowCursor(x, y)
	return nil
}

// SetCursor positions the cursor
func (b *TcellBackend) SetCursor(x, y int) error {
	b.mu.Lock()
	b.cursorX, b.cursorY = x, y
	b.mu.Unlock()
	b.screen.ShowCursor(x, y)
	return nil
}

// Clear resets the whole screen
func (b *TcellBackend) Clear() error {
	b.screen.Clear()
	return nil
}

// ClearRegion resets a cursor-relative region by overwriting with spaces
func (b *TcellBackend) ClearRegion(ct ClearType) error {
	w, h := b.screen.Size()
	b.mu.Lock()
	cx, cy := b.cursorX, b.cursorY
	b.mu.Unlock()

	start, end := clearBounds(ct, cx, cy, w, h)
	for i := start; i < end; i++ {
		b.screen.SetContent(i%w, i/w, ' ', nil, tcell.StyleDefault)
	}
	return nil
}

// clearBounds computes the linear cell range for a cursor-relative clear
func clearBounds(ct ClearType, cx, cy, w, h int) (int, int) {
	total := w * h
	cur := cy*w + cx
	switch ct {
	case ClearAfterCursor:
		return cur, total
	case ClearBeforeCursor:
		return 0, cur
	case ClearCurrentLine:
		return cy * w, cy*w + w
	case ClearUntilNewline:
		return cur, cy*w + w
	default:
		return 0, total
	}
}

// Size returns terminal dimensions in cells
func (b *TcellBackend) Size() (int, int, error) {
	w, h := b.screen.Size()
	return w, h, nil
}

// WindowSize reports cell dimensions; pixel sizes assume an 8x16 font
// since tcell does not expose them portably
func (b *TcellBackend) WindowSize() (WindowSize, error) {
	w, h := b.screen.Size()
	return WindowSize{Columns: w, Rows: h, PixelW: w * 8, PixelH: h * 16}, nil
}

// Flush makes buffered updates visible
func (b *TcellBackend) Flush() error {
	b.screen.Show()
	return nil
}
