package terminal

import "strconv"

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventFocusGained
	EventFocusLost
	EventPaste
)

// Event represents a terminal input event.
// Exactly one variant's fields are meaningful, selected by Type.
type Event struct {
	Type EventType

	// Key fields
	Key       Key
	Rune      rune
	Modifiers Modifier

	// Mouse fields
	MouseAction MouseAction
	MouseBtn    MouseButton
	MouseX      int
	MouseY      int

	// Resize fields
	Width  int
	Height int

	// Paste content
	Text string
}

// Char creates a key press event for a printable character
func Char(c rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: c}
}

// CharWith creates a character key press with modifiers
func CharWith(c rune, mods Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: c, Modifiers: mods}
}

// KeyPress creates a key press event for a special key
func KeyPress(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// KeyPressWith creates a special key press with modifiers
func KeyPressWith(k Key, mods Modifier) Event {
	return Event{Type: EventKey, Key: k, Modifiers: mods}
}

// Ctrl creates a Ctrl+key event
func Ctrl(c rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: c, Modifiers: ModCtrl}
}

// Alt creates an Alt+key event
func Alt(c rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: c, Modifiers: ModAlt}
}

// Click creates a left button press at the given position
func Click(x, y int) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionPress, MouseBtn: MouseBtnLeft, MouseX: x, MouseY: y}
}

// ClickButton creates a button press for a specific button
func ClickButton(x, y int, btn MouseButton) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionPress, MouseBtn: btn, MouseX: x, MouseY: y}
}

// MouseUp creates a left button release
func MouseUp(x, y int) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionRelease, MouseBtn: MouseBtnLeft, MouseX: x, MouseY: y}
}

// MouseMove creates a motion event with no button held
func MouseMove(x, y int) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionMove, MouseX: x, MouseY: y}
}

// MouseDrag creates a motion event with a button held
func MouseDrag(x, y int, btn MouseButton) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionDrag, MouseBtn: btn, MouseX: x, MouseY: y}
}

// ScrollUp creates a wheel-up event
func ScrollUp(x, y int) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionScroll, MouseBtn: MouseBtnWheelUp, MouseX: x, MouseY: y}
}

// ScrollDown creates a wheel-down event
func ScrollDown(x, y int) Event {
	return Event{Type: EventMouse, MouseAction: MouseActionScroll, MouseBtn: MouseBtnWheelDown, MouseX: x, MouseY: y}
}

// Resize creates a resize event
func Resize(w, h int) Event {
	return Event{Type: EventResize, Width: w, Height: h}
}

// Paste creates a bracketed paste event
func Paste(text string) Event {
	return Event{Type: EventPaste, Text: text}
}

// Focus creates a focus gained/lost event
func Focus(gained bool) Event {
	if gained {
		return Event{Type: EventFocusGained}
	}
	return Event{Type: EventFocusLost}
}

// IsKey returns true for keyboard events
func (e Event) IsKey() bool {
	return e.Type == EventKey
}

// IsMouse returns true for mouse events
func (e Event) IsMouse() bool {
	return e.Type == EventMouse
}

// IsKeyPress returns true if the event is a press of the given special key
func (e Event) IsKeyPress(k Key) bool {
	return e.Type == EventKey && e.Key == k
}

// IsRune returns true if the event is the given printable character
// with no modifiers
func (e Event) IsRune(c rune) bool {
	return e.Type == EventKey && e.Key == KeyRune && e.Rune == c && e.Modifiers == ModNone
}

// IsCtrl returns true if the event is Ctrl plus the given character
func (e Event) IsCtrl(c rune) bool {
	return e.Type == EventKey && e.Key == KeyRune && e.Rune == c && e.Modifiers.Has(ModCtrl)
}

// String returns a short human-readable description, mainly for logs
// and test names
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		var prefix string
		if e.Modifiers.Has(ModCtrl) {
			prefix += "Ctrl+"
		}
		if e.Modifiers.Has(ModAlt) {
			prefix += "Alt+"
		}
		if e.Modifiers.Has(ModShift) {
			prefix += "Shift+"
		}
		if e.Modifiers.Has(ModMeta) {
			prefix += "Meta+"
		}
		if e.Key == KeyRune {
			return prefix + string(e.Rune)
		}
		return prefix + e.Key.String()
	case EventMouse:
		return e.MouseAction.String() + "(" + e.MouseBtn.String() + ")@" +
			strconv.Itoa(e.MouseX) + "," + strconv.Itoa(e.MouseY)
	case EventResize:
		return "Resize(" + strconv.Itoa(e.Width) + "x" + strconv.Itoa(e.Height) + ")"
	case EventFocusGained:
		return "FocusGained"
	case EventFocusLost:
		return "FocusLost"
	case EventPaste:
		return "Paste(" + strconv.Itoa(len(e.Text)) + " bytes)"
	default:
		return "Unknown"
	}
}
