package runtime

import "github.com/lixenwraith/tui/terminal"

// EventQueue is a FIFO of pending input events. Builder methods push
// common event shapes and chain, which keeps test scripts compact:
//
//	q.TypeStr("hello").Enter().Ctrl('c')
//
// Not safe for concurrent use; the runtime owns it.
type EventQueue struct {
	events []terminal.Event
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends an event
func (q *EventQueue) Push(ev terminal.Event) *EventQueue {
	q.events = append(q.events, ev)
	return q
}

// PushFront prepends an event, jumping the queue
func (q *EventQueue) PushFront(ev terminal.Event) *EventQueue {
	q.events = append([]terminal.Event{ev}, q.events...)
	return q
}

// Pop removes and returns the oldest event
func (q *EventQueue) Pop() (terminal.Event, bool) {
	if len(q.events) == 0 {
		return terminal.Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Peek returns the oldest event without removing it
func (q *EventQueue) Peek() (terminal.Event, bool) {
	if len(q.events) == 0 {
		return terminal.Event{}, false
	}
	return q.events[0], true
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Clear drops all queued events
func (q *EventQueue) Clear() {
	q.events = q.events[:0]
}

// Drain removes and returns every queued event in order
func (q *EventQueue) Drain() []terminal.Event {
	out := q.events
	q.events = nil
	return out
}

// TypeStr pushes one key press per rune
func (q *EventQueue) TypeStr(s string) *EventQueue {
	for _, c := range s {
		q.Push(terminal.Char(c))
	}
	return q
}

// Char pushes a single character press
func (q *EventQueue) Char(c rune) *EventQueue {
	return q.Push(terminal.Char(c))
}

// Key pushes a special key press
func (q *EventQueue) Key(k terminal.Key) *EventQueue {
	return q.Push(terminal.KeyPress(k))
}

// Ctrl pushes a Ctrl+key press
func (q *EventQueue) Ctrl(c rune) *EventQueue {
	return q.Push(terminal.Ctrl(c))
}

// Alt pushes an Alt+key press
func (q *EventQueue) Alt(c rune) *EventQueue {
	return q.Push(terminal.Alt(c))
}

// Enter pushes an Enter press
func (q *EventQueue) Enter() *EventQueue {
	return q.Key(terminal.KeyEnter)
}

// Escape pushes an Escape press
func (q *EventQueue) Escape() *EventQueue {
	return q.Key(terminal.KeyEscape)
}

// Tab pushes a Tab press
func (q *EventQueue) Tab() *EventQueue {
	return q.Key(terminal.KeyTab)
}

// Click pushes a left press and release at the position
func (q *EventQueue) Click(x, y int) *EventQueue {
	q.Push(terminal.Click(x, y))
	return q.Push(terminal.MouseUp(x, y))
}

// DoubleClick pushes two click sequences at the position
func (q *EventQueue) DoubleClick(x, y int) *EventQueue {
	return q.Click(x, y).Click(x, y)
}

// Drag pushes a full drag gesture: move to start, press, drag to the
// end position, release
func (q *EventQueue) Drag(fromX, fromY, toX, toY int) *EventQueue {
	q.Push(terminal.MouseMove(fromX, fromY))
	q.Push(terminal.Click(fromX, fromY))
	q.Push(terminal.MouseDrag(toX, toY, terminal.MouseBtnLeft))
	return q.Push(terminal.MouseUp(toX, toY))
}

// ResizeTo pushes a resize event
func (q *EventQueue) ResizeTo(w, h int) *EventQueue {
	return q.Push(terminal.Resize(w, h))
}

// PasteText pushes a bracketed paste event
func (q *EventQueue) PasteText(s string) *EventQueue {
	return q.Push(terminal.Paste(s))
}
