// Package frame provides the per-draw rendering context: a cell
// buffer with clipped region drawing, cursor control, and an optional
// annotation sink.
package frame

import (
	"github.com/lixenwraith/tui/annotation"
	"github.com/lixenwraith/tui/terminal"
)

// Rect is a rectangle in cell coordinates
type Rect = annotation.Rect

// NewRect creates a rectangle
func NewRect(x, y, w, h int) Rect {
	return annotation.NewRect(x, y, w, h)
}

// Frame is the drawing context handed to views for one render pass.
// Views draw through Region; the runtime owns the buffer and diffs it
// against the previous frame.
type Frame struct {
	width  int
	height int
	cells  []terminal.Cell
	seq    uint64

	cursorX       int
	cursorY       int
	cursorVisible bool

	annotations *annotation.Registry
}

// New creates a frame with an empty cell buffer
func New(width, height int) *Frame {
	f := &Frame{width: width, height: height}
	f.cells = make([]terminal.Cell, width*height)
	f.clear()
	return f
}

func (f *Frame) clear() {
	for i := range f.cells {
		f.cells[i] = terminal.NewCell()
		f.cells[i].Frame = f.seq
	}
	f.cursorX, f.cursorY = 0, 0
	f.cursorVisible = false
}

// Begin resets the frame for a new render pass and bumps the frame
// sequence used to stamp modified cells
func (f *Frame) Begin() {
	f.seq++
	f.clear()
	if f.annotations != nil {
		f.annotations.Clear()
	}
}

// Resize replaces the buffer with a fresh one of the new dimensions
func (f *Frame) Resize(width, height int) {
	f.width, f.height = width, height
	f.cells = make([]terminal.Cell, width*height)
	f.clear()
}

// Width returns the buffer width in cells
func (f *Frame) Width() int {
	return f.width
}

// Height returns the buffer height in cells
func (f *Frame) Height() int {
	return f.height
}

// Seq returns the current frame sequence number
func (f *Frame) Seq() uint64 {
	return f.seq
}

// Bounds returns the full-frame rectangle
func (f *Frame) Bounds() Rect {
	return NewRect(0, 0, f.width, f.height)
}

// Cells exposes the backing cell slice in row-major order
func (f *Frame) Cells() []terminal.Cell {
	return f.cells
}

// CellAt returns a copy of the cell at the position, or an empty cell
// when out of bounds
func (f *Frame) CellAt(x, y int) terminal.Cell {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return terminal.NewCell()
	}
	return f.cells[y*f.width+x]
}

// Region returns a drawing region covering the whole frame
func (f *Frame) Region() Region {
	return Region{frame: f, x: 0, y: 0, w: f.width, h: f.height}
}

// SubRegion returns a clipped drawing region over the given rectangle
func (f *Frame) SubRegion(r Rect) Region {
	return f.Region().Sub(r.X, r.Y, r.W, r.H)
}

// SetCursor positions the cursor and makes it visible
func (f *Frame) SetCursor(x, y int) {
	f.cursorX, f.cursorY = x, y
	f.cursorVisible = true
}

// HideCursor makes the cursor invisible
func (f *Frame) HideCursor() {
	f.cursorVisible = false
}

// Cursor returns cursor position and visibility
func (f *Frame) Cursor() (x, y int, visible bool) {
	return f.cursorX, f.cursorY, f.cursorVisible
}

// SetAnnotations attaches a registry that Annotate writes into.
// Nil detaches; Annotate is then a no-op.
func (f *Frame) SetAnnotations(reg *annotation.Registry) {
	f.annotations = reg
}

// Annotations returns the attached registry, if any
func (f *Frame) Annotations() *annotation.Registry {
	return f.annotations
}

// Annotate records a semantic region when a registry is attached
func (f *Frame) Annotate(r Rect, a annotation.Annotation) {
	if f.annotations != nil {
		f.annotations.Add(r, a)
	}
}
