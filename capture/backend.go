// Package capture implements a virtual terminal backend that records
// draws into an in-memory cell grid. It exists for deterministic
// testing: runtimes render into it and tests query the grid as plain
// text, ANSI, JSON, or structured snapshots.
package capture

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lixenwraith/tui/terminal"
)

// Position is a cell coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Backend is an in-memory terminal.Backend. The grid always holds
// exactly width*height cells. Out-of-bounds draws are silently
// dropped, matching real terminal clipping.
//
// Draws accumulate silently; Flush commits them as a frame, recording
// a snapshot when history is enabled and incrementing the frame
// counter.
type Backend struct {
	mu sync.RWMutex

	width  int
	height int
	cells  []terminal.Cell

	cursorX       int
	cursorY       int
	cursorVisible bool

	frame uint64

	historyCap int
	history    []Snapshot
}

// New creates a capture backend with a blank grid
func New(width, height int) *Backend {
	b := &Backend{width: width, height: height}
	b.reset()
	return b
}

// WithHistory creates a capture backend keeping up to cap committed
// frames; the oldest is evicted when full
func WithHistory(width, height, cap int) *Backend {
	b := New(width, height)
	b.historyCap = cap
	return b
}

func (b *Backend) reset() {
	b.cells = make([]terminal.Cell, b.width*b.height)
	for i := range b.cells {
		b.cells[i] = terminal.NewCell()
	}
}

// Draw applies cell updates. Cells are stamped with the number of the
// frame being built; the counter itself only moves on Flush.
func (b *Backend) Draw(updates []terminal.CellUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range updates {
		if u.X < 0 || u.X >= b.width || u.Y < 0 || u.Y >= b.height {
			continue
		}
		c := u.Cell
		c.Frame = b.frame + 1
		b.cells[u.Y*b.width+u.X] = c
	}
	return nil
}

// Flush commits the pending frame: bumps the frame counter and, when
// history is enabled, records a snapshot
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame++
	if b.historyCap > 0 {
		b.history = append(b.history, b.snapshotLocked())
		if len(b.history) > b.historyCap {
			b.history = b.history[1:]
		}
	}
	return nil
}

// HideCursor makes the cursor invisible
func (b *Backend) HideCursor() error {
	b.mu.Lock()
	b.cursorVisible = false
	b.mu.Unlock()
	return nil
}

// ShowCursor makes the cursor visible
func (b *Backend) ShowCursor() error {
	b.mu.Lock()
	b.cursorVisible = true
	b.mu.Unlock()
	return nil
}

// SetCursor positions the cursor, clamped to the grid
func (b *Backend) SetCursor(x, y int) error {
	b.mu.Lock()
	b.cursorX = clamp(x, 0, b.width-1)
	b.cursorY = clamp(y, 0, b.height-1)
	b.mu.Unlock()
	return nil
}

// Cursor returns the cursor position and visibility
func (b *Backend) Cursor() (x, y int, visible bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Clear blanks the whole grid
func (b *Backend) Clear() error {
	b.mu.Lock()
	b.reset()
	b.mu.Unlock()
	return nil
}

// ClearRegion blanks a cursor-relative part of the grid
func (b *Backend) ClearRegion(ct terminal.ClearType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.cursorY*b.width + b.cursorX
	total := b.width * b.height
	var start, end int
	switch ct {
	case terminal.ClearAfterCursor:
		start, end = cur, total
	case terminal.ClearBeforeCursor:
		start, end = 0, cur
	case terminal.ClearCurrentLine:
		start, end = b.cursorY*b.width, (b.cursorY+1)*b.width
	case terminal.ClearUntilNewline:
		start, end = cur, (b.cursorY+1)*b.width
	default:
		start, end = 0, total
	}
	for i := start; i < end; i++ {
		b.cells[i] = terminal.NewCell()
	}
	return nil
}

// Size returns the grid dimensions
func (b *Backend) Size() (int, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.width, b.height, nil
}

// WindowSize reports grid dimensions with synthetic 8x16 cell pixels
func (b *Backend) WindowSize() (terminal.WindowSize, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return terminal.WindowSize{
		Columns: b.width,
		Rows:    b.height,
		PixelW:  b.width * 8,
		PixelH:  b.height * 16,
	}, nil
}

// Resize changes the grid dimensions, blanking content and clamping
// the cursor
func (b *Backend) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("capture: invalid size %dx%d", width, height)
	}
	b.mu.Lock()
	b.width, b.height = width, height
	b.reset()
	b.cursorX = clamp(b.cursorX, 0, width-1)
	b.cursorY = clamp(b.cursorY, 0, height-1)
	b.mu.Unlock()
	return nil
}

// Frame returns the number of committed frames
func (b *Backend) Frame() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame
}

// Cell returns a copy of the cell at the position, or an empty cell
// when out of bounds
func (b *Backend) Cell(x, y int) terminal.Cell {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return terminal.NewCell()
	}
	return b.cells[y*b.width+x]
}

// RowContent returns the visible text of a row. Wide-rune
// continuation cells contribute nothing.
func (b *Backend) RowContent(y int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return rowContent(b.cells, b.width, y)
}

// ContentLines returns every row's text with trailing spaces trimmed
func (b *Backend) ContentLines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		lines[y] = strings.TrimRight(rowContent(b.cells, b.width, y), " ")
	}
	return lines
}

// String renders the grid as plain text, one line per row
func (b *Backend) String() string {
	return strings.Join(b.ContentLines(), "\n")
}

// ContainsText reports whether any row contains the substring
func (b *Backend) ContainsText(s string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for y := 0; y < b.height; y++ {
		if strings.Contains(rowContent(b.cells, b.width, y), s) {
			return true
		}
	}
	return false
}

// FindText returns the cell positions where the text starts, scanning
// rows top to bottom
func (b *Backend) FindText(s string) []Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return findText(b.cells, b.width, b.height, s)
}

// Snapshot returns an immutable deep copy of the current grid state
func (b *Backend) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

func (b *Backend) snapshotLocked() Snapshot {
	cells := make([]terminal.Cell, len(b.cells))
	copy(cells, b.cells)
	return Snapshot{
		Frame:         b.frame,
		Width:         b.width,
		Height:        b.height,
		Cells:         cells,
		CursorX:       b.cursorX,
		CursorY:       b.cursorY,
		CursorVisible: b.cursorVisible,
	}
}

// History returns the committed snapshots, oldest first
func (b *Backend) History() []Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Snapshot, len(b.history))
	copy(out, b.history)
	return out
}

// rowContent joins the glyphs of one row, skipping continuation cells
func rowContent(cells []terminal.Cell, width, y int) string {
	if y < 0 {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < width; x++ {
		idx := y*width + x
		if idx >= len(cells) {
			break
		}
		if cells[idx].Symbol == "" {
			continue
		}
		sb.WriteString(cells[idx].Symbol)
	}
	return sb.String()
}

// findText locates a substring in the grid, mapping rune positions
// back to cell columns
func findText(cells []terminal.Cell, width, height int, s string) []Position {
	needle := []rune(s)
	if len(needle) == 0 {
		return nil
	}
	var out []Position
	for y := 0; y < height; y++ {
		var runes []rune
		var cols []int
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if c.Symbol == "" {
				continue
			}
			for _, r := range c.Glyph() {
				runes = append(runes, r)
				cols = append(cols, x)
			}
		}
		for i := 0; i+len(needle) <= len(runes); i++ {
			match := true
			for j := range needle {
				if runes[i+j] != needle[j] {
					match = false
					break
				}
			}
			if match {
				out = append(out, Position{X: cols[i], Y: y})
			}
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
