package frame

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/tui/terminal"
)

// Style bundles the visual fields applied by drawing helpers
type Style struct {
	Fg    terminal.Color
	Bg    terminal.Color
	Attrs terminal.Attr
}

// Region is a rectangular drawing area within a frame. Coordinates
// are relative to the region origin; writes outside the region are
// silently dropped.
type Region struct {
	frame *Frame
	x, y  int // absolute origin in the frame
	w, h  int
}

// Sub returns a nested region relative to this one, clipped to its
// bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.w {
		w = r.w - x
	}
	if y+h > r.h {
		h = r.h - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Region{frame: r.frame, x: r.x + x, y: r.y + y, w: w, h: h}
}

// Inset returns a region shrunk by n cells on all sides
func (r Region) Inset(n int) Region {
	return r.Sub(n, n, r.w-2*n, r.h-2*n)
}

// W returns region width
func (r Region) W() int {
	return r.w
}

// H returns region height
func (r Region) H() int {
	return r.h
}

// Bounds returns the absolute rectangle this region covers
func (r Region) Bounds() Rect {
	return NewRect(r.x, r.y, r.w, r.h)
}

// SetCell writes a single cell with bounds checking
func (r Region) SetCell(x, y int, symbol string, st Style) {
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return
	}
	f := r.frame
	absX, absY := r.x+x, r.y+y
	if uint(absX) >= uint(f.width) {
		return
	}
	idx := absY*f.width + absX
	if uint(idx) >= uint(len(f.cells)) {
		return
	}
	f.cells[idx] = terminal.Cell{
		Symbol: symbol,
		Fg:     st.Fg,
		Bg:     st.Bg,
		Attrs:  st.Attrs,
		Frame:  f.seq,
	}
}

// SetRune writes a single rune cell
func (r Region) SetRune(x, y int, ch rune, st Style) {
	r.SetCell(x, y, string(ch), st)
}

// Text draws a string left to right, clipped to the region. Wide
// runes occupy two cells; the continuation cell is blanked with the
// same style. Returns the x position after the last drawn cell.
func (r Region) Text(x, y int, s string, st Style) int {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x >= r.w {
			break
		}
		if x+w > r.w {
			// Wide rune would be cut in half
			r.SetRune(x, y, ' ', st)
			x = r.w
			break
		}
		r.SetRune(x, y, ch, st)
		if w == 2 {
			r.SetCell(x+1, y, "", st)
		}
		x += w
	}
	return x
}

// TextCentered draws a string centered horizontally on the row
func (r Region) TextCentered(y int, s string, st Style) {
	w := runewidth.StringWidth(s)
	x := (r.w - w) / 2
	if x < 0 {
		x = 0
	}
	r.Text(x, y, s, st)
}

// Fill paints the whole region with a symbol and style
func (r Region) Fill(symbol string, st Style) {
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			r.SetCell(x, y, symbol, st)
		}
	}
}

// Clear fills the region with default-styled spaces
func (r Region) Clear() {
	r.Fill(" ", Style{})
}

// Box draws a single-line border on the region's outer edge
func (r Region) Box(st Style) {
	if r.w < 2 || r.h < 2 {
		return
	}
	for x := 1; x < r.w-1; x++ {
		r.SetRune(x, 0, '─', st)
		r.SetRune(x, r.h-1, '─', st)
	}
	for y := 1; y < r.h-1; y++ {
		r.SetRune(0, y, '│', st)
		r.SetRune(r.w-1, y, '│', st)
	}
	r.SetRune(0, 0, '┌', st)
	r.SetRune(r.w-1, 0, '┐', st)
	r.SetRune(0, r.h-1, '└', st)
	r.SetRune(r.w-1, r.h-1, '┘', st)
}

// BoxTitled draws a border with a title on the top edge
func (r Region) BoxTitled(title string, border, titleStyle Style) {
	r.Box(border)
	if title == "" || r.w < 4 {
		return
	}
	maxW := r.w - 4
	if runewidth.StringWidth(title) > maxW {
		title = runewidth.Truncate(title, maxW, "…")
	}
	r.Text(2, 0, title, titleStyle)
}
