package capture

import (
	"encoding/json"
	"strings"

	"github.com/lixenwraith/tui/terminal"
)

// Snapshot is an immutable copy of the grid at one point in time
type Snapshot struct {
	Frame         uint64          `json:"frame"`
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	Cells         []terminal.Cell `json:"cells"`
	CursorX       int             `json:"cursor_x"`
	CursorY       int             `json:"cursor_y"`
	CursorVisible bool            `json:"cursor_visible"`
}

// RowContent returns the visible text of a row
func (s Snapshot) RowContent(y int) string {
	if y < 0 || y >= s.Height {
		return ""
	}
	return rowContent(s.Cells, s.Width, y)
}

// Plain renders the snapshot as text, trailing spaces trimmed per row
func (s Snapshot) Plain() string {
	lines := make([]string, s.Height)
	for y := 0; y < s.Height; y++ {
		lines[y] = strings.TrimRight(rowContent(s.Cells, s.Width, y), " ")
	}
	return strings.Join(lines, "\n")
}

// ANSI renders the snapshot with escape sequences preserving style
func (s Snapshot) ANSI() string {
	return renderANSI(s.Cells, s.Width, s.Height)
}

// ContainsText reports whether any row contains the substring
func (s Snapshot) ContainsText(text string) bool {
	for y := 0; y < s.Height; y++ {
		if strings.Contains(s.RowContent(y), text) {
			return true
		}
	}
	return false
}

// FindText returns cell positions where the text starts
func (s Snapshot) FindText(text string) []Position {
	return findText(s.Cells, s.Width, s.Height, text)
}

// CellAt returns the cell at the position, or an empty cell when out
// of bounds
func (s Snapshot) CellAt(x, y int) terminal.Cell {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return terminal.NewCell()
	}
	return s.Cells[y*s.Width+x]
}

// JSON serialises the snapshot for external tooling
func (s Snapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// ANSI renders the current grid with escape sequences
func (b *Backend) ANSI() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return renderANSI(b.cells, b.width, b.height)
}

// JSON serialises the current grid state
func (b *Backend) JSON() ([]byte, error) {
	return b.Snapshot().JSON()
}
