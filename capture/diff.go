package capture

import "github.com/lixenwraith/tui/terminal"

// CellChange records one cell that differs between two frames
type CellChange struct {
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Before terminal.Cell `json:"before"`
	After  terminal.Cell `json:"after"`
}

// FrameDiff describes what changed between two frames
type FrameDiff struct {
	Changed     []CellChange `json:"changed,omitempty"`
	Resized     bool         `json:"resized,omitempty"`
	CursorMoved bool         `json:"cursor_moved,omitempty"`
}

// Empty reports whether nothing changed
func (d FrameDiff) Empty() bool {
	return len(d.Changed) == 0 && !d.Resized && !d.CursorMoved
}

// DiffFrom compares the current grid against an earlier snapshot.
// When the dimensions differ only the resize flag is meaningful.
func (b *Backend) DiffFrom(prev Snapshot) FrameDiff {
	return b.Snapshot().DiffFrom(prev)
}

// DiffFrom compares this snapshot against an earlier one
func (s Snapshot) DiffFrom(prev Snapshot) FrameDiff {
	var d FrameDiff
	if s.Width != prev.Width || s.Height != prev.Height {
		d.Resized = true
		return d
	}
	if s.CursorX != prev.CursorX || s.CursorY != prev.CursorY ||
		s.CursorVisible != prev.CursorVisible {
		d.CursorMoved = true
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			before := prev.Cells[y*s.Width+x]
			after := s.Cells[y*s.Width+x]
			if !after.VisualEqual(before) {
				d.Changed = append(d.Changed, CellChange{X: x, Y: y, Before: before, After: after})
			}
		}
	}
	return d
}
