package terminal

// CellUpdate pairs a cell with its target position
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// ClearType selects which region of the screen to clear
type ClearType uint8

const (
	ClearAll ClearType = iota
	ClearAfterCursor
	ClearBeforeCursor
	ClearCurrentLine
	ClearUntilNewline
)

// WindowSize reports terminal dimensions in cells and pixels
type WindowSize struct {
	Columns, Rows  int
	PixelW, PixelH int
}

// Backend is the drawing contract every terminal implementation satisfies.
// It mirrors the standard backend abstraction of cell-based drawing
// libraries, so widget code renders identically against a physical
// terminal and the virtual capture backend.
//
// Implementations buffer writes; nothing is guaranteed visible until
// Flush returns.
type Backend interface {
	// Draw applies a batch of cell updates. Out-of-bounds updates are
	// silently ignored.
	Draw(updates []CellUpdate) error

	// HideCursor makes the cursor invisible
	HideCursor() error

	// ShowCursor makes the cursor visible
	ShowCursor() error

	// SetCursor positions the cursor (0-indexed)
	SetCursor(x, y int) error

	// Clear resets every cell to its empty state
	Clear() error

	// ClearRegion resets the selected region relative to the cursor
	ClearRegion(ct ClearType) error

	// Size returns current dimensions in cells
	Size() (width, height int, err error)

	// WindowSize returns dimensions in cells and pixels
	WindowSize() (WindowSize, error)

	// Flush makes all buffered updates visible and completes the frame
	Flush() error
}
