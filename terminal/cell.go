package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone       Attr = 0
	AttrBold       Attr = 1 << 0
	AttrDim        Attr = 1 << 1
	AttrItalic     Attr = 1 << 2
	AttrUnderline  Attr = 1 << 3
	AttrBlink      Attr = 1 << 4
	AttrReverse    Attr = 1 << 5
	AttrCrossedOut Attr = 1 << 6
)

// Has returns true if all bits of other are set
func (a Attr) Has(other Attr) bool {
	return a&other == other
}

// ColorKind distinguishes the three color representations
type ColorKind uint8

const (
	ColorKindDefault ColorKind = iota // Terminal default fg/bg
	ColorKindIndexed                  // 256-color palette index
	ColorKindRGB                      // 24-bit RGB
)

// Color is a serialisable terminal color: default, palette index, or RGB.
// The zero value is the terminal default color.
type Color struct {
	Kind  ColorKind `json:"kind"`
	Index uint8     `json:"index,omitempty"`
	R     uint8     `json:"r,omitempty"`
	G     uint8     `json:"g,omitempty"`
	B     uint8     `json:"b,omitempty"`
}

// ColorDefault is the terminal's default color
var ColorDefault = Color{}

// Indexed returns a 256-color palette color
func Indexed(i uint8) Color {
	return Color{Kind: ColorKindIndexed, Index: i}
}

// RGB returns a 24-bit color
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorKindRGB, R: r, G: g, B: b}
}

// IsDefault returns true for the terminal default color
func (c Color) IsDefault() bool {
	return c.Kind == ColorKindDefault
}

// Cell represents a single terminal cell.
// Symbol holds one grapheme cluster; an empty Symbol renders as a space.
// Equality over all fields except Frame drives frame diffing.
type Cell struct {
	Symbol string `json:"symbol"`
	Fg     Color  `json:"fg"`
	Bg     Color  `json:"bg"`
	Attrs  Attr   `json:"attrs"`

	// Frame is the frame number when this cell was last modified.
	// Not part of visual equality.
	Frame uint64 `json:"frame,omitempty"`
}

// NewCell returns an empty cell (space, default colors)
func NewCell() Cell {
	return Cell{Symbol: " "}
}

// Glyph returns the visible symbol, substituting a space when empty
func (c Cell) Glyph() string {
	if c.Symbol == "" {
		return " "
	}
	return c.Symbol
}

// SameStyle returns true if the two cells share fg, bg, and attrs
func (c Cell) SameStyle(other Cell) bool {
	return c.Fg == other.Fg && c.Bg == other.Bg && c.Attrs == other.Attrs
}

// VisualEqual compares glyph and style, ignoring the frame stamp
func (c Cell) VisualEqual(other Cell) bool {
	return c.Glyph() == other.Glyph() && c.SameStyle(other)
}

// Reset restores the cell to its empty state
func (c *Cell) Reset() {
	c.Symbol = " "
	c.Fg = ColorDefault
	c.Bg = ColorDefault
	c.Attrs = AttrNone
}

// IsEmpty returns true for a space with default styling
func (c Cell) IsEmpty() bool {
	return c.Glyph() == " " && c.Fg.IsDefault() && c.Bg.IsDefault() && c.Attrs == AttrNone
}
