package capture

import (
	"strconv"
	"strings"

	"github.com/lixenwraith/tui/terminal"
)

// renderANSI emits the grid as ANSI-styled text. An SGR sequence is
// written only when the style changes from the previous cell; every
// row ends with a reset so lines are self-contained.
func renderANSI(cells []terminal.Cell, width, height int) string {
	var sb strings.Builder
	for y := 0; y < height; y++ {
		var cur terminal.Cell
		styled := false
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if c.Symbol == "" {
				continue
			}
			if !styled || !c.SameStyle(cur) {
				sb.WriteString(sgr(c))
				cur = c
				styled = true
			}
			sb.WriteString(c.Glyph())
		}
		if styled {
			sb.WriteString("\x1b[0m")
		}
		if y < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// sgr builds the full SGR sequence for a cell's style
func sgr(c terminal.Cell) string {
	params := []string{"0"}
	if c.Attrs.Has(terminal.AttrBold) {
		params = append(params, "1")
	}
	if c.Attrs.Has(terminal.AttrDim) {
		params = append(params, "2")
	}
	if c.Attrs.Has(terminal.AttrItalic) {
		params = append(params, "3")
	}
	if c.Attrs.Has(terminal.AttrUnderline) {
		params = append(params, "4")
	}
	if c.Attrs.Has(terminal.AttrBlink) {
		params = append(params, "5")
	}
	if c.Attrs.Has(terminal.AttrReverse) {
		params = append(params, "7")
	}
	if c.Attrs.Has(terminal.AttrCrossedOut) {
		params = append(params, "9")
	}
	params = append(params, colorParams(c.Fg, false)...)
	params = append(params, colorParams(c.Bg, true)...)
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func colorParams(c terminal.Color, background bool) []string {
	base := "38"
	if background {
		base = "48"
	}
	switch c.Kind {
	case terminal.ColorKindIndexed:
		return []string{base, "5", strconv.Itoa(int(c.Index))}
	case terminal.ColorKindRGB:
		return []string{base, "2",
			strconv.Itoa(int(c.R)),
			strconv.Itoa(int(c.G)),
			strconv.Itoa(int(c.B))}
	default:
		return nil
	}
}
