package frame

import "github.com/mattn/go-runewidth"

// Truncate shortens a string to the given display width, appending an
// ellipsis when anything was cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads a string with spaces to the given display width
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft left-pads a string with spaces to the given display width
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// Width returns the display width of a string in cells
func Width(s string) int {
	return runewidth.StringWidth(s)
}
