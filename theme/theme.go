// Package theme defines the semantic color palette handed to views
// and overlays during rendering.
package theme

import "github.com/lixenwraith/tui/terminal"

// Theme maps semantic roles to colors. Views and overlays draw
// against roles, never raw colors, so a palette swap restyles the
// whole application.
type Theme struct {
	Bg      terminal.Color
	Fg      terminal.Color
	MutedFg terminal.Color

	Border  terminal.Color
	Title   terminal.Color
	Accent  terminal.Color
	FocusBg terminal.Color

	Selected terminal.Color
	Error    terminal.Color
	Warning  terminal.Color
	Success  terminal.Color

	OverlayBg     terminal.Color
	OverlayBorder terminal.Color
	HintFg        terminal.Color
}

// Default provides reasonable dark-terminal defaults
func Default() *Theme {
	return &Theme{
		Bg:            terminal.ColorDefault,
		Fg:            terminal.ColorDefault,
		MutedFg:       terminal.RGB(140, 140, 140),
		Border:        terminal.RGB(60, 80, 100),
		Title:         terminal.RGB(255, 255, 255),
		Accent:        terminal.RGB(80, 160, 220),
		FocusBg:       terminal.RGB(30, 35, 45),
		Selected:      terminal.RGB(80, 200, 80),
		Error:         terminal.RGB(255, 80, 80),
		Warning:       terminal.RGB(220, 180, 80),
		Success:       terminal.RGB(80, 200, 80),
		OverlayBg:     terminal.RGB(20, 20, 30),
		OverlayBorder: terminal.RGB(100, 120, 150),
		HintFg:        terminal.RGB(100, 180, 200),
	}
}
