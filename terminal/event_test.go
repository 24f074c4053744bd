package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestEventBuilders(t *testing.T) {
	e := Char('x')
	require.Equal(t, EventKey, e.Type)
	require.Equal(t, KeyRune, e.Key)
	require.Equal(t, 'x', e.Rune)
	require.True(t, e.IsRune('x'))
	require.False(t, e.IsRune('y'))

	e = Ctrl('c')
	require.True(t, e.IsCtrl('c'))
	require.True(t, e.Modifiers.Has(ModCtrl))

	e = Alt('f')
	require.True(t, e.Modifiers.Has(ModAlt))
	require.Equal(t, 'f', e.Rune)

	e = KeyPress(KeyEnter)
	require.True(t, e.IsKeyPress(KeyEnter))
	require.False(t, e.IsKeyPress(KeyEscape))

	e = Resize(120, 40)
	require.Equal(t, EventResize, e.Type)
	require.Equal(t, 120, e.Width)
	require.Equal(t, 40, e.Height)

	e = Click(3, 7)
	require.Equal(t, EventMouse, e.Type)
	require.Equal(t, MouseActionPress, e.MouseAction)
	require.Equal(t, MouseBtnLeft, e.MouseBtn)
	require.Equal(t, 3, e.MouseX)
	require.Equal(t, 7, e.MouseY)

	e = Paste("hello\nworld")
	require.Equal(t, EventPaste, e.Type)
	require.Equal(t, "hello\nworld", e.Text)

	require.Equal(t, EventFocusGained, Focus(true).Type)
	require.Equal(t, EventFocusLost, Focus(false).Type)
}

func TestTcellRoundTrip(t *testing.T) {
	cases := []Event{
		Char('a'),
		Char('é'),
		Char('A'),
		Ctrl('c'),
		Ctrl('a'),
		Ctrl('z'),
		Alt('x'),
		KeyPress(KeyEnter),
		KeyPress(KeyEscape),
		KeyPress(KeyTab),
		KeyPress(KeyBackspace),
		KeyPress(KeyDelete),
		KeyPress(KeyUp),
		KeyPress(KeyDown),
		KeyPress(KeyLeft),
		KeyPress(KeyRight),
		KeyPress(KeyHome),
		KeyPress(KeyEnd),
		KeyPress(KeyPageUp),
		KeyPress(KeyPageDown),
		KeyPress(KeyF1),
		KeyPress(KeyF5),
		KeyPress(KeyF10),
		KeyPress(KeyF12),
		KeyPressWith(KeyUp, ModShift|ModCtrl),
		Click(0, 0),
		Click(15, 22),
		ClickButton(4, 4, MouseBtnRight),
		ClickButton(1, 2, MouseBtnMiddle),
		MouseMove(9, 9),
		ScrollUp(5, 5),
		ScrollDown(6, 6),
		Resize(80, 24),
		Resize(1, 1),
		Focus(true),
		Focus(false),
	}
	for _, want := range cases {
		t.Run(want.String(), func(t *testing.T) {
			tev := ToTcell(want)
			require.NotNil(t, tev)
			got, ok := FromTcell(tev)
			require.True(t, ok)
			require.Equal(t, want, got)
		})
	}
}

func TestFromTcellCtrlKeys(t *testing.T) {
	// Ctrl+letter arrives as a KeyCtrlA..KeyCtrlZ constant
	got, ok := FromTcell(tcell.NewEventKey(tcell.KeyCtrlC, 'c', tcell.ModCtrl))
	require.True(t, ok)
	require.True(t, got.IsCtrl('c'))

	// the terminal input parser posts these with an empty rune; the
	// letter must come from the key constant
	got, ok = FromTcell(tcell.NewEventKey(tcell.KeyCtrlA+tcell.Key('l'-'a'), 0, tcell.ModCtrl))
	require.True(t, ok)
	require.True(t, got.IsCtrl('l'))

	// a rune-typed ctrl press is normalised by tcell itself
	got, ok = FromTcell(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl))
	require.True(t, ok)
	require.True(t, got.IsCtrl('c'))

	// Enter, Tab and Backspace keep their key identity
	got, ok = FromTcell(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	require.True(t, ok)
	require.True(t, got.IsKeyPress(KeyEnter))

	got, ok = FromTcell(tcell.NewEventKey(tcell.KeyTab, 0, 0))
	require.True(t, ok)
	require.True(t, got.IsKeyPress(KeyTab))
}

func TestShiftedRuneDropsModifier(t *testing.T) {
	// tcell strips ModShift from rune keys: the case is already in
	// the rune itself
	got, ok := FromTcell(ToTcell(CharWith('A', ModShift)))
	require.True(t, ok)
	require.Equal(t, Char('A'), got)
}

func TestFromTcellLegacyBackspace(t *testing.T) {
	got, ok := FromTcell(tcell.NewEventKey(tcell.KeyBackspace, 0, 0))
	require.True(t, ok)
	require.True(t, got.IsKeyPress(KeyBackspace))
}

func TestFromTcellMouseButtons(t *testing.T) {
	ev := tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModShift)
	got, ok := FromTcell(ev)
	require.True(t, ok)
	require.Equal(t, MouseActionPress, got.MouseAction)
	require.Equal(t, MouseBtnLeft, got.MouseBtn)
	require.True(t, got.Modifiers.Has(ModShift))

	ev = tcell.NewEventMouse(0, 0, tcell.ButtonNone, 0)
	got, ok = FromTcell(ev)
	require.True(t, ok)
	require.Equal(t, MouseActionMove, got.MouseAction)

	ev = tcell.NewEventMouse(2, 3, tcell.WheelUp, 0)
	got, ok = FromTcell(ev)
	require.True(t, ok)
	require.Equal(t, MouseActionScroll, got.MouseAction)
	require.Equal(t, MouseBtnWheelUp, got.MouseBtn)
}

func TestToTcellPasteHasNoEquivalent(t *testing.T) {
	require.Nil(t, ToTcell(Paste("abc")))
}

func TestKeyString(t *testing.T) {
	require.Equal(t, "Enter", KeyEnter.String())
	require.Equal(t, "F1", KeyF1.String())
	require.Equal(t, "F10", KeyF10.String())
	require.Equal(t, "F12", KeyF12.String())
	require.Equal(t, "Escape", KeyEscape.String())
}

func TestColorConversion(t *testing.T) {
	require.Equal(t, tcell.ColorDefault, ColorToTcell(ColorDefault))
	require.Equal(t, ColorDefault, ColorFromTcell(tcell.ColorDefault))

	for _, i := range []uint8{0, 1, 15, 16, 128, 255} {
		c := Indexed(i)
		require.Equal(t, c, ColorFromTcell(ColorToTcell(c)), "palette index %d", i)
	}

	rgb := RGB(10, 200, 33)
	require.Equal(t, rgb, ColorFromTcell(ColorToTcell(rgb)))
}
