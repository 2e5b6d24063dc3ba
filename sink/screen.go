package sink

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen renders window into a row of tcell.Screen.
type Screen struct {
	screen tcell.Screen
	row    int
	col    int
	style  tcell.Style
}

// NewScreen returns Screen drawing at row and col of s. Negative row
// counts from the bottom, -1 being the last row.
func NewScreen(s tcell.Screen, row, col int, style tcell.Style) *Screen {
	return &Screen{
		screen: s,
		row:    row,
		col:    col,
		style:  style,
	}
}

// Render draws window and shows the screen. Window falling outside of
// the screen, for example after a resize, is skipped silently.
func (s *Screen) Render(window string) error {
	width, height := s.screen.Size()
	y := s.row
	if y < 0 {
		y += height
	}
	if y < 0 || y >= height {
		return nil
	}
	x := s.col
	for _, r := range window {
		if x >= width {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x >= 0 {
			s.screen.SetContent(x, y, r, nil, s.style)
		}
		x += w
	}
	s.screen.Show()
	return nil
}
