package sink

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/textmarquee/marquee/cwriter"
)

// Line renders window on one terminal line, addressed from the bottom.
type Line struct {
	w      *cwriter.Writer
	row    int
	indent string
}

// NewLine returns Line writing to w.
//
//	`row` line number counted up from the bottom terminal row
//
//	`indent` count of spaces printed before the window
func NewLine(w *cwriter.Writer, row, indent int) *Line {
	if row < 0 {
		row = 0
	}
	if indent < 0 {
		indent = 0
	}
	return &Line{
		w:      w,
		row:    row,
		indent: strings.Repeat(" ", indent),
	}
}

// Render clears the line and writes window into it, truncated to terminal
// width if it is known.
func (l *Line) Render(window string) error {
	s := l.indent + window
	if tw, _, err := l.w.GetTermSize(); err == nil && tw > 0 {
		s = runewidth.Truncate(s, tw, "")
	}
	return l.w.WriteLine(l.row, s)
}
