package cwriter

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"sync"
)

const (
	escOpen   = "\x1b["
	clearLine = "\x1b[2K"
)

// ErrNotTTY not a TeleTYpewriter error.
var ErrNotTTY = errors.New("not a terminal")

// Writer rewrites a single line of the terminal in place. It is safe to
// share one Writer among several goroutines, each owning its own line.
type Writer struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	out      io.Writer
	fd       int
	terminal bool
	termSize func(int) (int, int, error)
}

// New returns a new Writer with defaults.
func New(out io.Writer) *Writer {
	w := &Writer{
		out: out,
		termSize: func(_ int) (int, int, error) {
			return -1, -1, ErrNotTTY
		},
	}
	if f, ok := out.(*os.File); ok {
		w.fd = int(f.Fd())
		if IsTerminal(w.fd) {
			w.terminal = true
			w.termSize = func(fd int) (int, int, error) {
				return GetSize(fd)
			}
		}
	}
	return w
}

// IsTerminal reports whether underlying output is a terminal.
func (w *Writer) IsTerminal() bool {
	return w.terminal
}

// GetTermSize returns WxH of underlying terminal.
func (w *Writer) GetTermSize() (width, height int, err error) {
	return w.termSize(w.fd)
}

// WriteLine clears a line and writes s into it. On a terminal the line is
// addressed by row counted from the bottom edge, zero being the last row,
// and the cursor is parked at the line start afterwards. Anywhere else the
// current line is rewritten after a carriage return.
func (w *Writer) WriteLine(fromBottom int, s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Reset()
	if w.terminal {
		_, height, err := w.termSize(w.fd)
		if err != nil {
			return err
		}
		row := height - fromBottom
		if row < 1 {
			row = 1
		}
		w.cursorTo(row)
		w.buf.WriteString(clearLine)
		w.buf.WriteString(s)
		w.cursorTo(row)
	} else {
		w.buf.WriteByte('\r')
		w.buf.WriteString(clearLine)
		w.buf.WriteString(s)
	}
	_, err := w.buf.WriteTo(w.out)
	return err
}

// cursorTo moves cursor to column 1 of 1-based row.
func (w *Writer) cursorTo(row int) {
	b := w.buf.AvailableBuffer()
	b = append(b, escOpen...)
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ";1H"...)
	w.buf.Write(b)
}
