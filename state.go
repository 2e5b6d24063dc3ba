package marquee

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
)

// maxScrollStep keeps ceil(step) representable as a rune count.
const maxScrollStep = math.MaxInt32

// maxViewSize bounds the tiled buffer allocation.
const maxViewSize = 1 << 20

type state struct {
	text      string
	padSep    string
	padCount  int
	viewSize  int
	direction Direction
	step      float64
	interval  time.Duration

	// buf always holds at least viewSize runes
	buf []rune
	// ticks is fractional scroll progress
	ticks float64
	// pending counts runes left over from the previous text, which have to
	// scroll out before the new tiles take over
	pending int
}

func newState(text string, c *config) (*state, error) {
	s := &state{
		padSep:    c.padSep,
		padCount:  c.padCount,
		viewSize:  c.viewSize,
		direction: c.direction,
		step:      c.step,
		interval:  c.interval,
	}
	if err := s.setText(text); err != nil {
		return nil, err
	}
	return s, nil
}

// tile repeats text followed by padding enough times to cover viewSize.
func (s *state) tile(text string) ([]rune, error) {
	unit := []rune(text + strings.Repeat(s.padSep, s.padCount))
	if len(unit) == 0 {
		return nil, fmt.Errorf("%w: empty text with zero padding", ErrInvalidConfiguration)
	}
	n := (s.viewSize + len(unit) - 1) / len(unit)
	buf := make([]rune, 0, n*len(unit))
	for i := 0; i < n; i++ {
		buf = append(buf, unit...)
	}
	return buf, nil
}

func (s *state) setText(text string) error {
	text = stripansi.Strip(text)
	buf, err := s.tile(text)
	if err != nil {
		return err
	}
	s.text = text
	s.buf = buf
	s.ticks = 0
	s.pending = 0
	return nil
}

func (s *state) updateText(text string) error {
	text = stripansi.Strip(text)
	tiles, err := s.tile(text)
	if err != nil {
		return err
	}
	retained := s.span(0, s.viewSize)
	buf := make([]rune, 0, len(retained)+len(tiles))
	if s.direction == Reverse {
		buf = append(append(buf, tiles...), retained...)
	} else {
		buf = append(append(buf, retained...), tiles...)
	}
	s.text = text
	s.buf = buf
	s.pending = len(retained)
	return nil
}

// advance accumulates one scroll step. It reports false if the step didn't
// cross a whole tick, in which case the buffer is left as is.
func (s *state) advance() (string, bool) {
	prior := math.Floor(s.ticks)
	s.ticks += s.step
	if math.Floor(s.ticks) == prior {
		return "", false
	}
	n := int(math.Ceil(s.step))
	if s.pending >= n {
		s.drop(n)
		s.pending -= n
	} else {
		rest := n - s.pending
		s.drop(s.pending)
		s.pending = 0
		s.rotate(rest)
	}
	return s.window(), true
}

func (s *state) window() string {
	return string(s.span(0, s.viewSize))
}

func (s *state) wholeTicks() int64 {
	return int64(math.Floor(s.ticks))
}

// rotate moves n runes from the leading edge to the trailing edge.
func (s *state) rotate(n int) {
	if len(s.buf) == 0 {
		return
	}
	n %= len(s.buf)
	if n == 0 {
		return
	}
	head := append([]rune(nil), s.span(0, n)...)
	s.drop(n)
	s.push(head)
}

// span returns runes in [start, end) counted from the leading edge. In
// Reverse direction the leading edge is the tail of buf, returned runes
// keep their natural order.
func (s *state) span(start, end int) []rune {
	n := len(s.buf)
	start, end = clamp(start, n), clamp(end, n)
	if start >= end {
		return nil
	}
	if s.direction == Reverse {
		return s.buf[n-end : n-start]
	}
	return s.buf[start:end]
}

// drop removes n runes from the leading edge.
func (s *state) drop(n int) {
	n = clamp(n, len(s.buf))
	if s.direction == Reverse {
		s.buf = s.buf[:len(s.buf)-n]
	} else {
		s.buf = s.buf[n:]
	}
}

// push appends runes at the trailing edge.
func (s *state) push(rr []rune) {
	if s.direction == Reverse {
		buf := make([]rune, 0, len(rr)+len(s.buf))
		s.buf = append(append(buf, rr...), s.buf...)
		return
	}
	s.buf = append(s.buf, rr...)
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
