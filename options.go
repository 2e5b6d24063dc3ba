package marquee

import (
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// default view size
	dViewSize = 20
	// default padding count
	dPadding = 5
	// default pad separator
	dPadSep = " "
	// default update interval
	dInterval = 200 * time.Millisecond
	// default scroll step
	dStep = 1.0
)

type config struct {
	viewSize  int
	padCount  int
	padSep    string
	direction Direction
	interval  time.Duration
	step      float64
	renderer  Renderer
	output    io.Writer
	debugOut  io.Writer
}

// Option is a function option which changes the default behavior of
// marquee, if passed to marquee.New(...Option).
type Option func(*config)

// WithViewSize sets width of the visible window, default 20.
func WithViewSize(n int) Option {
	return func(c *config) {
		c.viewSize = n
	}
}

// WithPadding sets how many times pad separator is repeated after the
// text, default 5.
func WithPadding(count int) Option {
	return func(c *config) {
		c.padCount = count
	}
}

// WithPadSeparator sets padding unit, default single space.
func WithPadSeparator(sep string) Option {
	return func(c *config) {
		c.padSep = sep
	}
}

// WithDirection sets initial scroll direction, default Forward.
func WithDirection(d Direction) Option {
	return func(c *config) {
		c.direction = d
	}
}

// WithUpdateInterval overrides default 200ms timer period.
func WithUpdateInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithScrollStep sets ticks advanced per timer firing, default 1.0.
// Values below 1 slow scrolling down: the window moves only when
// accumulated ticks cross a whole number.
func WithScrollStep(step float64) Option {
	return func(c *config) {
		c.step = step
	}
}

// WithRenderer sets the sink receiving every visible window. If not set,
// window is written to the bottom line of output, see WithOutput.
func WithRenderer(r Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithOutput overrides default os.Stdout output of the default renderer.
// Setting it to nil means discard.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}
		c.output = w
	}
}

// WithDebugOutput sets debug output, renderer failures are reported there.
func WithDebugOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}
		c.debugOut = w
	}
}

func (c *config) validate() error {
	if err := validateViewSize(c.viewSize); err != nil {
		return err
	}
	if c.padCount < 0 {
		return fmt.Errorf("%w: negative padding %d", ErrInvalidConfiguration, c.padCount)
	}
	if !c.direction.valid() {
		return fmt.Errorf("%w: unknown direction %s", ErrInvalidConfiguration, c.direction)
	}
	if err := validateInterval(c.interval); err != nil {
		return err
	}
	return validateScrollStep(c.step)
}

func validateViewSize(n int) error {
	if n <= 0 || n > maxViewSize {
		return fmt.Errorf("%w: view size %d", ErrInvalidConfiguration, n)
	}
	return nil
}

func validateInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: update interval %s", ErrInvalidConfiguration, d)
	}
	return nil
}

func validateScrollStep(step float64) error {
	if math.IsNaN(step) || step <= 0 || step > maxScrollStep {
		return fmt.Errorf("%w: scroll step %v", ErrInvalidConfiguration, step)
	}
	return nil
}
