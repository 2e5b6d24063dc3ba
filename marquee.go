package marquee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/textmarquee/marquee/cwriter"
	"github.com/textmarquee/marquee/sink"
)

// ErrInvalidConfiguration is returned, wrapped with details, whenever a
// constructor option or setter receives a value marquee can't scroll with.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Marquee scrolls text through a fixed width window at timed cadence.
// All methods are safe for concurrent use, including calls made from
// within Renderer.Render.
type Marquee struct {
	// mu guards everything below
	mu sync.Mutex
	// renderMu serializes advance+render across timer generations
	renderMu sync.Mutex

	s        *state
	ctx      context.Context
	renderer Renderer
	debugOut io.Writer

	running bool
	gen     uint64
	quit    chan struct{}
	err     error

	cadence    ewma.MovingAverage
	cadenceSet bool
	lastFire   time.Time
	now        func() time.Time
}

// New creates stopped Marquee for text. Call Start to begin scrolling.
func New(text string, options ...Option) (*Marquee, error) {
	return NewWithContext(context.Background(), text, options...)
}

// NewWithContext is like New, but once ctx is done marquee stops and
// can't be started again.
func NewWithContext(ctx context.Context, text string, options ...Option) (*Marquee, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &config{
		viewSize: dViewSize,
		padCount: dPadding,
		padSep:   dPadSep,
		interval: dInterval,
		step:     dStep,
		output:   os.Stdout,
		debugOut: io.Discard,
	}

	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	s, err := newState(text, c)
	if err != nil {
		return nil, err
	}

	if c.renderer == nil {
		c.renderer = sink.NewLine(cwriter.New(c.output), 0, 0)
	}

	m := &Marquee{
		s:        s,
		ctx:      ctx,
		renderer: c.renderer,
		debugOut: c.debugOut,
		cadence:  ewma.NewMovingAverage(),
		now:      time.Now,
	}
	return m, nil
}

// Start begins firing at update interval. If marquee is already running,
// its timer is restarted. Tick progress is kept, so Start after Stop
// resumes where scrolling left off.
func (m *Marquee) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start()
}

// Stop cancels the timer. It is no-op if marquee isn't running. A render
// already in progress completes normally.
func (m *Marquee) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop()
}

// Running reports whether timer is active.
func (m *Marquee) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SetInterval changes timer period and (re)starts the timer immediately,
// regardless of whether marquee was running.
func (m *Marquee) SetInterval(d time.Duration) error {
	if err := validateInterval(d); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop()
	m.s.interval = d
	m.cadenceSet = false
	m.start()
	return nil
}

// Interval returns timer period.
func (m *Marquee) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.interval
}

// Ticks returns whole ticks elapsed since construction or last SetText.
func (m *Marquee) Ticks() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.wholeTicks()
}

// SetText replaces text and restarts scrolling from its beginning.
// Tick count is reset to zero.
func (m *Marquee) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.setText(text)
}

// UpdateText replaces text without a visible jump: the current window
// scrolls out first, then the new text scrolls in. Tick count is kept.
func (m *Marquee) UpdateText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.updateText(text)
}

// Text returns current text without padding.
func (m *Marquee) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.text
}

// Direction returns scroll direction.
func (m *Marquee) Direction() Direction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.direction
}

// SetDirection changes scroll direction starting from the next tick. The
// buffer isn't rewritten, so the window may jump if text isn't symmetric.
func (m *Marquee) SetDirection(d Direction) error {
	if !d.valid() {
		return fmt.Errorf("%w: unknown direction %s", ErrInvalidConfiguration, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.direction = d
	return nil
}

// ScrollStep returns ticks advanced per timer firing.
func (m *Marquee) ScrollStep() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.step
}

// SetScrollStep changes ticks advanced per timer firing, effective from
// the next firing.
func (m *Marquee) SetScrollStep(step float64) error {
	if err := validateScrollStep(step); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.step = step
	return nil
}

// Window returns currently visible window.
func (m *Marquee) Window() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.window()
}

// Err returns renderer failure which stopped marquee, if any. It is
// cleared by Start.
func (m *Marquee) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Cadence returns moving average of observed time between timer firings.
// It is zero until at least two firings happened since the last
// SetInterval.
func (m *Marquee) Cadence() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cadenceSet {
		return 0
	}
	return time.Duration(m.cadence.Value())
}

func (m *Marquee) start() {
	if m.ctx.Err() != nil {
		return
	}
	m.stop()
	m.gen++
	m.running = true
	m.err = nil
	m.lastFire = time.Time{}
	m.quit = make(chan struct{})
	go m.serve(m.gen, m.s.interval, m.quit)
}

func (m *Marquee) stop() {
	if !m.running {
		return
	}
	m.running = false
	close(m.quit)
	m.quit = nil
}

func (m *Marquee) serve(gen uint64, d time.Duration, quit <-chan struct{}) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.fire(gen)
		case <-quit:
			return
		case <-m.ctx.Done():
			m.mu.Lock()
			if m.gen == gen {
				m.stop()
			}
			m.mu.Unlock()
			return
		}
	}
}

func (m *Marquee) fire(gen uint64) {
	m.renderMu.Lock()
	defer m.renderMu.Unlock()

	m.mu.Lock()
	if !m.running || m.gen != gen {
		// lost the race with Stop
		m.mu.Unlock()
		return
	}
	m.observe(m.now())
	window, ok := m.s.advance()
	tick := m.s.wholeTicks()
	m.mu.Unlock()

	if !ok {
		return
	}

	if err := m.render(window); err != nil {
		err = &RenderError{Tick: tick, Err: err}
		fmt.Fprintf(m.debugOut, "%s %s %v\n", "[marquee]", time.Now(), err)
		m.mu.Lock()
		m.err = err
		if m.gen == gen {
			m.stop()
		}
		m.mu.Unlock()
	}
}

func (m *Marquee) render(window string) (err error) {
	defer func() {
		// recovering if external renderer panics
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return m.renderer.Render(window)
}

func (m *Marquee) observe(now time.Time) {
	if !m.lastFire.IsZero() {
		d := float64(now.Sub(m.lastFire))
		if m.cadenceSet {
			m.cadence.Add(d)
		} else {
			m.cadence.Set(d)
			m.cadenceSet = true
		}
	}
	m.lastFire = now
}
