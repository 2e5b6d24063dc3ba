package marquee

import "fmt"

// Renderer is the sink receiving the visible window on every whole tick.
// It is called from the engine's timer goroutine and is expected to return
// promptly. Render may call back into the engine, for example to stop it.
type Renderer interface {
	Render(window string) error
}

// RendererFunc is an adapter for Renderer interface.
type RendererFunc func(window string) error

func (f RendererFunc) Render(window string) error {
	return f(window)
}

// RenderError reports a renderer that returned an error or panicked.
// Engine stops after such failure.
type RenderError struct {
	// Tick is whole tick count of the failed frame.
	Tick int64
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render at tick %d: %v", e.Tick, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
