/*
Package marquee scrolls text through a fixed width window, the way a ticker
or a terminal status line does.

Text is padded and tiled into a buffer at least as wide as the window. On
every timer firing the buffer is rotated and the visible window is handed to
a Renderer. Direction, scroll step and interval can be changed while
scrolling, and text can be replaced either abruptly with SetText or
seamlessly with UpdateText.

	m, err := marquee.New("Hello World!",
		marquee.WithViewSize(40),
		marquee.WithUpdateInterval(100*time.Millisecond),
	)
	if err != nil {
		return err
	}
	m.Start()
	defer m.Stop()

A marquee is not bound to a terminal: any Renderer will do, see the sink
package for ready made ones.
*/
package marquee
