// Package sink contains renderers for marquee windows.
//
// Each sink implements marquee.Renderer, that is a single method
//
//	Render(window string) error
//
// Sinks don't import marquee, so they can serve any producer of text lines.
package sink
