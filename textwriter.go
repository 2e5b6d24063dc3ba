package marquee

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

type textWriter struct {
	mu  sync.Mutex
	m   *Marquee
	buf bytes.Buffer
}

// TextWriter returns io.WriteCloser which feeds marquee with lines written
// to it: every complete non blank line replaces text via UpdateText. Close
// flushes a trailing line without newline.
func (m *Marquee) TextWriter() io.WriteCloser {
	return &textWriter{m: m}
}

func (w *textWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		if err := w.update(string(w.buf.Next(i + 1))); err != nil {
			return len(p), err
		}
	}
}

func (w *textWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	line := w.buf.String()
	w.buf.Reset()
	return w.update(line)
}

func (w *textWriter) update(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return w.m.UpdateText(line)
}
