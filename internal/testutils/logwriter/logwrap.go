// Package logwriter provides an io.Writer that mirrors command output to
// the test log.
package logwriter

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
)

// Writer writes everything to an underlying writer and every complete line
// additionally to t.Log.
type Writer struct {
	t  *testing.T
	w  io.Writer
	mu sync.Mutex

	partial bytes.Buffer
}

// New returns a Writer that writes to w and t.Log.
// Incomplete lines are logged when the test finishes.
func New(t *testing.T, w io.Writer) *Writer {
	lw := Writer{t: t, w: w}

	t.Cleanup(lw.flush)

	return &lw
}

func (l *Writer) Write(p []byte) (int, error) {
	l.t.Helper()

	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.w.Write(p)
	_, _ = l.partial.Write(p[:n])

	for {
		line, readErr := l.partial.ReadString('\n')
		if readErr != nil {
			// line is incomplete, keep it until the next write
			_, _ = l.partial.WriteString(line)
			break
		}

		l.t.Log(strings.TrimSuffix(line, "\n"))
	}

	return n, err
}

func (l *Writer) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.partial.Len() > 0 {
		l.t.Log(l.partial.String())
		l.partial.Reset()
	}
}
