package build

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the log of a build.
// Every line is written to the underlying writer, prefixed with the build
// name, and recorded. It is safe for concurrent use.
type Console struct {
	prefix string
	out    io.Writer

	mu      sync.Mutex
	lines   []string
	partial bytes.Buffer
}

// NewConsole returns a console that writes to out.
// out can be nil, lines are then only recorded.
func NewConsole(out io.Writer, prefix string) *Console {
	return &Console{out: out, prefix: prefix}
}

// Printf formats a message and writes it as one or more lines.
func (c *Console) Printf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	c.writeLines(strings.Split(strings.TrimSuffix(msg, "\n"), "\n"))
}

// Println writes the operands as one line, separated by spaces.
func (c *Console) Println(v ...any) {
	c.Printf("%s", fmt.Sprintln(v...))
}

// Write implements io.Writer. Incomplete lines are buffered until the next
// newline is written.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.partial.Write(p)

	var lines []string
	for {
		line, err := c.partial.ReadString('\n')
		if err != nil {
			// no newline, keep the rest for the next call
			c.partial.Reset()
			c.partial.WriteString(line)
			break
		}

		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
	c.mu.Unlock()

	c.writeLines(lines)

	return len(p), nil
}

func (c *Console) writeLines(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		c.lines = append(c.lines, l)

		if c.out != nil {
			fmt.Fprintf(c.out, "%s%s\n", c.prefix, l)
		}
	}
}

// Lines returns the lines that were written to the console.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.lines...)
}

// String returns all lines, joined by newlines.
func (c *Console) String() string {
	return strings.Join(c.Lines(), "\n")
}
