package cfg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// WriteOption changes how ToFile writes the configuration.
type WriteOption func(*writeSettings)

type writeSettings struct {
	overwrite bool
	commented bool
}

// ToFileOptOverwrite replaces an existing file. Without it ToFile fails
// with an error wrapping os.ErrExist.
func ToFileOptOverwrite() WriteOption {
	return func(s *writeSettings) { s.overwrite = true }
}

// ToFileOptCommented writes every setting as comment, the file then
// documents the available settings without activating them.
func ToFileOptCommented() WriteOption {
	return func(s *writeSettings) { s.commented = true }
}

// ToFile writes the configuration in TOML format to path.
func (c *Config) ToFile(path string, opts ...WriteOption) error {
	var settings writeSettings
	for _, opt := range opts {
		opt(&settings)
	}

	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(true)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding configuration failed: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if settings.overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o640)
	if err != nil {
		return err
	}

	var r io.Reader = &buf
	if settings.commented {
		r = commentOut(&buf)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s failed: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s failed: %w", path, err)
	}

	return nil
}

// commentOut prefixes every setting in the TOML document with "# ".
// Documentation comments and empty lines are kept as they are.
func commentOut(in io.Reader) io.Reader {
	var out bytes.Buffer

	s := bufio.NewScanner(in)
	for s.Scan() {
		line := s.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out.WriteString(line + "\n")
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out.WriteString(indent + "# " + trimmed + "\n")
	}

	// the input is an in-memory buffer, scanning can not fail
	return &out
}
