// Package charset resolves character encoding names and decodes text.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is the name of the encoding that is used when none is configured.
const Default = "UTF-8"

// ErrUnsupported is returned when an encoding name can not be resolved.
var ErrUnsupported = errors.New("unsupported charset")

// Charset is a resolved text encoding.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// Lookup resolves an encoding name.
// Names are looked up case-insensitively in the IANA registry first, then
// in the WHATWG label index, which accepts common aliases like "utf8" or
// "latin1".
func Lookup(name string) (*Charset, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrUnsupported)
	}

	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
		}
	}

	return &Charset{name: canonicalName(trimmed, enc), enc: enc}, nil
}

func canonicalName(name string, enc encoding.Encoding) string {
	if enc == unicode.UTF8 {
		return Default
	}

	if n, err := ianaindex.MIME.Name(enc); err == nil && n != "" {
		return n
	}

	if n, err := ianaindex.IANA.Name(enc); err == nil && n != "" {
		return n
	}

	if n, err := htmlindex.Name(enc); err == nil && n != "" {
		return n
	}

	return name
}

// Name returns the canonical name of the charset.
func (c *Charset) Name() string {
	return c.name
}

// String returns Name().
func (c *Charset) String() string {
	return c.name
}

// NewReader returns a reader that decodes r from the charset to UTF-8.
// Byte sequences that are invalid in the charset are replaced by
// utf8.RuneError.
func (c *Charset) NewReader(r io.Reader) io.Reader {
	return c.enc.NewDecoder().Reader(r)
}

// DecodeAll reads r until EOF and returns the decoded content.
func (c *Charset) DecodeAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(c.NewReader(r))
	if err != nil {
		return "", err
	}

	return string(b), nil
}
