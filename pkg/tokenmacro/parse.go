package tokenmacro

import (
	"errors"
	"fmt"
	"strings"
)

// segment is either a literal text or a macro reference of a template.
type segment struct {
	literal string

	macro  string
	args   Args
	offset int
}

func (s *segment) isMacro() bool {
	return s.macro != ""
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// braced names can additionally contain '.' and '-'
func isBracedNameChar(c byte) bool {
	return isNameChar(c) || c == '.' || c == '-'
}

// parse splits a template into literal and macro segments.
func parse(tmpl string) ([]segment, error) {
	var result []segment
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			result = append(result, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '$' || i+1 == len(tmpl) {
			lit.WriteByte(c)
			i++
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			lit.WriteByte('$')
			i += 2

		case next == '{':
			seg, end, err := parseBraced(tmpl, i)
			if err != nil {
				return nil, err
			}

			flushLiteral()
			result = append(result, seg)
			i = end

		case isNameStart(next):
			end := i + 1
			for end < len(tmpl) && isNameChar(tmpl[end]) {
				end++
			}

			flushLiteral()
			result = append(result, segment{macro: tmpl[i+1 : end], offset: i})
			i = end

		default:
			lit.WriteByte(c)
			i++
		}
	}

	flushLiteral()

	return result, nil
}

// parseBraced parses a "${NAME,key=value,...}" reference starting at
// tmpl[start]. It returns the segment and the offset after the closing
// brace.
func parseBraced(tmpl string, start int) (segment, int, error) {
	parseErr := func(pos int, msg string) error {
		return &ExpansionError{Offset: pos, Err: errors.New(msg)}
	}

	pos := start + 2
	nameStart := pos
	for pos < len(tmpl) && isBracedNameChar(tmpl[pos]) {
		pos++
	}

	if pos == len(tmpl) {
		return segment{}, 0, parseErr(start, "unterminated macro reference, missing '}'")
	}

	name := tmpl[nameStart:pos]
	if name == "" || !isNameStart(name[0]) {
		return segment{}, 0, parseErr(start, "invalid macro name")
	}

	seg := segment{macro: name, offset: start}

	for {
		pos = skipSpaces(tmpl, pos)
		if pos == len(tmpl) {
			return segment{}, 0, parseErr(start, "unterminated macro reference, missing '}'")
		}

		switch tmpl[pos] {
		case '}':
			return seg, pos + 1, nil

		case ',':
			key, val, end, err := parseArg(tmpl, pos+1)
			if err != nil {
				return segment{}, 0, parseErr(pos, fmt.Sprintf("macro %s: %s", name, err))
			}

			if seg.args == nil {
				seg.args = Args{}
			}

			if _, exists := seg.args[key]; exists {
				return segment{}, 0, parseErr(pos, fmt.Sprintf("macro %s: argument %q is specified multiple times", name, key))
			}

			seg.args[key] = val
			pos = end

		default:
			return segment{}, 0, parseErr(pos, fmt.Sprintf("macro %s: unexpected character %q", name, tmpl[pos]))
		}
	}
}

// parseArg parses "key=value" or "key="quoted value"".
func parseArg(tmpl string, pos int) (key, val string, end int, err error) {
	pos = skipSpaces(tmpl, pos)

	keyStart := pos
	for pos < len(tmpl) && isNameChar(tmpl[pos]) {
		pos++
	}
	key = tmpl[keyStart:pos]
	if key == "" {
		return "", "", 0, errors.New("argument name is missing")
	}

	pos = skipSpaces(tmpl, pos)
	if pos == len(tmpl) || tmpl[pos] != '=' {
		return "", "", 0, fmt.Errorf("argument %q has no value", key)
	}
	pos = skipSpaces(tmpl, pos+1)

	if pos < len(tmpl) && tmpl[pos] == '"' {
		var sb strings.Builder

		for pos++; pos < len(tmpl); pos++ {
			switch tmpl[pos] {
			case '\\':
				if pos+1 == len(tmpl) {
					return "", "", 0, fmt.Errorf("argument %q: unterminated string", key)
				}
				pos++
				sb.WriteByte(tmpl[pos])

			case '"':
				return key, sb.String(), pos + 1, nil

			default:
				sb.WriteByte(tmpl[pos])
			}
		}

		return "", "", 0, fmt.Errorf("argument %q: unterminated string", key)
	}

	valStart := pos
	for pos < len(tmpl) && tmpl[pos] != ',' && tmpl[pos] != '}' {
		pos++
	}

	return key, strings.TrimSpace(tmpl[valStart:pos]), pos, nil
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}

	return pos
}
