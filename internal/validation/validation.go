// Package validation provides checks for user supplied identifiers.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StrID ensures that id does not contain leading or trailing white spaces
// ([unicode.IsSpace]) and only printable characters ([unicode.IsPrint]).
func StrID(id string) error {
	first, _ := utf8.DecodeRuneInString(id)
	last, _ := utf8.DecodeLastRuneInString(id)
	if id != "" && (unicode.IsSpace(first) || unicode.IsSpace(last)) {
		return errors.New("contains leading or trailing white spaces")
	}

	for _, r := range id {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("contains non-printable character: %+q", r)
		}
	}

	return nil
}

// Name validates project and axis names.
// In addition to the [StrID] checks, names must not be empty, "." or ".."
// and must not contain any of the runes in forbidden.
// Names are used as path elements of sink destinations.
func Name(name, forbidden string) error {
	if name == "" {
		return errors.New("can not be empty")
	}

	if name == "." || name == ".." {
		return fmt.Errorf("%q is not allowed as name", name)
	}

	if i := strings.IndexAny(name, forbidden); i != -1 {
		return fmt.Errorf("'%c' character not allowed in name", []rune(name[i:])[0])
	}

	return StrID(name)
}
