package fs

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchGlob reports whether name matches the shell pattern.
// Besides the filepath.Match syntax, '**' and '{a,b}' alternatives are
// supported. '/' is treated as separator.
func MatchGlob(pattern, name string) (bool, error) {
	matched, err := doublestar.Match(pattern, name)
	if err != nil {
		return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return matched, nil
}

// ValidGlob returns an error if pattern is not a valid MatchGlob pattern.
func ValidGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid pattern %q", pattern)
	}

	return nil
}
