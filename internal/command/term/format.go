package term

import (
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the format in that timestamps are printed.
const TimeFormat = "2006.01.02-15:04:05-MST"

// DurationToStrSeconds formats duration as seconds with millisecond
// precision.
func DurationToStrSeconds(duration time.Duration) string {
	return fmt.Sprintf("%.3f", duration.Seconds())
}

// FirstLine returns the first line of s, if s has more lines "..." is
// appended.
func FirstLine(s string) string {
	line, _, more := strings.Cut(strings.TrimSpace(s), "\n")
	if more {
		return line + " ..."
	}

	return line
}
