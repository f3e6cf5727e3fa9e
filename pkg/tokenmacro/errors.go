package tokenmacro

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedMacro is wrapped by ExpansionErrors for macro names that
// are neither registered nor a build environment variable.
var ErrUnrecognizedMacro = errors.New("unrecognized macro")

// ExpansionError is returned when a template can not be expanded.
type ExpansionError struct {
	// Macro is the name of the macro that failed, it is empty for syntax
	// errors.
	Macro string
	// Offset is the byte position of the failed reference in the template.
	Offset int
	Err    error
}

func (e *ExpansionError) Error() string {
	if e.Macro == "" {
		return fmt.Sprintf("invalid template at offset %d: %s", e.Offset, e.Err)
	}

	return fmt.Sprintf("expanding macro %s at offset %d failed: %s", e.Macro, e.Offset, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}
