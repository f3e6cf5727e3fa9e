package publisher

import "fmt"

// ConfigurationError is returned by New when the configuration is invalid.
type ConfigurationError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IOError is returned when checking, opening, reading or decoding the
// description file failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s description file %s failed: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ExpansionError is returned when the host failed to expand tokens in the
// description file path or in its content.
type ExpansionError struct {
	// Target is "path" or "content".
	Target string
	Err    error
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("expanding tokens in description %s failed: %s", e.Target, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}
