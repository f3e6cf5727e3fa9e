// Package format writes rows of values in table or JSON format.
package format

// Formatter writes rows, the output is complete after Flush was called.
type Formatter interface {
	WriteRow(row ...any) error
	Flush() error
}
