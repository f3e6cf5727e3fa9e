// Package jsonformat formats rows as JSON array of objects.
package jsonformat

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter collects rows and writes them as JSON on Flush.
type Formatter struct {
	fieldNames []string
	data       []map[string]any
	w          io.Writer
}

// New returns a Formatter, fieldNames are the keys of the values passed
// to WriteRow.
func New(fieldNames []string, w io.Writer) *Formatter {
	return &Formatter{
		fieldNames: fieldNames,
		data:       []map[string]any{},
		w:          w,
	}
}

// WriteRow adds a new entry.
// Vals must be in the same order as the fieldNames that were passed to New.
func (f *Formatter) WriteRow(vals ...any) error {
	if len(vals) != len(f.fieldNames) {
		return fmt.Errorf("got %d values, having %d field names, expecting the same amount", len(vals), len(f.fieldNames))
	}

	entry := make(map[string]any, len(vals))
	for i, v := range vals {
		entry[f.fieldNames[i]] = v
	}

	f.data = append(f.data, entry)

	return nil
}

// Flush writes the JSON encoding to the io.Writer.
// On success the collected entries are discarded.
func (f *Formatter) Flush() error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(f.data); err != nil {
		return err
	}

	f.data = f.data[:0]
	return nil
}
