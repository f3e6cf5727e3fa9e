// Package table formats rows as ASCII table with space separated columns.
package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter converts rows into an ASCII table.
type Formatter struct {
	tabWriter *tabwriter.Writer
}

// New returns a Formatter, if headers is not empty it's written as first
// row to the output.
func New(headers []string, out io.Writer) *Formatter {
	f := Formatter{
		tabWriter: tabwriter.NewWriter(out, 0, 0, 4, ' ', 0),
	}

	if len(headers) > 0 {
		_, _ = fmt.Fprintln(f.tabWriter, strings.Join(headers, "\t"))
	}

	return &f
}

// WriteRow writes a row to the tabwriter buffer, nil values are written as
// empty columns.
func (f *Formatter) WriteRow(row ...any) error {
	cols := make([]string, len(row))

	for i, col := range row {
		if col != nil {
			cols[i] = fmt.Sprint(col)
		}
	}

	_, err := fmt.Fprintln(f.tabWriter, strings.Join(cols, "\t"))
	return err
}

// Flush flushes the tabwriter buffer, it must be called after all rows were
// written, otherwise the column width might be incorrect.
func (f *Formatter) Flush() error {
	return f.tabWriter.Flush()
}
