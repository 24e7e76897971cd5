// Package output provides coverage report formatters.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/lileiting/goatools/internal/coverage"
)

// TableWriter writes coverage records as a plain-text table for console
// display. Rows are written in the order records are passed in.
type TableWriter struct {
	w *bufio.Writer
}

// NewTableWriter creates a new coverage table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{
		w: bufio.NewWriter(w),
	}
}

// WriteHeader writes the header line.
func (tw *TableWriter) WriteHeader() error {
	_, err := fmt.Fprintf(tw.w, "%8s %s\n", "#organism", "GO terms / annotated genes / protein-coding coverage")
	return err
}

// Write writes a single coverage record.
func (tw *TableWriter) Write(rec *coverage.Record) error {
	_, err := fmt.Fprintf(tw.w, "%8d terms=%s covered=%s %.0f%% coverage of %s protein-coding genes\n",
		rec.Taxid,
		humanize.Comma(int64(rec.NumTerms)),
		humanize.Comma(int64(rec.NumCovered)),
		rec.CoveragePct,
		humanize.Comma(int64(rec.NumTotal)))
	return err
}

// WriteAll writes the header followed by all records in input order.
func (tw *TableWriter) WriteAll(records []*coverage.Record) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, rec := range records {
		if err := tw.Write(rec); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}
