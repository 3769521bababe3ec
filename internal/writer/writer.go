// Package writer implements dump listing output functionality.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/ihexgoedit/internal/dump"
	"github.com/retroenv/ihexgoedit/internal/region"
)

// Options of the writer.
type Options struct {
	ShowRegions bool // annotate each row with its memory region
	ShowASCII   bool // append the ASCII sidebar to each row
}

// Writer writes dump rows as an address-ordered listing.
type Writer struct {
	regions region.Table
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(regions region.Table, writer io.Writer, options Options) *Writer {
	return &Writer{
		regions: regions,
		options: options,
		writer:  writer,
	}
}

// WriteRows writes one listing line per dump row.
func (w *Writer) WriteRows(rows []dump.Row) error {
	labelWidth := 0
	if w.options.ShowRegions {
		labelWidth = w.regions.MaxLabelWidth()
	}

	for _, row := range rows {
		line := FormatRow(row, w.regions, labelWidth, w.options)
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing dump row: %w", err)
		}
	}
	return nil
}

// FormatRow renders one dump row as a single line: the 8 digit base
// address, optionally the region label padded to labelWidth, the hex
// words and optionally the ASCII sidebar.
func FormatRow(row dump.Row, regions region.Table, labelWidth int, options Options) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%08X", row.Base)
	if options.ShowRegions {
		fmt.Fprintf(&sb, "  %-*s", labelWidth, regions.Classify(row.Base))
	}
	for _, word := range row.Words {
		sb.WriteString("  ")
		sb.WriteString(word)
	}
	if options.ShowASCII {
		sb.WriteString("  |")
		sb.WriteString(row.ASCII)
		sb.WriteString("|")
	}

	return sb.String()
}
