// Package report formats sweep rows for output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/weiihann/kmsweep/sweep"
)

// Formats lists the accepted output format names.
func Formats() []string {
	return []string{"csv", "markdown", "json"}
}

// NewWriter returns the row writer for the named format.
func NewWriter(format string, w io.Writer) (sweep.RowWriter, error) {
	switch format {
	case "csv", "":
		return NewCSVWriter(w), nil
	case "markdown":
		return &MarkdownWriter{w: w}, nil
	case "json":
		return &JSONWriter{w: w}, nil
	default:
		return nil, errors.Newf("unknown format %q", format)
	}
}

// CSVWriter writes each row as soon as it is complete: every value
// followed by a comma, then a line break. There is no header.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSVWriter on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteRow writes one line for row.
func (c *CSVWriter) WriteRow(row sweep.Row) error {
	var b strings.Builder
	for _, v := range row.Best {
		b.WriteString(FormatFloat(v))
		b.WriteByte(',')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(c.w, b.String())

	return err
}

// Close is a no-op; rows are already written.
func (c *CSVWriter) Close() error {
	return nil
}

// MarkdownWriter collects rows and renders a table on Close.
type MarkdownWriter struct {
	w    io.Writer
	rows []sweep.Row
}

// WriteRow buffers row.
func (m *MarkdownWriter) WriteRow(row sweep.Row) error {
	m.rows = append(m.rows, row)

	return nil
}

// Close writes the table. Point counts are taken from the first row.
func (m *MarkdownWriter) Close() error {
	if len(m.rows) == 0 {
		return errors.New("no results to report")
	}

	points := m.rows[0].Points

	// Header.
	fmt.Fprint(m.w, "| Clusters |")
	for _, p := range points {
		fmt.Fprintf(m.w, " %d |", p)
	}
	fmt.Fprintln(m.w)

	fmt.Fprint(m.w, "|----------|")
	for range points {
		fmt.Fprint(m.w, "--------|")
	}
	fmt.Fprintln(m.w)

	for _, r := range m.rows {
		fmt.Fprintf(m.w, "| %d |", r.Clusters)
		for _, v := range r.Best {
			fmt.Fprintf(m.w, " %s |", formatSeconds(v))
		}
		fmt.Fprintln(m.w)
	}

	return nil
}

// JSONWriter collects rows and writes them as a JSON array on Close.
type JSONWriter struct {
	w    io.Writer
	rows []sweep.Row
}

// WriteRow buffers row.
func (j *JSONWriter) WriteRow(row sweep.Row) error {
	j.rows = append(j.rows, row)

	return nil
}

// Close writes the buffered rows.
func (j *JSONWriter) Close() error {
	rows := j.rows
	if rows == nil {
		rows = []sweep.Row{}
	}

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

// FormatFloat renders v in its shortest round-trip form, keeping a ".0"
// on integral values and switching to exponent notation for very small
// or very large magnitudes.
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

func formatSeconds(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}

	return fmt.Sprintf("%.2fs", s)
}
