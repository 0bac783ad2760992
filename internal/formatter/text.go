package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/askdb/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	views := BuildView(s)
	if len(views) == 0 {
		_, err := fmt.Fprintln(f.writer, "No tables found")
		return err
	}

	for i, view := range views {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(view)
	}

	if len(s.Relationships) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "RELATIONSHIPS:")
		for _, rel := range s.Relationships {
			_, _ = fmt.Fprintf(f.writer, "  %s.%s → %s.%s\n", rel.FromTable, rel.FromColumn, rel.ToTable, rel.ToColumn)
		}
	}
	return nil
}

func (f *TextFormatter) formatTable(view TableView) {
	// Table header with primary key
	var pk []string
	for _, row := range view.Rows {
		if row.PK {
			pk = append(pk, row.Column)
		}
	}
	pkStr := ""
	if len(pk) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(pk, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", view.Table, pkStr)

	for _, row := range view.Rows {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatRow(row))
	}
}

func formatRow(row Row) string {
	parts := []string{row.Column + ":"}
	if row.Type != "" {
		parts = append(parts, row.Type)
	}
	if row.PK {
		parts = append(parts, "PK")
	}
	if row.FK {
		parts = append(parts, "FK → "+row.Reference)
	}
	return strings.Join(parts, " ")
}
