package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/askdb/internal/schema"
)

const checkMark = "✓"

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format, one table block per table
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	views := BuildView(s)
	if len(views) == 0 {
		_, err := fmt.Fprintln(f.writer, "No schema available")
		return err
	}

	for i, view := range views {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		f.FormatTable(view)
	}
	return nil
}

// FormatTable writes a single table block (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(view TableView) {
	_, _ = fmt.Fprintf(f.writer, "### Table: %s\n\n", view.Table)
	_, _ = fmt.Fprintln(f.writer, "| Column | Type | PK | FK | References |")
	_, _ = fmt.Fprintln(f.writer, "|---|---|---|---|---|")

	for _, row := range view.Rows {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | %s | %s | %s |\n",
			escapeCell(row.Column),
			escapeCell(row.Type),
			mark(row.PK),
			mark(row.FK),
			escapeCell(row.Reference))
	}
}

func mark(b bool) string {
	if b {
		return checkMark
	}
	return ""
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
