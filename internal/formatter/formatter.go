// Package formatter renders a parsed schema for people and for LLM prompts.
//
// BuildView flattens a schema into per-table rows carrying primary-key and
// foreign-key markers; the text, markdown and JSON formatters write that view
// to an io.Writer, and MultiFileFormatter writes one file per table.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/askdb/internal/schema"
)

// Supported output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formatter writes a schema somewhere
type Formatter interface {
	Format(s *schema.Schema) error
}

// New returns the single-output formatter for the given format name
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'json')", format)
	}
}
