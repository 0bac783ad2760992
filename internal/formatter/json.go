package formatter

import (
	"encoding/json"
	"io"

	"github.com/tordrt/askdb/internal/schema"
)

// Document is the JSON representation of a parsed schema
type Document struct {
	Tables        []schema.Table        `json:"tables"`
	Relationships []schema.Relationship `json:"relationships"`
	View          []TableView           `json:"view"`
}

// JSONFormatter formats schema as indented JSON
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// NewDocument bundles the model and its view
func NewDocument(s *schema.Schema) Document {
	return Document{
		Tables:        s.Tables,
		Relationships: s.Relationships,
		View:          BuildView(s),
	}
}

// Format writes the schema, its relationships and the rendered view
func (f *JSONFormatter) Format(s *schema.Schema) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(s))
}
