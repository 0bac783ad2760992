package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/askdb/internal/schema"
)

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if f.OutputFormat != FormatText && f.OutputFormat != FormatMarkdown {
		return fmt.Errorf("invalid multi-file format: %s (must be 'text' or 'markdown')", f.OutputFormat)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	views := BuildView(s)

	if err := f.writeOverview(s, views); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, view := range views {
		if err := f.writeTableFile(view, s); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", view.Table, err)
		}
	}

	return nil
}

// writeOverview writes the overview file listing tables alphabetically
func (f *MultiFileFormatter) writeOverview(s *schema.Schema, views []TableView) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	names := make([]string, 0, len(views))
	for _, view := range views {
		names = append(names, view.Table)
	}
	sort.Strings(names)

	if f.OutputFormat == FormatMarkdown {
		_, _ = fmt.Fprintf(file, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(file, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(file, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())
	}

	for _, name := range names {
		targets := outgoingTargets(s, name)
		line := name
		if f.OutputFormat == FormatMarkdown {
			line = fmt.Sprintf("- **%s**", name)
		}
		if len(targets) > 0 {
			line += fmt.Sprintf(" (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(file, line)
	}

	return nil
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(view TableView, s *schema.Schema) error {
	file, err := os.Create(filepath.Join(f.OutputDir, tableFileName(view.Table)+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		NewMarkdownFormatter(file).FormatTable(view)
	} else {
		NewTextFormatter(file).formatTable(view)
	}

	incoming := findIncomingRelationships(view.Table, s)
	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(file)
		if f.OutputFormat == FormatMarkdown {
			_, _ = fmt.Fprintf(file, "#### Referenced by\n\n")
		} else {
			_, _ = fmt.Fprintln(file, "  REFERENCED BY:")
		}
		for _, rel := range incoming {
			prefix := "    "
			if f.OutputFormat == FormatMarkdown {
				prefix = "- "
			}
			_, _ = fmt.Fprintf(file, "%s%s.%s → %s\n", prefix, rel.FromTable, rel.FromColumn, rel.ToColumn)
		}
	}

	return nil
}

// findIncomingRelationships finds all relationships pointing to this table
func findIncomingRelationships(tableName string, s *schema.Schema) []schema.Relationship {
	var incoming []schema.Relationship
	for _, rel := range s.Relationships {
		if rel.ToTable == tableName {
			incoming = append(incoming, rel)
		}
	}
	return incoming
}

// outgoingTargets lists the distinct tables referenced from tableName
func outgoingTargets(s *schema.Schema, tableName string) []string {
	seen := make(map[string]bool)
	var targets []string
	for _, rel := range s.Relationships {
		if rel.FromTable == tableName && !seen[rel.ToTable] {
			seen[rel.ToTable] = true
			targets = append(targets, rel.ToTable)
		}
	}
	return targets
}

// tableFileName makes a table name safe to use as a file name
func tableFileName(name string) string {
	if name == "" {
		return "_unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}
