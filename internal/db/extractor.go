// Package db reads CREATE TABLE text out of live databases.
//
// Each dialect has a client that owns the connection and an extractor that
// returns the schema as DDL text, the same form a user would paste in. The
// text is then parsed like any other input and forwarded verbatim to the
// translator.
package db

import (
	"context"
	"strings"
)

// DDLExtractor returns the CREATE TABLE statements of a database.
// If tables is empty, all tables are extracted.
type DDLExtractor interface {
	ExtractDDL(ctx context.Context, tables []string) (string, error)
}

// joinStatements terminates each statement and separates them by a blank line
func joinStatements(statements []string) string {
	var b strings.Builder
	for i, stmt := range statements {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimRight(strings.TrimSpace(stmt), ";"))
		b.WriteString(";")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// selectTables keeps the requested tables in requested order, or all of them
// when none were requested.
func selectTables(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}
	present := make(map[string]bool, len(all))
	for _, name := range all {
		present[name] = true
	}
	var selected []string
	for _, name := range requested {
		if present[name] {
			selected = append(selected, name)
		}
	}
	return selected
}
