// Package ddl extracts a schema model from free-form SQL DDL text.
//
// The input is tokenized, split into statements, and every CREATE TABLE
// statement is reduced to a schema.Table: its header gives the table name and
// its parenthesized definition list is split on top-level commas into column
// definitions, PRIMARY KEY constraints and FOREIGN KEY constraints. Other
// statement kinds are ignored.
//
// Irregular input is handled according to the parser Mode. In Lenient mode
// (the default) malformed statements and items degrade to partial tables and
// are reported as Diagnostics alongside the model. In Strict mode any
// diagnostic rejects the whole parse with a *StrictError. Text that cannot be
// tokenized at all fails in both modes with an error wrapping ErrUnparseable.
package ddl

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tordrt/askdb/internal/schema"
)

// Mode selects how irregular statements and items are handled
type Mode int

const (
	// Lenient keeps best-effort partial results and reports diagnostics
	Lenient Mode = iota
	// Strict rejects the parse when any diagnostic is produced
	Strict
)

// String returns the configuration name of the mode
func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// ParseMode converts a configuration value into a Mode. Empty means Lenient.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("invalid parse mode: %s (must be 'lenient' or 'strict')", s)
	}
}

// Diagnostic describes one irregularity found while parsing
type Diagnostic struct {
	// Source names the input file when several inputs are parsed together
	Source    string `json:"source,omitempty"`
	Statement int    `json:"statement"`
	Table     string `json:"table,omitempty"`
	Item      string `json:"item,omitempty"`
	Message   string `json:"message"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Source != "" {
		b.WriteString(d.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "statement %d", d.Statement+1)
	if d.Table != "" {
		fmt.Fprintf(&b, " (table %s)", d.Table)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Item != "" {
		fmt.Fprintf(&b, ": %q", d.Item)
	}
	return b.String()
}

// StrictError is returned in Strict mode when the input produced diagnostics
type StrictError struct {
	Diagnostics []Diagnostic
}

func (e *StrictError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("schema rejected in strict mode: %s", strings.Join(msgs, "; "))
}

// Result is the outcome of a successful parse
type Result struct {
	Schema      *schema.Schema `json:"schema"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
}

// Option configures a Parser
type Option func(*Parser)

// WithMode sets the parse mode
func WithMode(m Mode) Option {
	return func(p *Parser) { p.mode = m }
}

// WithLogger sets the logger used to report lenient diagnostics
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// Parser turns DDL text into a schema model. A Parser holds no per-parse
// state and may be used from multiple goroutines.
type Parser struct {
	mode   Mode
	logger zerolog.Logger
}

// NewParser creates a new parser, Lenient unless configured otherwise
func NewParser(opts ...Option) *Parser {
	p := &Parser{mode: Lenient, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the configured parse mode
func (p *Parser) Mode() Mode {
	return p.mode
}

// Parse builds a schema model from DDL text
func (p *Parser) Parse(text string) (*Result, error) {
	statements, err := SplitStatements(text)
	if err != nil {
		return nil, err
	}

	b := &builder{schema: &schema.Schema{}}
	for _, stmt := range statements {
		if !stmt.IsCreateTable() {
			continue
		}
		b.addStatement(stmt)
	}

	if p.mode == Strict && len(b.diagnostics) > 0 {
		return nil, &StrictError{Diagnostics: b.diagnostics}
	}
	for _, d := range b.diagnostics {
		p.logger.Debug().
			Int("statement", d.Statement).
			Str("table", d.Table).
			Str("item", d.Item).
			Msg(d.Message)
	}

	if b.schema.Tables == nil {
		b.schema.Tables = []schema.Table{}
	}
	if b.schema.Relationships == nil {
		b.schema.Relationships = []schema.Relationship{}
	}
	return &Result{Schema: b.schema, Diagnostics: b.diagnostics}, nil
}

// Parse builds a schema model from DDL text with a Lenient parser
func Parse(text string) (*schema.Schema, error) {
	res, err := NewParser().Parse(text)
	if err != nil {
		return nil, err
	}
	return res.Schema, nil
}

// builder accumulates tables and relationships for one parse
type builder struct {
	schema      *schema.Schema
	diagnostics []Diagnostic
}

func (b *builder) diagnose(stmt Statement, table, item, msg string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Statement: stmt.Index,
		Table:     table,
		Item:      item,
		Message:   msg,
	})
}

func (b *builder) addStatement(stmt Statement) {
	name, next := stmt.TableName()
	table := schema.Table{
		Name:        name,
		Columns:     []schema.Column{},
		PrimaryKeys: []string{},
		ForeignKeys: []schema.ForeignKeyRef{},
	}
	if name == "" {
		b.diagnose(stmt, "", "", "CREATE TABLE without a table name")
	}

	items, found, balanced := stmt.DefinitionItems(next)
	switch {
	case !found:
		b.diagnose(stmt, name, "", "CREATE TABLE without a column list")
	case !balanced:
		b.diagnose(stmt, name, "", "unmatched parenthesis in column list")
	}

	for _, item := range items {
		text := joinTokens(stmt.src, item)
		def, err := classify(stmt.src, item)
		if err != nil {
			b.diagnose(stmt, name, text, err.Error())
			continue
		}
		if def.warning != "" {
			b.diagnose(stmt, name, text, def.warning)
		}

		switch def.kind {
		case itemPrimaryKey:
			for _, col := range def.primaryKey {
				table.AddPrimaryKey(col)
			}
		case itemForeignKey:
			b.addForeignKey(stmt, &table, text, def.foreignKey)
		case itemColumn:
			table.Columns = append(table.Columns, def.column)
			if def.column.IsPrimary {
				table.AddPrimaryKey(def.column.Name)
			}
			if def.foreignKey != nil {
				b.addForeignKey(stmt, &table, text, def.foreignKey)
			}
		}
	}

	b.schema.Tables = append(b.schema.Tables, table)
}

// addForeignKey pairs local column i with reference column i, reusing the
// last reference column when there are fewer reference than local columns.
// Each pairing is recorded on the table and as a schema relationship.
func (b *builder) addForeignKey(stmt Statement, table *schema.Table, text string, fk *foreignKey) {
	if len(fk.refColumns) != len(fk.columns) {
		b.diagnose(stmt, table.Name, text, fmt.Sprintf(
			"foreign key has %d local and %d referenced columns", len(fk.columns), len(fk.refColumns)))
	}

	for i, col := range fk.columns {
		ref := fk.refColumns[len(fk.refColumns)-1]
		if i < len(fk.refColumns) {
			ref = fk.refColumns[i]
		}
		table.ForeignKeys = append(table.ForeignKeys, schema.ForeignKeyRef{
			Column:          col,
			ReferenceTable:  fk.refTable,
			ReferenceColumn: ref,
		})
		b.schema.Relationships = append(b.schema.Relationships, schema.Relationship{
			FromTable:  table.Name,
			FromColumn: col,
			ToTable:    fk.refTable,
			ToColumn:   ref,
		})
	}
}

func upper(s string) string {
	return strings.ToUpper(s)
}
