package schema

// Schema represents the tables and relationships declared by one DDL text.
// A Schema is built once by the parser and only read afterwards.
type Schema struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}

// Table represents a table declared by a CREATE TABLE statement
type Table struct {
	Name        string          `json:"name"`
	Columns     []Column        `json:"columns"`
	PrimaryKeys []string        `json:"primary_keys"`
	ForeignKeys []ForeignKeyRef `json:"foreign_keys"`
}

// Column represents a table column
type Column struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsPrimary bool   `json:"is_primary"`
}

// ForeignKeyRef represents one local column of a foreign key
type ForeignKeyRef struct {
	Column          string `json:"column"`
	ReferenceTable  string `json:"reference_table"`
	ReferenceColumn string `json:"reference_column"`
}

// Relationship is a directed edge between two tables, by name.
type Relationship struct {
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
}

// Table returns the first table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column returns the first column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether the column is part of the primary key,
// either declared inline or through a PRIMARY KEY constraint.
func (t *Table) IsPrimaryKey(column string) bool {
	if c := t.Column(column); c != nil && c.IsPrimary {
		return true
	}
	for _, pk := range t.PrimaryKeys {
		if pk == column {
			return true
		}
	}
	return false
}

// ForeignKeyFor returns the first foreign key declared for the column, or nil
func (t *Table) ForeignKeyFor(column string) *ForeignKeyRef {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			return &t.ForeignKeys[i]
		}
	}
	return nil
}

// AddPrimaryKey adds the column to the primary key set, keeping first-insertion order
func (t *Table) AddPrimaryKey(column string) {
	for _, pk := range t.PrimaryKeys {
		if pk == column {
			return
		}
	}
	t.PrimaryKeys = append(t.PrimaryKeys, column)
}
