package ddl

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tordrt/askdb/internal/schema"
)

const shopSchema = `
CREATE TABLE customers (
    customer_id INTEGER PRIMARY KEY,
    first_name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL
);

CREATE INDEX idx_customers_email ON customers(email);

CREATE TABLE orders (
    order_id INTEGER PRIMARY KEY,
    customer_id INTEGER NOT NULL,
    total_amount DECIMAL(10, 2) NOT NULL,
    status TEXT DEFAULT 'pending',
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
);
`

// parseTable parses a single CREATE TABLE statement and returns its table
func parseTable(t *testing.T, ddl string) (*schema.Schema, *schema.Table) {
	t.Helper()

	s, err := Parse(ddl)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(s.Tables) != 1 {
		t.Fatalf("Parse() returned %d tables, want 1", len(s.Tables))
	}
	return s, &s.Tables[0]
}

func TestParseTableCount(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantTables []string
	}{
		{
			name:       "empty input",
			input:      "",
			wantTables: []string{},
		},
		{
			name:       "only other statements",
			input:      "CREATE INDEX i ON t(a); ALTER TABLE t ADD COLUMN b INT; INSERT INTO t VALUES (1);",
			wantTables: []string{},
		},
		{
			name:       "source order is kept",
			input:      "CREATE TABLE zeta (id INT); CREATE VIEW v AS SELECT 1; CREATE TABLE alpha (id INT);",
			wantTables: []string{"zeta", "alpha"},
		},
		{
			name:       "sample shop schema",
			input:      shopSchema,
			wantTables: []string{"customers", "orders"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(s.Tables) != len(tt.wantTables) {
				t.Fatalf("Parse() returned %d tables, want %d", len(s.Tables), len(tt.wantTables))
			}
			for i, table := range s.Tables {
				if table.Name != tt.wantTables[i] {
					t.Errorf("table[%d] = %s, want %s", i, table.Name, tt.wantTables[i])
				}
			}
		})
	}
}

func TestParseInlinePrimaryKey(t *testing.T) {
	_, table := parseTable(t, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")

	want := []schema.Column{
		{Name: "id", Type: "INTEGER", IsPrimary: true},
		{Name: "name", Type: "TEXT"},
	}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Errorf("Columns = %+v, want %+v", table.Columns, want)
	}
	if !reflect.DeepEqual(table.PrimaryKeys, []string{"id"}) {
		t.Errorf("PrimaryKeys = %v, want [id]", table.PrimaryKeys)
	}
}

func TestParseInlinePrimaryKeyKeepsOtherModifiers(t *testing.T) {
	_, table := parseTable(t, "CREATE TABLE t (id integer primary key autoincrement)")

	if table.Columns[0].Type != "integer autoincrement" {
		t.Errorf("Type = %q, want %q", table.Columns[0].Type, "integer autoincrement")
	}
	if !table.Columns[0].IsPrimary {
		t.Error("Expected id to be marked primary")
	}
}

func TestParseCompositePrimaryKey(t *testing.T) {
	_, table := parseTable(t, "CREATE TABLE enrolment (a INT, b INT, PRIMARY KEY (a, b))")

	if !reflect.DeepEqual(table.PrimaryKeys, []string{"a", "b"}) {
		t.Errorf("PrimaryKeys = %v, want [a b]", table.PrimaryKeys)
	}
	for _, col := range table.Columns {
		if col.IsPrimary {
			t.Errorf("Column %s should not be marked primary inline", col.Name)
		}
	}
}

func TestParsePrimaryKeySetSemantics(t *testing.T) {
	_, table := parseTable(t, "CREATE TABLE t (id INT PRIMARY KEY, `other` INT, PRIMARY KEY (id, \"other\"), PRIMARY KEY (ghost))")

	want := []string{"id", "other", "ghost"}
	if !reflect.DeepEqual(table.PrimaryKeys, want) {
		t.Errorf("PrimaryKeys = %v, want %v", table.PrimaryKeys, want)
	}
}

func TestParseForeignKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRefs []schema.ForeignKeyRef
		wantRels []schema.Relationship
	}{
		{
			name:  "single column",
			input: "CREATE TABLE orders (user_id INT, FOREIGN KEY (user_id) REFERENCES users(id))",
			wantRefs: []schema.ForeignKeyRef{
				{Column: "user_id", ReferenceTable: "users", ReferenceColumn: "id"},
			},
			wantRels: []schema.Relationship{
				{FromTable: "orders", FromColumn: "user_id", ToTable: "users", ToColumn: "id"},
			},
		},
		{
			name:  "composite pairs positionally",
			input: "CREATE TABLE s (a INT, b INT, FOREIGN KEY (a,b) REFERENCES t(x,y))",
			wantRefs: []schema.ForeignKeyRef{
				{Column: "a", ReferenceTable: "t", ReferenceColumn: "x"},
				{Column: "b", ReferenceTable: "t", ReferenceColumn: "y"},
			},
			wantRels: []schema.Relationship{
				{FromTable: "s", FromColumn: "a", ToTable: "t", ToColumn: "x"},
				{FromTable: "s", FromColumn: "b", ToTable: "t", ToColumn: "y"},
			},
		},
		{
			name:  "fewer reference columns reuse the last one",
			input: "CREATE TABLE s (a INT, b INT, FOREIGN KEY (a,b) REFERENCES t(x))",
			wantRefs: []schema.ForeignKeyRef{
				{Column: "a", ReferenceTable: "t", ReferenceColumn: "x"},
				{Column: "b", ReferenceTable: "t", ReferenceColumn: "x"},
			},
			wantRels: []schema.Relationship{
				{FromTable: "s", FromColumn: "a", ToTable: "t", ToColumn: "x"},
				{FromTable: "s", FromColumn: "b", ToTable: "t", ToColumn: "x"},
			},
		},
		{
			name:  "named constraint with actions",
			input: "CREATE TABLE s (a INT, CONSTRAINT fk_a FOREIGN KEY (`a`) REFERENCES \"t\" (\"x\") ON DELETE CASCADE)",
			wantRefs: []schema.ForeignKeyRef{
				{Column: "a", ReferenceTable: "t", ReferenceColumn: "x"},
			},
			wantRels: []schema.Relationship{
				{FromTable: "s", FromColumn: "a", ToTable: "t", ToColumn: "x"},
			},
		},
		{
			name:  "inline references",
			input: "CREATE TABLE s (a INT REFERENCES t(x))",
			wantRefs: []schema.ForeignKeyRef{
				{Column: "a", ReferenceTable: "t", ReferenceColumn: "x"},
			},
			wantRels: []schema.Relationship{
				{FromTable: "s", FromColumn: "a", ToTable: "t", ToColumn: "x"},
			},
		},
		{
			name:     "missing references clause is dropped",
			input:    "CREATE TABLE s (a INT, FOREIGN KEY (a))",
			wantRefs: []schema.ForeignKeyRef{},
			wantRels: []schema.Relationship{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, table := parseTable(t, tt.input)
			if !reflect.DeepEqual(table.ForeignKeys, tt.wantRefs) {
				t.Errorf("ForeignKeys = %+v, want %+v", table.ForeignKeys, tt.wantRefs)
			}
			if !reflect.DeepEqual(s.Relationships, tt.wantRels) {
				t.Errorf("Relationships = %+v, want %+v", s.Relationships, tt.wantRels)
			}
		})
	}
}

func TestParseRelationshipOrderInterleaves(t *testing.T) {
	input := `
CREATE TABLE a (id INT, b_id INT, FOREIGN KEY (b_id) REFERENCES b(id));
CREATE TABLE b (id INT, c_id INT, FOREIGN KEY (c_id) REFERENCES c(id));
CREATE TABLE a2 (id INT, b_id INT REFERENCES b(id));
`
	s, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	var from []string
	for _, rel := range s.Relationships {
		from = append(from, rel.FromTable)
	}
	if !reflect.DeepEqual(from, []string{"a", "b", "a2"}) {
		t.Errorf("relationship order = %v, want [a b a2]", from)
	}
}

func TestParseColumnTypes(t *testing.T) {
	_, table := parseTable(t, `CREATE TABLE p (
		price DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) DEFAULT 'new',
		bare,
		UNIQUE (status),
		CONSTRAINT chk CHECK (price > 0),
		CHECK (price < 1000)
	)`)

	want := []schema.Column{
		{Name: "price", Type: "DECIMAL(10,2) NOT NULL"},
		{Name: "status", Type: "VARCHAR(20) DEFAULT 'new'"},
		{Name: "bare", Type: ""},
	}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Errorf("Columns = %+v, want %+v", table.Columns, want)
	}
}

func TestParseCreateIndexContributesNothing(t *testing.T) {
	s, err := Parse("CREATE INDEX idx_users_email ON users(email);")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(s.Tables) != 0 || len(s.Relationships) != 0 {
		t.Errorf("Parse() = %d tables, %d relationships, want 0 and 0", len(s.Tables), len(s.Relationships))
	}
}

func TestParseShopSchema(t *testing.T) {
	s, err := Parse(shopSchema)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(s.Tables) != 2 {
		t.Fatalf("Parse() returned %d tables, want 2", len(s.Tables))
	}
	if len(s.Relationships) != 1 {
		t.Fatalf("Parse() returned %d relationships, want 1", len(s.Relationships))
	}

	want := schema.Relationship{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "customer_id"}
	if s.Relationships[0] != want {
		t.Errorf("Relationships[0] = %+v, want %+v", s.Relationships[0], want)
	}

	orders := s.Table("orders")
	if orders == nil {
		t.Fatal("orders table not found")
	}
	if col := orders.Column("total_amount"); col == nil || col.Type != "DECIMAL(10, 2) NOT NULL" {
		t.Errorf("total_amount column = %+v, want type DECIMAL(10, 2) NOT NULL", col)
	}
}

func TestParseLenientDegradation(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantTable       string
		wantColumns     int
		wantDiagnostics int
	}{
		{
			name:            "missing table name",
			input:           "CREATE TABLE (id INT)",
			wantTable:       "",
			wantColumns:     1,
			wantDiagnostics: 1,
		},
		{
			name:            "no column list",
			input:           "CREATE TABLE t AS SELECT * FROM other",
			wantTable:       "t",
			wantColumns:     0,
			wantDiagnostics: 1,
		},
		{
			name:            "unmatched parenthesis",
			input:           "CREATE TABLE t (a INT, b TEXT",
			wantTable:       "t",
			wantColumns:     2,
			wantDiagnostics: 1,
		},
		{
			name:            "primary key without list",
			input:           "CREATE TABLE t (a INT, PRIMARY KEY)",
			wantTable:       "t",
			wantColumns:     1,
			wantDiagnostics: 1,
		},
		{
			name:            "foreign key count mismatch is kept",
			input:           "CREATE TABLE t (a INT, b INT, FOREIGN KEY (a, b) REFERENCES u(x))",
			wantTable:       "t",
			wantColumns:     2,
			wantDiagnostics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewParser().Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if len(res.Schema.Tables) != 1 {
				t.Fatalf("Parse() returned %d tables, want 1", len(res.Schema.Tables))
			}
			table := res.Schema.Tables[0]
			if table.Name != tt.wantTable {
				t.Errorf("Name = %q, want %q", table.Name, tt.wantTable)
			}
			if len(table.Columns) != tt.wantColumns {
				t.Errorf("Columns = %d, want %d", len(table.Columns), tt.wantColumns)
			}
			if len(res.Diagnostics) != tt.wantDiagnostics {
				t.Errorf("Diagnostics = %v, want %d", res.Diagnostics, tt.wantDiagnostics)
			}
		})
	}
}

func TestParseStrictMode(t *testing.T) {
	p := NewParser(WithMode(Strict))

	res, err := p.Parse(shopSchema)
	if err != nil {
		t.Fatalf("Parse() unexpected error for a clean schema: %v", err)
	}
	if len(res.Schema.Tables) != 2 {
		t.Errorf("Parse() returned %d tables, want 2", len(res.Schema.Tables))
	}

	_, err = p.Parse("CREATE TABLE t (a INT, b INT, FOREIGN KEY (a, b) REFERENCES u(x)); CREATE TABLE (id INT);")
	if err == nil {
		t.Fatal("Expected error but got none")
	}
	var strictErr *StrictError
	if !errors.As(err, &strictErr) {
		t.Fatalf("Parse() error = %T, want *StrictError", err)
	}
	if len(strictErr.Diagnostics) != 2 {
		t.Errorf("Diagnostics = %v, want 2", strictErr.Diagnostics)
	}
	if strictErr.Diagnostics[1].Statement != 1 {
		t.Errorf("Diagnostics[1].Statement = %d, want 1", strictErr.Diagnostics[1].Statement)
	}
}

func TestParseUnparseable(t *testing.T) {
	for _, mode := range []Mode{Lenient, Strict} {
		t.Run(mode.String(), func(t *testing.T) {
			_, err := NewParser(WithMode(mode)).Parse("CREATE TABLE t (a TEXT DEFAULT 'oops);")
			if !errors.Is(err, ErrUnparseable) {
				t.Errorf("Parse() error = %v, want ErrUnparseable", err)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: Lenient},
		{input: "lenient", want: Lenient},
		{input: " STRICT ", want: Strict},
		{input: "pedantic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMySQLShowCreateTable(t *testing.T) {
	input := "CREATE TABLE `orders` (\n" +
		"  `id` int NOT NULL AUTO_INCREMENT,\n" +
		"  `user_id` int NOT NULL,\n" +
		"  `key` varchar(10) DEFAULT NULL,\n" +
		"  PRIMARY KEY (`id`),\n" +
		"  UNIQUE KEY `uq_key` (`key`),\n" +
		"  KEY `idx_user` (`user_id`),\n" +
		"  FULLTEXT KEY `ft_key` (`key`),\n" +
		"  CONSTRAINT `orders_ibfk_1` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`) ON DELETE CASCADE\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

	s, table := parseTable(t, input)

	var names []string
	for _, col := range table.Columns {
		names = append(names, col.Name)
	}
	if !reflect.DeepEqual(names, []string{"id", "user_id", "key"}) {
		t.Errorf("columns = %v, want [id user_id key]", names)
	}
	if !reflect.DeepEqual(table.PrimaryKeys, []string{"id"}) {
		t.Errorf("PrimaryKeys = %v, want [id]", table.PrimaryKeys)
	}
	if len(s.Relationships) != 1 || s.Relationships[0].ToTable != "users" {
		t.Errorf("Relationships = %+v, want one edge to users", s.Relationships)
	}
}

func TestParseColumnNamedKey(t *testing.T) {
	_, table := parseTable(t, "CREATE TABLE settings (key VARCHAR(64) NOT NULL, index INT, value TEXT)")

	if len(table.Columns) != 3 {
		t.Fatalf("Columns = %+v, want 3 columns", table.Columns)
	}
	if table.Columns[0].Name != "key" || table.Columns[0].Type != "VARCHAR(64) NOT NULL" {
		t.Errorf("Columns[0] = %+v, want key VARCHAR(64) NOT NULL", table.Columns[0])
	}
}
