package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// PostgresExtractor rebuilds CREATE TABLE text from the PostgreSQL catalog.
// PostgreSQL does not keep the original statement, so columns come from
// pg_attribute and table constraints from pg_get_constraintdef.
type PostgresExtractor struct {
	client *PostgresClient
	schema string
}

// NewPostgresExtractor creates a new PostgreSQL DDL extractor
func NewPostgresExtractor(client *PostgresClient, schemaName string) *PostgresExtractor {
	return &PostgresExtractor{
		client: client,
		schema: schemaName,
	}
}

// ExtractDDL returns one CREATE TABLE statement per base table
func (e *PostgresExtractor) ExtractDDL(ctx context.Context, tables []string) (string, error) {
	names, err := e.getTableNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get table names: %w", err)
	}

	var ddl []string
	for _, name := range selectTables(names, tables) {
		stmt, err := e.buildCreateTable(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to build DDL for %s: %w", name, err)
		}
		ddl = append(ddl, stmt)
	}
	return joinStatements(ddl), nil
}

// getTableNames returns the base tables of the schema
func (e *PostgresExtractor) getTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

type pgColumn struct {
	Name         string
	Type         string
	NotNull      bool
	DefaultValue *string
}

type pgConstraint struct {
	Name       string
	Definition string
}

// buildCreateTable renders the columns and constraints of one table as DDL
func (e *PostgresExtractor) buildCreateTable(ctx context.Context, tableName string) (string, error) {
	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return "", fmt.Errorf("failed to extract columns: %w", err)
	}
	constraints, err := e.extractConstraints(ctx, tableName)
	if err != nil {
		return "", fmt.Errorf("failed to extract constraints: %w", err)
	}

	var lines []string
	for _, col := range columns {
		line := fmt.Sprintf("    %s %s", pgx.Identifier{col.Name}.Sanitize(), col.Type)
		if col.NotNull {
			line += " NOT NULL"
		}
		if col.DefaultValue != nil {
			line += " DEFAULT " + *col.DefaultValue
		}
		lines = append(lines, line)
	}
	for _, con := range constraints {
		lines = append(lines, fmt.Sprintf("    CONSTRAINT %s %s", pgx.Identifier{con.Name}.Sanitize(), con.Definition))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", pgx.Identifier{tableName}.Sanitize(), strings.Join(lines, ",\n")), nil
}

// extractColumns extracts column names and formatted types in ordinal order
func (e *PostgresExtractor) extractColumns(ctx context.Context, tableName string) ([]pgColumn, error) {
	query := `
		SELECT
			a.attname,
			pg_catalog.format_type(a.atttypid, a.atttypmod),
			a.attnotnull,
			pg_catalog.pg_get_expr(d.adbin, d.adrelid)
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_catalog.pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1
			AND c.relname = $2
			AND a.attnum > 0
			AND NOT a.attisdropped
		ORDER BY a.attnum
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[pgColumn])
}

// extractConstraints extracts primary key, foreign key, unique and check constraints
func (e *PostgresExtractor) extractConstraints(ctx context.Context, tableName string) ([]pgConstraint, error) {
	query := `
		SELECT con.conname, pg_catalog.pg_get_constraintdef(con.oid, true)
		FROM pg_catalog.pg_constraint con
		JOIN pg_catalog.pg_class c ON c.oid = con.conrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
			AND c.relname = $2
			AND con.contype IN ('p', 'f', 'u', 'c')
		ORDER BY
			CASE con.contype WHEN 'p' THEN 0 WHEN 'f' THEN 1 WHEN 'u' THEN 2 ELSE 3 END,
			con.conname
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[pgConstraint])
}
