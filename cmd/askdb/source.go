package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/askdb"
	"github.com/tordrt/askdb/internal/ddl"
	"github.com/tordrt/askdb/internal/samples"
)

// sourceFlags selects where the schema text comes from
type sourceFlags struct {
	dbURL      string
	mysqlURL   string
	sqlitePath string
	sample     string
	tables     string
	exclude    string
	schemaName string
	strict     bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&f.mysqlURL, "mysql-url", "", "MySQL connection string")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite", "", "SQLite database file path")
	cmd.Flags().StringVar(&f.sample, "sample", "", "Bundled sample schema name (see 'askdb samples')")
	cmd.Flags().StringVarP(&f.tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVarP(&f.exclude, "exclude", "x", "", "Tables to leave out (comma-separated, optional)")
	cmd.Flags().StringVarP(&f.schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the URL's database for MySQL)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Reject the schema when any statement cannot be fully understood")
}

// loadedSchema is the raw text and its parsed model
type loadedSchema struct {
	text   string
	result *ddl.Result
}

// load reads the schema from exactly one source: files, a database, a
// sample, or stdin when nothing else is given.
func (f *sourceFlags) load(ctx context.Context, a *app, cmd *cobra.Command, files []string) (*loadedSchema, error) {
	sources := 0
	for _, set := range []bool{len(files) > 0, f.dbURL != "", f.mysqlURL != "", f.sqlitePath != "", f.sample != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, fmt.Errorf("only one of files, --db-url, --mysql-url, --sqlite, or --sample can be specified")
	}

	mode := a.cfg.ParseMode
	if cmd.Flags().Changed("strict") {
		mode = ddl.Lenient
		if f.strict {
			mode = ddl.Strict
		}
	}

	opts := &askdb.Options{
		Tables:        parseTableList(f.tables),
		ExcludeTables: parseTableList(f.exclude),
		SchemaName:    f.schemaName,
		Mode:          mode,
	}

	var (
		text   string
		result *ddl.Result
		err    error
	)
	switch {
	case len(files) > 0:
		text, result, err = askdb.ParseFiles(ctx, files, opts)
		if err != nil {
			return nil, err
		}
		return f.report(a, text, result), nil
	case f.sample != "":
		sample, err := samples.Get(f.sample)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(samples.Names(), ", "))
		}
		text = sample.DDL
	case f.dbURL != "" || f.mysqlURL != "" || f.sqlitePath != "":
		text, err = askdb.LoadDDL(ctx, f.databaseURL(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to extract schema: %w", err)
		}
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	result, err = askdb.ParseSchema(text, opts)
	if err != nil {
		return nil, err
	}
	return f.report(a, text, result), nil
}

// report logs lenient diagnostics as warnings
func (f *sourceFlags) report(a *app, text string, result *ddl.Result) *loadedSchema {
	for _, d := range result.Diagnostics {
		a.logger.Warn().Msg(d.String())
	}
	return &loadedSchema{text: text, result: result}
}

// databaseURL turns the database flags into a URL understood by askdb.LoadDDL
func (f *sourceFlags) databaseURL() string {
	switch {
	case f.sqlitePath != "":
		return "sqlite://" + f.sqlitePath
	case f.mysqlURL != "":
		if strings.HasPrefix(f.mysqlURL, "mysql://") {
			return f.mysqlURL
		}
		return "mysql://" + f.mysqlURL
	default:
		return f.dbURL
	}
}

// parseTableList splits a comma-separated flag value
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}

	var tables []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
