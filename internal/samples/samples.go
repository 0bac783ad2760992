// Package samples bundles example schemas for trying the tool without a database.
package samples

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed sql/*.sql
var files embed.FS

// ErrUnknownSample is returned for a name that is not bundled
var ErrUnknownSample = errors.New("unknown sample schema")

// Sample is one bundled schema
type Sample struct {
	Name string `json:"name"`
	DDL  string `json:"ddl"`
}

var catalog = []struct {
	name string
	file string
}{
	{name: "E-commerce Database", file: "sql/ecommerce.sql"},
	{name: "Employee Database", file: "sql/employee.sql"},
	{name: "Library Database", file: "sql/library.sql"},
}

// Names returns the bundled sample names in display order
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.name)
	}
	return names
}

// Get returns the DDL text of the named sample
func Get(name string) (*Sample, error) {
	for _, s := range catalog {
		if s.name != name {
			continue
		}
		data, err := files.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read sample %s: %w", name, err)
		}
		return &Sample{Name: s.name, DDL: string(data)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSample, name)
}

// All returns every bundled sample in display order
func All() ([]Sample, error) {
	all := make([]Sample, 0, len(catalog))
	for _, name := range Names() {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		all = append(all, *s)
	}
	return all, nil
}
