package formatter

import (
	"github.com/tordrt/askdb/internal/schema"
)

// Row is one column of a table as shown to the user
type Row struct {
	Column    string `json:"column"`
	Type      string `json:"type"`
	PK        bool   `json:"pk"`
	FK        bool   `json:"fk"`
	Reference string `json:"reference,omitempty"`
}

// TableView is the display block of one table
type TableView struct {
	Table string `json:"table"`
	Rows  []Row  `json:"rows"`
}

// BuildView flattens a schema into per-table row listings, in table order
// with column order preserved. Tables sharing a name are shown as one block
// at the position where the name was first seen.
func BuildView(s *schema.Schema) []TableView {
	views := []TableView{}
	index := make(map[string]int)

	for i := range s.Tables {
		table := &s.Tables[i]

		pos, ok := index[table.Name]
		if !ok {
			pos = len(views)
			index[table.Name] = pos
			views = append(views, TableView{Table: table.Name, Rows: []Row{}})
		}

		for _, col := range table.Columns {
			row := Row{
				Column: col.Name,
				Type:   col.Type,
				PK:     table.IsPrimaryKey(col.Name),
			}
			if fk := table.ForeignKeyFor(col.Name); fk != nil {
				row.FK = true
				row.Reference = fk.ReferenceTable + "." + fk.ReferenceColumn
			}
			views[pos].Rows = append(views[pos].Rows, row)
		}
	}

	return views
}
