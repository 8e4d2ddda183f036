// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"fmt"

	"github.com/dolthub/go-measures/sql"
)

// ResolvedTable is a scan over a table of the catalog. The scan outputs Cols, where Cols[i] reads the value of the
// table's schema column ColumnIndexes[i].
type ResolvedTable struct {
	sql.Table
	Cols          []sql.PlanColumn
	ColumnIndexes []int
}

var _ sql.Node = (*ResolvedTable)(nil)

// NewResolvedTable creates a new instance of ResolvedTable.
func NewResolvedTable(table sql.Table, cols []sql.PlanColumn, columnIndexes []int) *ResolvedTable {
	return &ResolvedTable{
		Table:         table,
		Cols:          cols,
		ColumnIndexes: columnIndexes,
	}
}

// NewTableScan returns a scan of |table| projecting the schema columns named, or every column of the schema if no
// name is given. Output columns are minted with |alloc| and scoped by the table name.
func NewTableScan(alloc *sql.ColumnIdAllocator, table sql.Table, names ...string) (*ResolvedTable, error) {
	schema := table.Schema()
	var idxs []int
	if len(names) == 0 {
		idxs = make([]int, len(schema))
		for i := range schema {
			idxs[i] = i
		}
	} else {
		for _, name := range names {
			idx := schema.IndexOfColName(name)
			if idx < 0 {
				return nil, sql.ErrTableColumnNotFound.New(table.Name(), name)
			}
			idxs = append(idxs, idx)
		}
	}

	cols := make([]sql.PlanColumn, len(idxs))
	for i, idx := range idxs {
		cols[i] = alloc.NewColumn(table.Name(), schema[idx].Name, schema[idx].Type)
	}
	return NewResolvedTable(table, cols, idxs), nil
}

// Columns implements the sql.Node interface.
func (t *ResolvedTable) Columns() []sql.PlanColumn {
	return t.Cols
}

// Children implements the Node interface.
func (*ResolvedTable) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *ResolvedTable) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(t, children...)
}

// WithColumns returns a copy of this scan outputting the columns given.
func (t *ResolvedTable) WithColumns(cols []sql.PlanColumn, columnIndexes []int) *ResolvedTable {
	nt := *t
	nt.Cols = cols
	nt.ColumnIndexes = columnIndexes
	return &nt
}

// ColumnIndex returns the schema index read by the output column with the id given, or -1.
func (t *ResolvedTable) ColumnIndex(id sql.ColumnId) int {
	i := sql.ColumnIndex(t.Cols, id)
	if i < 0 || i >= len(t.ColumnIndexes) {
		return -1
	}
	return t.ColumnIndexes[i]
}

func (t *ResolvedTable) String() string {
	return fmt.Sprintf("Table(%s)[%s]", t.Table.Name(), columnsString(t.Cols))
}

func (t *ResolvedTable) DebugString() string {
	return fmt.Sprintf("Table(%s)[%s] indexes %v", t.Table.Name(), columnsDebugString(t.Cols), t.ColumnIndexes)
}
