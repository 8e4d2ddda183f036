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

package transform

import (
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
)

// ColumnMap maps plan column ids to replacement columns.
type ColumnMap map[sql.ColumnId]sql.PlanColumn

// CopyAndRemapColumns returns a copy of |e| where every column reference found in |remap| is replaced by its mapped
// column and every column defined inside |e| by a sql.ColumnDefiner is replaced by a fresh column minted with
// |alloc|. References to columns that are neither mapped nor defined inside |e| are left unchanged. The returned copy
// shares no node with |e| except leaves, so |e| can be reused by other callers.
func CopyAndRemapColumns(e sql.Expression, alloc *sql.ColumnIdAllocator, remap ColumnMap) (sql.Expression, error) {
	mapping := make(ColumnMap, len(remap))
	for id, c := range remap {
		mapping[id] = c
	}

	InspectExpr(e, func(e sql.Expression) bool {
		if d, ok := e.(sql.ColumnDefiner); ok {
			for _, c := range d.DefinedColumns() {
				if _, ok := mapping[c.Id]; !ok {
					mapping[c.Id] = alloc.NewColumn(c.Scope, c.Name, c.Type)
				}
			}
		}
		return false
	})

	copied, _, err := Expr(e, func(e sql.Expression) (sql.Expression, TreeIdentity, error) {
		switch e := e.(type) {
		case *expression.ColumnRef:
			if c, ok := mapping[e.Id()]; ok {
				return e.WithColumn(c), NewTree, nil
			}
			return e, NewTree, nil
		case sql.ColumnDefiner:
			defined := e.DefinedColumns()
			if len(defined) == 0 {
				return e, NewTree, nil
			}
			cols := make([]sql.PlanColumn, len(defined))
			for i, c := range defined {
				cols[i] = mapping[c.Id]
			}
			ne, err := e.WithDefinedColumns(cols...)
			if err != nil {
				return nil, SameTree, err
			}
			return ne, NewTree, nil
		default:
			return e, NewTree, nil
		}
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// ReferencedColumns returns the ids of every column referenced by a ColumnRef inside |e|, in the order they are
// first found.
func ReferencedColumns(e sql.Expression) []sql.ColumnId {
	var ids []sql.ColumnId
	seen := make(map[sql.ColumnId]bool)
	InspectExpr(e, func(e sql.Expression) bool {
		if ref, ok := e.(*expression.ColumnRef); ok && !seen[ref.Id()] {
			seen[ref.Id()] = true
			ids = append(ids, ref.Id())
		}
		return false
	})
	return ids
}
