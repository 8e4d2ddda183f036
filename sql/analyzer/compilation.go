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

package analyzer

import (
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/transform"
	"github.com/dolthub/go-measures/sql/types"
)

// Compilation holds the services shared by every rule analyzing the same statement. It must not be shared across
// statements.
type Compilation struct {
	// Columns mints the columns introduced by the rules.
	Columns *sql.ColumnIdAllocator
	// Structs builds and interns struct types.
	Structs *types.StructFactory
	// Names interns the names of the columns and struct fields introduced by the rules.
	Names *sql.NamePool
}

// NewCompilation returns the compilation of the plan |n|. New columns get ids above every column id in |n|.
func NewCompilation(n sql.Node) *Compilation {
	return NewCompilationWithAllocator(sql.NewColumnIdAllocator(MaxColumnId(n)))
}

// NewCompilationWithAllocator returns a compilation minting columns with |alloc|, typically the allocator that
// built the plan.
func NewCompilationWithAllocator(alloc *sql.ColumnIdAllocator) *Compilation {
	return &Compilation{
		Columns: alloc,
		Structs: types.NewStructFactory(),
		Names:   sql.NewNamePool(),
	}
}

// MaxColumnId returns the largest id of the columns produced, defined or referenced in |n|.
func MaxColumnId(n sql.Node) sql.ColumnId {
	var max sql.ColumnId
	see := func(cols ...sql.PlanColumn) {
		for _, c := range cols {
			if c.Id > max {
				max = c.Id
			}
		}
	}

	transform.Inspect(n, func(n sql.Node) bool {
		see(n.Columns()...)
		switch n := n.(type) {
		case *plan.Project:
			for _, c := range n.Computed {
				see(c.Column)
			}
		case *plan.GroupBy:
			for _, c := range n.GroupingList {
				see(c.Column)
			}
			for _, c := range n.Aggregates {
				see(c.Column)
			}
		}
		return true
	})

	transform.InspectExpressions(n, func(e sql.Expression) bool {
		switch e := e.(type) {
		case *expression.ColumnRef:
			see(e.Column())
		case sql.ColumnDefiner:
			see(e.DefinedColumns()...)
		}
		return false
	})

	return max
}
