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

package sql

import "fmt"

// ColumnId is the unique identifier of a column produced somewhere in a plan. Zero is never a valid id.
type ColumnId uint32

// PlanColumn is a column produced by a plan node or defined by an expression. Two plan columns are the same column
// iff they have the same id; scope and name are informational.
type PlanColumn struct {
	// Id is unique across the whole plan being compiled.
	Id ColumnId
	// Scope is the name of the table, alias or pseudo-scope (e.g. "$aggregate") owning the column.
	Scope string
	// Name is the display name of the column.
	Name string
	// Type is the type of the values of the column.
	Type Type
}

// IsValid returns whether the column has been assigned an id.
func (c PlanColumn) IsValid() bool {
	return c.Id != 0
}

// SameColumn returns whether the two columns have the same identity.
func (c PlanColumn) SameColumn(other PlanColumn) bool {
	return c.Id == other.Id
}

func (c PlanColumn) String() string {
	if c.Scope == "" {
		return fmt.Sprintf("%s#%d", c.Name, c.Id)
	}
	return fmt.Sprintf("%s.%s#%d", c.Scope, c.Name, c.Id)
}

// DebugString includes the column type.
func (c PlanColumn) DebugString() string {
	return fmt.Sprintf("%s:%s", c.String(), c.Type)
}

// ColumnIndex returns the position of the column with the id given in |cols|, or -1.
func ColumnIndex(cols []PlanColumn, id ColumnId) int {
	for i, c := range cols {
		if c.Id == id {
			return i
		}
	}
	return -1
}

// ColumnIds returns the ids of |cols|, in order.
func ColumnIds(cols []PlanColumn) []ColumnId {
	ids := make([]ColumnId, len(cols))
	for i, c := range cols {
		ids[i] = c.Id
	}
	return ids
}

// ColumnIdAllocator mints plan columns with ids that are unique for the lifetime of the allocator. A single
// allocator is shared by every phase compiling the same statement and must not be shared across statements.
type ColumnIdAllocator struct {
	last ColumnId
}

// NewColumnIdAllocator returns an allocator whose first column will have id |max|+1.
func NewColumnIdAllocator(max ColumnId) *ColumnIdAllocator {
	return &ColumnIdAllocator{last: max}
}

// NewColumn mints a new column.
func (a *ColumnIdAllocator) NewColumn(scope, name string, typ Type) PlanColumn {
	a.last++
	return PlanColumn{
		Id:    a.last,
		Scope: scope,
		Name:  name,
		Type:  typ,
	}
}

// Reserve makes sure no id lower or equal to |id| is handed out in the future.
func (a *ColumnIdAllocator) Reserve(id ColumnId) {
	if id > a.last {
		a.last = id
	}
}

// MaxId returns the largest id handed out or reserved so far.
func (a *ColumnIdAllocator) MaxId() ColumnId {
	return a.last
}
