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

// Table is a table the analyzer can plan against.
type Table interface {
	Nameable
	String() string
	// Schema returns the table's schema. Measure columns are part of the schema but never part of the table's rows.
	Schema() Schema
	// RowIdentityColumns returns the schema indexes of the columns that uniquely identify a row of the table. The
	// returned list is empty if the table has no row identity.
	RowIdentityColumns() []int
}

// RowTable is a Table whose rows can be read. Rows hold a value for every schema column, with a nil placeholder for
// measure columns.
type RowTable interface {
	Table
	// RowIter returns an iterator over every row of the table.
	RowIter(ctx *Context) (RowIter, error)
}

// Database represents the database.
type Database interface {
	Nameable
	// GetTableInsensitive retrieves a table by its case insensitive name.
	GetTableInsensitive(ctx *Context, tblName string) (Table, bool, error)
	// GetTableNames returns the table names of every table in the database.
	GetTableNames(ctx *Context) ([]string, error)
}

// MeasureColumnIndexes returns the schema indexes of the measure columns of |t|.
func MeasureColumnIndexes(t Table) []int {
	var idxs []int
	for i, col := range t.Schema() {
		if col.HasMeasureExpression() {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
