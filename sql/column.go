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

import (
	"strings"
)

// Column is the definition of a table column.
// As SQL:2016 puts it:
//
//	A column is a named component of a table. It has a data type, a default,
//	and a nullability characteristic.
//
// A measure column additionally carries the expression defining it. Measure columns are never materialized in table
// rows; their values are computed from the other columns of the same table.
type Column struct {
	// Name is the name of the column.
	Name string
	// Type is the data type of the column.
	Type Type
	// Nullable is true if the column can contain NULL values, or false
	// otherwise.
	Nullable bool
	// Source is the name of the table this column came from.
	Source string
	// PrimaryKey is true if the column is part of the primary key for its table.
	PrimaryKey bool
	// Comment contains the string comment for this column
	Comment string
	// Measure is the defining expression of a measure column. It references the other columns of the table by name
	// and is shared by every query that reads the column, so it must never be modified.
	Measure Expression
}

// HasMeasureExpression returns whether this column is a measure with a defining expression.
func (c *Column) HasMeasureExpression() bool {
	return c.Measure != nil
}

// MeasureExpression returns the defining expression of a measure column, or nil.
func (c *Column) MeasureExpression() Expression {
	return c.Measure
}

// Equals checks whether two columns are equal.
func (c *Column) Equals(c2 *Column) bool {
	return c.Name == c2.Name &&
		c.Source == c2.Source &&
		c.Nullable == c2.Nullable &&
		c.PrimaryKey == c2.PrimaryKey &&
		c.Type.Equals(c2.Type)
}

// Schema is the definition of a table.
type Schema []*Column

// IndexOfColName returns the index of the given column (case-insensitive) or -1 if it does not exist.
func (s Schema) IndexOfColName(column string) int {
	column = strings.ToLower(column)
	for i, col := range s {
		if strings.ToLower(col.Name) == column {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the given column in the schema or -1 if it's not present.
func (s Schema) IndexOf(column, source string) int {
	column = strings.ToLower(column)
	source = strings.ToLower(source)
	for i, col := range s {
		if strings.ToLower(col.Name) == column && strings.ToLower(col.Source) == source {
			return i
		}
	}
	return -1
}

// Contains returns whether the schema contains a column with the given name.
func (s Schema) Contains(column string, source string) bool {
	return s.IndexOf(column, source) >= 0
}

// PrimaryKeyIndexes returns the schema indexes of the primary key columns, in schema order.
func (s Schema) PrimaryKeyIndexes() []int {
	var idxs []int
	for i, col := range s {
		if col.PrimaryKey {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
