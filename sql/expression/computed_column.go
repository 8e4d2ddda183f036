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
package expression

import (
	"fmt"

	"github.com/dolthub/go-measures/sql"
)

// ComputedColumn binds the value of an expression to a new plan column.
type ComputedColumn struct {
	Column sql.PlanColumn
	Expr   sql.Expression
}

// NewComputedColumn returns a computed column defining |col| as |expr|.
func NewComputedColumn(col sql.PlanColumn, expr sql.Expression) *ComputedColumn {
	return &ComputedColumn{Column: col, Expr: expr}
}

// WithExpr returns a copy of this computed column with the expression given.
func (c *ComputedColumn) WithExpr(expr sql.Expression) *ComputedColumn {
	return &ComputedColumn{Column: c.Column, Expr: expr}
}

// WithColumn returns a copy of this computed column defining the column given.
func (c *ComputedColumn) WithColumn(col sql.PlanColumn) *ComputedColumn {
	return &ComputedColumn{Column: col, Expr: c.Expr}
}

func (c *ComputedColumn) String() string {
	return fmt.Sprintf("%s := %s", c.Column, c.Expr)
}

// ComputedColumns returns the columns defined by |cols|, in order.
func ComputedColumns(cols []*ComputedColumn) []sql.PlanColumn {
	result := make([]sql.PlanColumn, len(cols))
	for i, c := range cols {
		result[i] = c.Column
	}
	return result
}

// ComputedExpressions returns the expressions of |cols|, in order.
func ComputedExpressions(cols []*ComputedColumn) []sql.Expression {
	result := make([]sql.Expression, len(cols))
	for i, c := range cols {
		result[i] = c.Expr
	}
	return result
}

// WithComputedExpressions returns copies of |cols| with the expressions given, which must have the same length.
func WithComputedExpressions(cols []*ComputedColumn, exprs []sql.Expression) []*ComputedColumn {
	result := make([]*ComputedColumn, len(cols))
	for i, c := range cols {
		result[i] = c.WithExpr(exprs[i])
	}
	return result
}

// FindComputedColumn returns the computed column defining the column with the id given, or nil.
func FindComputedColumn(cols []*ComputedColumn, id sql.ColumnId) *ComputedColumn {
	for _, c := range cols {
		if c.Column.Id == id {
			return c
		}
	}
	return nil
}
