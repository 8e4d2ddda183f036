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
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
)

var (
	// ErrIndexOutOfBounds is returned when the field index is out of the bounds.
	ErrIndexOutOfBounds = errors.NewKind("unable to find field with index %d in row of %d columns")

	// ErrUnboundColumnRef is returned when a column reference is evaluated before it was bound to a row position.
	ErrUnboundColumnRef = errors.NewKind("column reference %s is not bound to a row position")
)

// ColumnRef is a reference to a column produced by the input of the node evaluating it. A column reference is
// identified by the id of its column; the position of the column in the input row is bound right before evaluation.
type ColumnRef struct {
	col   sql.PlanColumn
	index int
}

var _ sql.Expression = (*ColumnRef)(nil)

// NewColumnRef creates an unbound reference to |col|.
func NewColumnRef(col sql.PlanColumn) *ColumnRef {
	return &ColumnRef{col: col, index: -1}
}

// Column returns the referenced column.
func (c *ColumnRef) Column() sql.PlanColumn { return c.col }

// Id returns the id of the referenced column.
func (c *ColumnRef) Id() sql.ColumnId { return c.col.Id }

// Index returns the position of the column in the input row, or -1 if the reference is not bound.
func (c *ColumnRef) Index() int { return c.index }

// WithIndex returns a copy of this reference bound to position |idx|.
func (c *ColumnRef) WithIndex(idx int) *ColumnRef {
	nc := *c
	nc.index = idx
	return &nc
}

// WithColumn returns an unbound reference to |col|.
func (c *ColumnRef) WithColumn(col sql.PlanColumn) *ColumnRef {
	return NewColumnRef(col)
}

// Children implements the Expression interface.
func (*ColumnRef) Children() []sql.Expression {
	return nil
}

// IsNullable implements the Expression interface.
func (c *ColumnRef) IsNullable() bool {
	return true
}

// Type implements the Expression interface.
func (c *ColumnRef) Type() sql.Type {
	return c.col.Type
}

// Eval implements the Expression interface.
func (c *ColumnRef) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if c.index < 0 {
		return nil, ErrUnboundColumnRef.New(c.col.String())
	}
	if c.index >= len(row) {
		return nil, ErrIndexOutOfBounds.New(c.index, len(row))
	}
	return row[c.index], nil
}

// WithChildren implements the Expression interface.
func (c *ColumnRef) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

func (c *ColumnRef) String() string {
	return c.col.String()
}

// DebugString implements sql.DebugStringer
func (c *ColumnRef) DebugString() string {
	return c.col.DebugString()
}
