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

// ErrNamedColumnEval is returned when a free column reference is evaluated.
var ErrNamedColumnEval = errors.NewKind("column %s is a free reference to a table column and cannot be evaluated")

// NamedColumn is a free reference to a column of a table, by name. Catalog expressions such as the definition of
// a measure column reference the other columns of their table this way, since they are not compiled against any
// particular plan. A NamedColumn must be rewritten into a plan-level reference before it can be evaluated.
type NamedColumn struct {
	name string
	typ  sql.Type
}

var _ sql.Expression = (*NamedColumn)(nil)
var _ sql.Nameable = (*NamedColumn)(nil)

// NewNamedColumn creates a new free column reference.
func NewNamedColumn(name string, typ sql.Type) *NamedColumn {
	return &NamedColumn{name: name, typ: typ}
}

// Name implements the Nameable interface.
func (c *NamedColumn) Name() string { return c.name }

// Children implements the Expression interface.
func (*NamedColumn) Children() []sql.Expression { return nil }

// IsNullable implements the Expression interface.
func (*NamedColumn) IsNullable() bool { return true }

// Type implements the Expression interface.
func (c *NamedColumn) Type() sql.Type { return c.typ }

// Eval implements the Expression interface.
func (c *NamedColumn) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, ErrNamedColumnEval.New(c.name)
}

// WithChildren implements the Expression interface.
func (c *NamedColumn) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 0)
	}
	return c, nil
}

func (c *NamedColumn) String() string {
	return c.name
}
