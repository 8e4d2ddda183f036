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
	"github.com/dolthub/go-measures/sql"
)

// Join is an inner join of two nodes. A join without a condition is a cross join. It outputs the columns of the left
// node followed by the columns of the right node.
type Join struct {
	BinaryNode
	Filter sql.Expression
}

var _ sql.Node = (*Join)(nil)
var _ sql.Expressioner = (*Join)(nil)

// NewInnerJoin creates a new inner join node.
func NewInnerJoin(left, right sql.Node, cond sql.Expression) *Join {
	return &Join{
		BinaryNode: BinaryNode{left: left, right: right},
		Filter:     cond,
	}
}

// NewCrossJoin creates a new cross join node.
func NewCrossJoin(left, right sql.Node) *Join {
	return NewInnerJoin(left, right, nil)
}

// IsCrossJoin returns whether the join has no condition.
func (j *Join) IsCrossJoin() bool {
	return j.Filter == nil
}

// Columns implements the sql.Node interface.
func (j *Join) Columns() []sql.PlanColumn {
	return append(append([]sql.PlanColumn(nil), j.left.Columns()...), j.right.Columns()...)
}

// WithChildren implements the Node interface.
func (j *Join) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}

	return NewInnerJoin(children[0], children[1], j.Filter), nil
}

// Expressions implements the Expressioner interface.
func (j *Join) Expressions() []sql.Expression {
	if j.Filter == nil {
		return nil
	}
	return []sql.Expression{j.Filter}
}

// WithExpressions implements the Expressioner interface.
func (j *Join) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	expected := len(j.Expressions())
	if len(exprs) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(exprs), expected)
	}
	if expected == 0 {
		return j, nil
	}

	return NewInnerJoin(j.left, j.right, exprs[0]), nil
}

func (j *Join) String() string {
	pr := sql.NewTreePrinter()
	if j.IsCrossJoin() {
		_ = pr.WriteNode("CrossJoin")
	} else {
		_ = pr.WriteNode("InnerJoin(%s)", j.Filter)
	}
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *Join) DebugString() string {
	pr := sql.NewTreePrinter()
	if j.IsCrossJoin() {
		_ = pr.WriteNode("CrossJoin")
	} else {
		_ = pr.WriteNode("InnerJoin(%s)", sql.DebugString(j.Filter))
	}
	_ = pr.WriteChildren(sql.DebugString(j.left), sql.DebugString(j.right))
	return pr.String()
}
