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
	"github.com/dolthub/go-measures/sql/expression"
)

// GroupBy groups the rows of its child by the GroupingList and computes the Aggregates over each group. It outputs
// Cols, each of which must be defined by either a grouping or an aggregate column. Without grouping columns, the
// whole input is a single group, even when it is empty.
type GroupBy struct {
	UnaryNode
	Cols         []sql.PlanColumn
	GroupingList []*expression.ComputedColumn
	Aggregates   []*expression.ComputedColumn
}

var _ sql.Node = (*GroupBy)(nil)
var _ sql.Expressioner = (*GroupBy)(nil)

// NewGroupBy creates a new GroupBy node outputting the grouping columns followed by the aggregates.
func NewGroupBy(grouping, aggregates []*expression.ComputedColumn, child sql.Node) *GroupBy {
	cols := append(expression.ComputedColumns(grouping), expression.ComputedColumns(aggregates)...)
	return &GroupBy{
		UnaryNode:    UnaryNode{Child: child},
		Cols:         cols,
		GroupingList: grouping,
		Aggregates:   aggregates,
	}
}

// Columns implements the sql.Node interface.
func (g *GroupBy) Columns() []sql.PlanColumn {
	return g.Cols
}

// WithChildren implements the Node interface.
func (g *GroupBy) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(children), 1)
	}
	ng := *g
	ng.Child = children[0]
	return &ng, nil
}

// WithColumns returns a copy of the node outputting the columns given.
func (g *GroupBy) WithColumns(cols []sql.PlanColumn) *GroupBy {
	ng := *g
	ng.Cols = cols
	return &ng
}

// WithAggregates returns a copy of the node with the aggregate list given.
func (g *GroupBy) WithAggregates(aggregates []*expression.ComputedColumn) *GroupBy {
	ng := *g
	ng.Aggregates = aggregates
	return &ng
}

// Expressions implements the Expressioner interface. The grouping expressions come first.
func (g *GroupBy) Expressions() []sql.Expression {
	var exprs []sql.Expression
	exprs = append(exprs, expression.ComputedExpressions(g.GroupingList)...)
	exprs = append(exprs, expression.ComputedExpressions(g.Aggregates)...)
	return exprs
}

// WithExpressions implements the Expressioner interface.
func (g *GroupBy) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	expected := len(g.GroupingList) + len(g.Aggregates)
	if len(exprs) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(exprs), expected)
	}

	ng := *g
	ng.GroupingList = expression.WithComputedExpressions(g.GroupingList, exprs[:len(g.GroupingList)])
	ng.Aggregates = expression.WithComputedExpressions(g.Aggregates, exprs[len(g.GroupingList):])
	return &ng, nil
}

func (g *GroupBy) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("GroupBy")
	_ = pr.WriteChildren(
		fmt.Sprintf("columns: [%s]", columnsString(g.Cols)),
		fmt.Sprintf("grouping: [%s]", computedString(g.GroupingList, false)),
		fmt.Sprintf("aggregates: [%s]", computedString(g.Aggregates, false)),
		g.Child.String(),
	)
	return pr.String()
}

func (g *GroupBy) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("GroupBy")
	_ = pr.WriteChildren(
		fmt.Sprintf("columns: [%s]", columnsDebugString(g.Cols)),
		fmt.Sprintf("grouping: [%s]", computedString(g.GroupingList, true)),
		fmt.Sprintf("aggregates: [%s]", computedString(g.Aggregates, true)),
		sql.DebugString(g.Child),
	)
	return pr.String()
}
