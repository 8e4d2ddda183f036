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

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Node is a node in the logical query plan. Nodes own their children: a transformation never mutates a node in
// place, it builds a new node with WithChildren or WithExpressions instead.
type Node interface {
	fmt.Stringer
	// Columns returns the columns produced by this node, in output order. Columns are identified by their id, not
	// their name, so two columns with the same name from different scopes never collide.
	Columns() []PlanColumn
	// Children returns the children nodes of this node.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with expressions replaced.
	// It will return an error if the number of expressions is different than
	// the current number of expressions. They must be given in the same order
	// as they are returned by Expressions.
	WithExpressions(exprs ...Expression) (Node, error)
}

// Expression is a combination of one or more SQL expressions.
type Expression interface {
	fmt.Stringer
	// Type returns the expression type.
	Type() Type
	// IsNullable returns whether the expression can be null.
	IsNullable() bool
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Expression) (Expression, error)
	// Eval evaluates the given row and returns a result.
	Eval(ctx *Context, row Row) (interface{}, error)
}

// ColumnDefiner is an expression that introduces columns of its own, visible only to its own sub-expressions. Aggregate
// calls with grouping modifiers define their grouping keys and inner aggregates this way.
type ColumnDefiner interface {
	Expression
	// DefinedColumns returns the columns introduced by this expression.
	DefinedColumns() []PlanColumn
	// WithDefinedColumns returns a copy of the expression with the defined columns replaced, in the order given by
	// DefinedColumns.
	WithDefinedColumns(cols ...PlanColumn) (Expression, error)
}

// Aggregation implements an aggregation expression, where an
// aggregation buffer is created for each grouping (NewBuffer). Rows for the
// grouping should be fed to the buffer with |Update| and the buffer should be
// eval'd with |Eval|.
type Aggregation interface {
	Expression
	// NewBuffer creates a new aggregation buffer and returns it.
	NewBuffer() (AggregationBuffer, error)
}

// AggregationBuffer accumulates the rows of a single group.
type AggregationBuffer interface {
	Disposable

	// Eval the given buffer.
	Eval(ctx *Context) (interface{}, error)
	// Update the given buffer with the given row.
	Update(ctx *Context, row Row) error
}

// Disposable objects can erase all their content when they're no longer in use.
// Expressions and nodes that implement Disposable will have Dispose called on them as a final stage of query
// execution.
type Disposable interface {
	// Dispose the contents.
	Dispose()
}

// DebugStringer is shared by implementors of Node and Expression, and is used for debugging the analyzer. It allows
// a node or expression to be printed in greater detail than its default String() representation.
type DebugStringer interface {
	// DebugString prints a debug string of the node in question.
	DebugString() string
}

// DebugString returns a debug string for the Node or Expression given.
func DebugString(nodeOrExpression interface{}) string {
	if ds, ok := nodeOrExpression.(DebugStringer); ok {
		return ds.DebugString()
	}
	if s, ok := nodeOrExpression.(fmt.Stringer); ok {
		return s.String()
	}
	panic(fmt.Sprintf("Expected sql.DebugString or fmt.Stringer for %T", nodeOrExpression))
}
