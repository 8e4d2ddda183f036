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

package rowexec

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/plan"
)

var (
	// ErrUnsupportedNode is returned when a plan node cannot be executed.
	ErrUnsupportedNode = errors.NewKind("cannot execute node of type %T")

	// ErrWithEntryNotInScope is returned when a WITH reference names no WITH entry in scope.
	ErrWithEntryNotInScope = errors.NewKind("WITH entry %s is not in scope")

	// ErrNotAggregation is returned when a GroupBy aggregate is not an aggregation.
	ErrNotAggregation = errors.NewKind("group by aggregate %s is not an aggregation")

	// ErrTableNotIterable is returned when a scanned table cannot produce rows.
	ErrTableNotIterable = errors.NewKind("table %s cannot be iterated")
)

var DefaultBuilder = &Builder{}

// Builder converts a plan tree into a RowIter tree. Column references are bound to the position of their column
// in the input of the node evaluating them while the iterators are built.
type Builder struct{}

// Build returns the iterator over the rows of |n|.
func (b *Builder) Build(ctx *sql.Context, n sql.Node) (sql.RowIter, error) {
	return b.buildNodeExec(ctx, n, newWithScope(nil))
}

func (b *Builder) buildNodeExec(ctx *sql.Context, n sql.Node, scope *withScope) (sql.RowIter, error) {
	switch n := n.(type) {
	case *plan.ResolvedTable:
		return b.buildResolvedTable(ctx, n)
	case *plan.Filter:
		return b.buildFilter(ctx, n, scope)
	case *plan.Join:
		return b.buildJoin(ctx, n, scope)
	case *plan.Project:
		return b.buildProject(ctx, n, scope)
	case *plan.GroupBy:
		return b.buildGroupBy(ctx, n, scope)
	case *plan.With:
		return b.buildWith(ctx, n, scope)
	case *plan.WithEntry:
		return b.buildNodeExec(ctx, n.Child, scope)
	case *plan.WithRef:
		return b.buildWithRef(ctx, n, scope)
	default:
		return nil, ErrUnsupportedNode.New(n)
	}
}
