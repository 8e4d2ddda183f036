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
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/plan"
)

// withScope holds the materialized rows of the WITH entries visible to a query.
type withScope struct {
	parent *withScope
	rows   map[string][]sql.Row
}

func newWithScope(parent *withScope) *withScope {
	return &withScope{parent: parent, rows: make(map[string][]sql.Row)}
}

func (s *withScope) lookup(name string) ([]sql.Row, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if rows, ok := cur.rows[strings.ToLower(name)]; ok {
			return rows, true
		}
	}
	return nil, false
}

func (b *Builder) buildWith(ctx *sql.Context, n *plan.With, scope *withScope) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.With", opentracing.Tags{
		"entries": len(n.Entries),
	})
	defer span.Finish()

	inner := newWithScope(scope)
	for _, e := range n.Entries {
		iter, err := b.buildNodeExec(ctx, e.Subquery(), inner)
		if err != nil {
			return nil, err
		}
		rows, err := sql.RowIterToRows(ctx, iter)
		if err != nil {
			return nil, err
		}
		inner.rows[strings.ToLower(e.Name)] = rows
	}

	return b.buildNodeExec(ctx, n.Query, inner)
}

func (b *Builder) buildWithRef(ctx *sql.Context, n *plan.WithRef, scope *withScope) (sql.RowIter, error) {
	rows, ok := scope.lookup(n.Name)
	if !ok {
		return nil, ErrWithEntryNotInScope.New(n.Name)
	}
	for _, r := range rows {
		if len(r) != len(n.Cols) {
			return nil, sql.ErrUnexpectedRowLength.New(len(n.Cols), len(r))
		}
	}
	return sql.RowsToRowIter(rows...), nil
}
