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
	"github.com/opentracing/opentracing-go"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/plan"
)

func (b *Builder) buildResolvedTable(ctx *sql.Context, n *plan.ResolvedTable) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.ResolvedTable", opentracing.Tags{
		"table":   n.Name(),
		"columns": len(n.Cols),
	})

	t, ok := n.Table.(sql.RowTable)
	if !ok {
		span.Finish()
		return nil, ErrTableNotIterable.New(n.Name())
	}

	iter, err := t.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &tableScanIter{
		indexes:   n.ColumnIndexes,
		childIter: iter,
	}), nil
}

// tableScanIter reads the scanned columns out of full table rows.
type tableScanIter struct {
	indexes   []int
	childIter sql.RowIter
}

func (i *tableScanIter) Next(ctx *sql.Context) (sql.Row, error) {
	row, err := i.childIter.Next(ctx)
	if err != nil {
		return nil, err
	}

	out := make(sql.Row, len(i.indexes))
	for j, idx := range i.indexes {
		if idx >= len(row) {
			return nil, sql.ErrUnexpectedRowLength.New(idx+1, len(row))
		}
		out[j] = row[idx]
	}
	return out, nil
}

func (i *tableScanIter) Close(ctx *sql.Context) error {
	return i.childIter.Close(ctx)
}

func (b *Builder) buildFilter(ctx *sql.Context, n *plan.Filter, scope *withScope) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Filter")

	cond, err := bindExpression(n.Expression, n.Child.Columns())
	if err != nil {
		span.Finish()
		return nil, err
	}

	i, err := b.buildNodeExec(ctx, n.Child, scope)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &filterIter{cond: cond, childIter: i}), nil
}

type filterIter struct {
	cond      sql.Expression
	childIter sql.RowIter
}

func (i *filterIter) Next(ctx *sql.Context) (sql.Row, error) {
	for {
		row, err := i.childIter.Next(ctx)
		if err != nil {
			return nil, err
		}

		ok, err := evaluateCondition(ctx, i.cond, row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

func (i *filterIter) Close(ctx *sql.Context) error {
	return i.childIter.Close(ctx)
}

func evaluateCondition(ctx *sql.Context, cond sql.Expression, row sql.Row) (bool, error) {
	v, err := cond.Eval(ctx, row)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	return ok && b, nil
}

func (b *Builder) buildJoin(ctx *sql.Context, n *plan.Join, scope *withScope) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Join", opentracing.Tags{
		"cross": n.IsCrossJoin(),
	})

	var cond sql.Expression
	if !n.IsCrossJoin() {
		var err error
		cond, err = bindExpression(n.Filter, n.Columns())
		if err != nil {
			span.Finish()
			return nil, err
		}
	}

	l, err := b.buildNodeExec(ctx, n.Left(), scope)
	if err != nil {
		span.Finish()
		return nil, err
	}

	r, err := b.buildNodeExec(ctx, n.Right(), scope)
	if err != nil {
		l.Close(ctx)
		span.Finish()
		return nil, err
	}
	rightRows, err := sql.RowIterToRows(ctx, r)
	if err != nil {
		l.Close(ctx)
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &joinIter{
		cond:      cond,
		leftIter:  l,
		rightRows: rightRows,
	}), nil
}

// joinIter is a nested loop join over the materialized rows of the right side.
type joinIter struct {
	cond      sql.Expression
	leftIter  sql.RowIter
	rightRows []sql.Row
	leftRow   sql.Row
	pos       int
}

func (i *joinIter) Next(ctx *sql.Context) (sql.Row, error) {
	for {
		if i.leftRow == nil || i.pos >= len(i.rightRows) {
			row, err := i.leftIter.Next(ctx)
			if err != nil {
				return nil, err
			}
			i.leftRow = row
			i.pos = 0
			continue
		}

		row := i.leftRow.Append(i.rightRows[i.pos])
		i.pos++

		if i.cond == nil {
			return row, nil
		}
		ok, err := evaluateCondition(ctx, i.cond, row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

func (i *joinIter) Close(ctx *sql.Context) error {
	i.rightRows = nil
	return i.leftIter.Close(ctx)
}

func (b *Builder) buildProject(ctx *sql.Context, n *plan.Project, scope *withScope) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.Project", opentracing.Tags{
		"columns":  len(n.Cols),
		"computed": len(n.Computed),
	})

	childCols := n.Child.Columns()
	projections := make([]sql.Expression, len(n.Cols))
	for i, col := range n.Cols {
		var e sql.Expression = expression.NewColumnRef(col)
		if c := expression.FindComputedColumn(n.Computed, col.Id); c != nil {
			e = c.Expr
		}
		bound, err := bindExpression(e, childCols)
		if err != nil {
			span.Finish()
			return nil, err
		}
		projections[i] = bound
	}

	i, err := b.buildNodeExec(ctx, n.Child, scope)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &projectIter{
		p:         projections,
		childIter: i,
	}), nil
}

type projectIter struct {
	p         []sql.Expression
	childIter sql.RowIter
}

func (i *projectIter) Next(ctx *sql.Context) (sql.Row, error) {
	childRow, err := i.childIter.Next(ctx)
	if err != nil {
		return nil, err
	}

	row := make(sql.Row, len(i.p))
	for j, expr := range i.p {
		row[j], err = expr.Eval(ctx, childRow)
		if err != nil {
			return nil, err
		}
	}
	return row, nil
}

func (i *projectIter) Close(ctx *sql.Context) error {
	return i.childIter.Close(ctx)
}
