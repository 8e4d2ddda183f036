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
	"fmt"
	"io"

	"github.com/cespare/xxhash"
	"github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/plan"
)

func (b *Builder) buildGroupBy(ctx *sql.Context, n *plan.GroupBy, scope *withScope) (sql.RowIter, error) {
	span, ctx := ctx.Span("plan.GroupBy", opentracing.Tags{
		"groupings":  len(n.GroupingList),
		"aggregates": len(n.Aggregates),
	})

	childCols := n.Child.Columns()
	grouping, err := bindComputed(n.GroupingList, childCols)
	if err != nil {
		span.Finish()
		return nil, err
	}
	aggregates, err := bindComputed(n.Aggregates, childCols)
	if err != nil {
		span.Finish()
		return nil, err
	}
	for _, a := range aggregates {
		if _, ok := a.Expr.(sql.Aggregation); !ok {
			span.Finish()
			return nil, ErrNotAggregation.New(a.Expr)
		}
	}

	// Output values are picked by column: grouping values first, then aggregate values.
	outputs := make([]int, len(n.Cols))
	for i, col := range n.Cols {
		if idx := computedIndex(grouping, col.Id); idx >= 0 {
			outputs[i] = idx
		} else if idx := computedIndex(aggregates, col.Id); idx >= 0 {
			outputs[i] = len(grouping) + idx
		} else {
			span.Finish()
			return nil, sql.ErrColumnIdNotFound.New(col, n)
		}
	}

	i, err := b.buildNodeExec(ctx, n.Child, scope)
	if err != nil {
		span.Finish()
		return nil, err
	}

	return sql.NewSpanIter(span, &groupByIter{
		grouping:   expression.ComputedExpressions(grouping),
		aggregates: expression.ComputedExpressions(aggregates),
		outputs:    outputs,
		child:      i,
	}), nil
}

func computedIndex(cols []*expression.ComputedColumn, id sql.ColumnId) int {
	for i, c := range cols {
		if c.Column.Id == id {
			return i
		}
	}
	return -1
}

type group struct {
	key     sql.Row
	buffers []sql.AggregationBuffer
}

// groupByIter groups the rows of its child and evaluates the aggregates of each group. Without grouping
// expressions, every row belongs to the same group, which exists even if the child produces no rows.
type groupByIter struct {
	grouping   []sql.Expression
	aggregates []sql.Expression
	outputs    []int
	child      sql.RowIter

	groups   map[uint64]*group
	keys     []uint64
	computed bool
	pos      int
}

func (i *groupByIter) Next(ctx *sql.Context) (sql.Row, error) {
	if !i.computed {
		i.computed = true
		if err := i.compute(ctx); err != nil {
			return nil, err
		}
	}

	if i.pos >= len(i.keys) {
		return nil, io.EOF
	}
	g := i.groups[i.keys[i.pos]]
	i.pos++

	values := make(sql.Row, 0, len(g.key)+len(g.buffers))
	values = append(values, g.key...)
	for _, b := range g.buffers {
		v, err := b.Eval(ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	row := make(sql.Row, len(i.outputs))
	for j, idx := range i.outputs {
		row[j] = values[idx]
	}
	return row, nil
}

func (i *groupByIter) compute(ctx *sql.Context) error {
	i.groups = make(map[uint64]*group)
	if len(i.grouping) == 0 {
		if _, err := i.get(0, nil); err != nil {
			return err
		}
	}

	for {
		row, err := i.child.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		keyRow := make(sql.Row, len(i.grouping))
		for j, expr := range i.grouping {
			keyRow[j], err = expr.Eval(ctx, row)
			if err != nil {
				return err
			}
		}
		var key uint64
		if len(i.grouping) > 0 {
			key, err = groupingKey(keyRow)
			if err != nil {
				return err
			}
		}

		g, err := i.get(key, keyRow)
		if err != nil {
			return err
		}
		for _, b := range g.buffers {
			if err := b.Update(ctx, row); err != nil {
				return err
			}
		}
	}
}

func (i *groupByIter) get(key uint64, keyRow sql.Row) (*group, error) {
	if g, ok := i.groups[key]; ok {
		return g, nil
	}

	g := &group{key: keyRow, buffers: make([]sql.AggregationBuffer, len(i.aggregates))}
	for j, a := range i.aggregates {
		var err error
		g.buffers[j], err = a.(sql.Aggregation).NewBuffer()
		if err != nil {
			return nil, err
		}
	}
	i.groups[key] = g
	i.keys = append(i.keys, key)
	return g, nil
}

func (i *groupByIter) Close(ctx *sql.Context) error {
	for _, g := range i.groups {
		for _, b := range g.buffers {
			b.Dispose()
		}
	}
	i.groups = nil
	return i.child.Close(ctx)
}

func groupingKey(values sql.Row) (uint64, error) {
	hash := xxhash.New()
	for _, v := range values {
		if err := writeKeyValue(hash, v); err != nil {
			return 0, err
		}
	}
	return hash.Sum64(), nil
}

func writeKeyValue(w io.Writer, v interface{}) error {
	switch v := v.(type) {
	case decimal.Decimal:
		_, err := fmt.Fprintf(w, "decimal(%s),", v.String())
		return err
	case []interface{}:
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		for _, f := range v {
			if err := writeKeyValue(w, f); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "),")
		return err
	default:
		_, err := fmt.Fprintf(w, "%#v,", v)
		return err
	}
}
