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

package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/memory"
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/rowexec"
	"github.com/dolthub/go-measures/sql/types"
)

// salesTable is T(id PRIMARY KEY, k1, k2, v, m MEASURE SUM(v), c MEASURE COUNT(*)).
func salesTable(t *testing.T, ctx *sql.Context) *memory.Table {
	t.Helper()
	v := expression.NewNamedColumn("v", types.Int64)
	table := memory.NewTable("T", sql.Schema{
		{Name: "id", Type: types.Int64, PrimaryKey: true},
		{Name: "k1", Type: types.Int64},
		{Name: "k2", Type: types.Int64},
		{Name: "v", Type: types.Int64, Nullable: true},
		{Name: "m", Type: types.NewMeasureType(types.Int64), Nullable: true,
			Measure: aggregation.MustNewAggregateCall(aggregation.Sum, v)},
		{Name: "c", Type: types.NewMeasureType(types.Int64), Nullable: true,
			Measure: aggregation.MustNewAggregateCall(aggregation.Count)},
	})
	for _, r := range []sql.Row{
		sql.NewRow(1, 1, 1, 10, nil, nil),
		sql.NewRow(2, 1, 2, 20, nil, nil),
		sql.NewRow(3, 2, 1, 30, nil, nil),
	} {
		require.NoError(t, table.Insert(ctx, r))
	}
	return table
}

// compositeKeyTable is T2(a, b, v, m MEASURE SUM(v)) with PRIMARY KEY (a, b).
func compositeKeyTable(t *testing.T, ctx *sql.Context) *memory.Table {
	t.Helper()
	v := expression.NewNamedColumn("v", types.Int64)
	table := memory.NewTable("T2", sql.Schema{
		{Name: "a", Type: types.Int64, PrimaryKey: true},
		{Name: "b", Type: types.Int64, PrimaryKey: true},
		{Name: "v", Type: types.Int64, Nullable: true},
		{Name: "m", Type: types.NewMeasureType(types.Int64), Nullable: true,
			Measure: aggregation.MustNewAggregateCall(aggregation.Sum, v)},
	})
	for _, r := range []sql.Row{
		sql.NewRow(1, 1, 10, nil),
		sql.NewRow(1, 2, 20, nil),
		sql.NewRow(2, 1, 30, nil),
	} {
		require.NoError(t, table.Insert(ctx, r))
	}
	return table
}

// groupedCountTable is T(id PRIMARY KEY, k1, g MEASURE SUM(c GROUP BY k1 WITH c := COUNT(*))).
func groupedCountTable(t *testing.T, ctx *sql.Context) *memory.Table {
	t.Helper()
	defs := sql.NewColumnIdAllocator(0)
	k := expression.NewComputedColumn(defs.NewColumn("$groupbymod", "k1", types.Int64), expression.NewNamedColumn("k1", types.Int64))
	c := expression.NewComputedColumn(defs.NewColumn("$aggregate", "c", types.Int64), aggregation.MustNewAggregateCall(aggregation.Count))
	g := aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(c.Column)).
		WithGroupingList(k).
		WithInnerAggregates(c)

	table := memory.NewTable("T", sql.Schema{
		{Name: "id", Type: types.Int64, PrimaryKey: true},
		{Name: "k1", Type: types.Int64},
		{Name: "g", Type: types.NewMeasureType(g.Type()), Nullable: true, Measure: g},
	})
	for _, r := range []sql.Row{
		sql.NewRow(1, 1, nil),
		sql.NewRow(2, 1, nil),
		sql.NewRow(3, 2, nil),
	} {
		require.NoError(t, table.Insert(ctx, r))
	}
	return table
}

// dupTable is Dup(n PRIMARY KEY) with |n| rows, used to fan out the rows it is joined with.
func dupTable(t *testing.T, ctx *sql.Context, n int) *memory.Table {
	t.Helper()
	table := memory.NewTable("Dup", sql.Schema{
		{Name: "n", Type: types.Int64, PrimaryKey: true},
	})
	for i := 0; i < n; i++ {
		require.NoError(t, table.Insert(ctx, sql.NewRow(i)))
	}
	return table
}

func scan(t *testing.T, alloc *sql.ColumnIdAllocator, table sql.Table, names ...string) *plan.ResolvedTable {
	t.Helper()
	s, err := plan.NewTableScan(alloc, table, names...)
	require.NoError(t, err)
	return s
}

func column(t *testing.T, n sql.Node, name string) sql.PlanColumn {
	t.Helper()
	for _, c := range n.Columns() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "column not found", "no column %s in %s", name, n)
	return sql.PlanColumn{}
}

// aggregateOf returns the computed column AGGREGATE(col).
func aggregateOf(alloc *sql.ColumnIdAllocator, col sql.PlanColumn) *expression.ComputedColumn {
	call := aggregation.MustNewAggregateCall(aggregation.Aggregate, expression.NewColumnRef(col))
	out := alloc.NewColumn("", fmt.Sprintf("AGGREGATE(%s)", col.Name), call.Type())
	return expression.NewComputedColumn(out, call)
}

// renameChain returns a query aggregating the measure m of |table| after renaming it |depth| times through WITH
// entries t0, t1, ...
func renameChain(t *testing.T, alloc *sql.ColumnIdAllocator, table sql.Table, depth int) sql.Node {
	t.Helper()
	var sub sql.Node = scan(t, alloc, table, "m")
	var entries []*plan.WithEntry
	for i := 0; i < depth; i++ {
		name := fmt.Sprintf("t%d", i)
		entries = append(entries, plan.NewWithEntry(name, sub))
		var cols []sql.PlanColumn
		for _, c := range sub.Columns() {
			cols = append(cols, alloc.NewColumn(name, c.Name, c.Type))
		}
		sub = plan.NewWithRef(name, cols)
	}

	m := sub.Columns()[0]
	query := plan.NewGroupBy(nil, []*expression.ComputedColumn{aggregateOf(alloc, m)}, sub)
	if depth == 0 {
		return query
	}
	return plan.NewWith(query, entries...)
}

func analyzeAndRun(t *testing.T, ctx *sql.Context, alloc *sql.ColumnIdAllocator, n sql.Node) (sql.Node, []sql.Row) {
	t.Helper()
	analyzed, err := NewDefault().AnalyzeWith(ctx, n, NewCompilationWithAllocator(alloc))
	require.NoError(t, err)

	iter, err := rowexec.DefaultBuilder.Build(ctx, analyzed)
	require.NoError(t, err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(t, err)
	return analyzed, rows
}
