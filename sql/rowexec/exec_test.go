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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/memory"
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/types"
)

func peopleTable(t *testing.T, ctx *sql.Context) *memory.Table {
	t.Helper()
	table := memory.NewTable("people", sql.Schema{
		{Name: "id", Type: types.Int64, PrimaryKey: true},
		{Name: "city", Type: types.Text},
		{Name: "age", Type: types.Int64, Nullable: true},
	})
	for _, r := range []sql.Row{
		sql.NewRow(1, "madrid", 30),
		sql.NewRow(2, "paris", 40),
		sql.NewRow(3, "madrid", nil),
		sql.NewRow(4, "madrid", 50),
	} {
		require.NoError(t, table.Insert(ctx, r))
	}
	return table
}

func citiesTable(t *testing.T, ctx *sql.Context) *memory.Table {
	t.Helper()
	table := memory.NewTable("cities", sql.Schema{
		{Name: "name", Type: types.Text, PrimaryKey: true},
		{Name: "country", Type: types.Text},
	})
	require.NoError(t, table.Insert(ctx, sql.NewRow("madrid", "spain")))
	require.NoError(t, table.Insert(ctx, sql.NewRow("paris", "france")))
	return table
}

func tableScan(t *testing.T, alloc *sql.ColumnIdAllocator, table sql.Table, names ...string) *plan.ResolvedTable {
	t.Helper()
	s, err := plan.NewTableScan(alloc, table, names...)
	require.NoError(t, err)
	return s
}

func col(t *testing.T, n sql.Node, name string) sql.PlanColumn {
	t.Helper()
	for _, c := range n.Columns() {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "column not found", "no column %s in %s", name, n)
	return sql.PlanColumn{}
}

func run(t *testing.T, ctx *sql.Context, n sql.Node) []sql.Row {
	t.Helper()
	iter, err := DefaultBuilder.Build(ctx, n)
	require.NoError(t, err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(t, err)
	return rows
}

func computed(alloc *sql.ColumnIdAllocator, name string, e sql.Expression) *expression.ComputedColumn {
	return expression.NewComputedColumn(alloc.NewColumn("", name, e.Type()), e)
}

func TestExecRelationalNodes(t *testing.T) {
	ctx := sql.NewEmptyContext()

	tests := []struct {
		name     string
		node     func(alloc *sql.ColumnIdAllocator) sql.Node
		expected []sql.Row
	}{
		{
			name: "scan picks columns",
			node: func(alloc *sql.ColumnIdAllocator) sql.Node {
				return tableScan(t, alloc, peopleTable(t, ctx), "age", "id")
			},
			expected: []sql.Row{{int64(30), int64(1)}, {int64(40), int64(2)}, {nil, int64(3)}, {int64(50), int64(4)}},
		},
		{
			name: "filter",
			node: func(alloc *sql.ColumnIdAllocator) sql.Node {
				s := tableScan(t, alloc, peopleTable(t, ctx), "id", "age")
				cond := expression.NewGreaterThan(
					expression.NewColumnRef(col(t, s, "age")),
					expression.NewLiteral(int64(35), types.Int64),
				)
				return plan.NewFilter(cond, s)
			},
			expected: []sql.Row{{int64(2), int64(40)}, {int64(4), int64(50)}},
		},
		{
			name: "project with computed column",
			node: func(alloc *sql.ColumnIdAllocator) sql.Node {
				s := tableScan(t, alloc, peopleTable(t, ctx), "id", "age")
				double := computed(alloc, "double", expression.NewMult(
					expression.NewColumnRef(col(t, s, "age")),
					expression.NewLiteral(int64(2), types.Int64),
				))
				return plan.NewProject([]sql.PlanColumn{double.Column, col(t, s, "id")}, []*expression.ComputedColumn{double}, s)
			},
			expected: []sql.Row{{int64(60), int64(1)}, {int64(80), int64(2)}, {nil, int64(3)}, {int64(100), int64(4)}},
		},
		{
			name: "cross join",
			node: func(alloc *sql.ColumnIdAllocator) sql.Node {
				s := tableScan(t, alloc, peopleTable(t, ctx), "id")
				f := plan.NewFilter(expression.NewLessThan(
					expression.NewColumnRef(col(t, s, "id")),
					expression.NewLiteral(int64(3), types.Int64),
				), s)
				return plan.NewCrossJoin(f, tableScan(t, alloc, citiesTable(t, ctx), "name"))
			},
			expected: []sql.Row{
				{int64(1), "madrid"}, {int64(1), "paris"},
				{int64(2), "madrid"}, {int64(2), "paris"},
			},
		},
		{
			name: "inner join",
			node: func(alloc *sql.ColumnIdAllocator) sql.Node {
				p := tableScan(t, alloc, peopleTable(t, ctx), "id", "city")
				c := tableScan(t, alloc, citiesTable(t, ctx), "name", "country")
				cond := expression.NewEquals(
					expression.NewColumnRef(col(t, p, "city")),
					expression.NewColumnRef(col(t, c, "name")),
				)
				join := plan.NewInnerJoin(p, c, cond)
				return plan.NewProject([]sql.PlanColumn{col(t, p, "id"), col(t, c, "country")}, nil, join)
			},
			expected: []sql.Row{
				{int64(1), "spain"}, {int64(2), "france"}, {int64(3), "spain"}, {int64(4), "spain"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := sql.NewColumnIdAllocator(0)
			require.Equal(t, tt.expected, run(t, ctx, tt.node(alloc)))
		})
	}
}

func TestExecGroupBy(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)

	s := tableScan(t, alloc, peopleTable(t, ctx), "city", "age")
	city := computed(alloc, "city", expression.NewColumnRef(col(t, s, "city")))
	count := computed(alloc, "COUNT(*)", aggregation.MustNewAggregateCall(aggregation.Count))
	countAge := computed(alloc, "COUNT(age)", aggregation.MustNewAggregateCall(aggregation.Count, expression.NewColumnRef(col(t, s, "age"))))
	sum := computed(alloc, "SUM(age)", aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(col(t, s, "age"))))

	g := plan.NewGroupBy([]*expression.ComputedColumn{city}, []*expression.ComputedColumn{count, countAge, sum}, s)
	require.Equal([]sql.Row{
		{"madrid", int64(3), int64(2), int64(80)},
		{"paris", int64(1), int64(1), int64(40)},
	}, run(t, ctx, g))

	// Output columns are picked by id, in any order.
	reordered := g.WithColumns([]sql.PlanColumn{sum.Column, city.Column})
	require.Equal([]sql.Row{{int64(80), "madrid"}, {int64(40), "paris"}}, run(t, ctx, reordered))
}

func TestExecGroupByWithoutRows(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)

	s := tableScan(t, alloc, peopleTable(t, ctx), "age")
	none := plan.NewFilter(expression.NewLiteral(false, types.Boolean), s)
	count := computed(alloc, "COUNT(*)", aggregation.MustNewAggregateCall(aggregation.Count))
	sum := computed(alloc, "SUM(age)", aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(col(t, s, "age"))))

	rows := run(t, ctx, plan.NewGroupBy(nil, []*expression.ComputedColumn{count, sum}, none))
	require.Equal([]sql.Row{{int64(0), nil}}, rows)

	age := computed(alloc, "age", expression.NewColumnRef(col(t, s, "age")))
	rows = run(t, ctx, plan.NewGroupBy([]*expression.ComputedColumn{age}, []*expression.ComputedColumn{count}, none))
	require.Empty(rows)
}

func TestExecMultiLevelAggregate(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)

	// Every person shows up once per city: the ages have to be deduplicated by person before summing them.
	p := tableScan(t, alloc, peopleTable(t, ctx), "id", "age")
	join := plan.NewCrossJoin(p, tableScan(t, alloc, citiesTable(t, ctx), "name"))

	anyAge := computed(alloc, "any_age", aggregation.MustNewAggregateCall(aggregation.AnyValue, expression.NewColumnRef(col(t, p, "age"))))
	key := computed(alloc, "key", expression.NewColumnRef(col(t, p, "id")))
	locked := aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(anyAge.Column)).
		WithGroupingList(key).
		WithInnerAggregates(anyAge)
	naive := aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(col(t, p, "age")))
	people := aggregation.MustNewAggregateCall(aggregation.Count).WithGroupingList(key)

	g := plan.NewGroupBy(nil, []*expression.ComputedColumn{
		computed(alloc, "locked", locked),
		computed(alloc, "naive", naive),
		computed(alloc, "people", people),
	}, join)
	require.Equal([]sql.Row{{int64(120), int64(240), int64(4)}}, run(t, ctx, g))
}

func TestExecStructValues(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)
	f := types.NewStructFactory()

	keyType, err := f.MakeStructType(types.StructField{Name: "id", Type: types.Int64})
	require.NoError(err)

	s := tableScan(t, alloc, peopleTable(t, ctx), "id", "age")
	mk, err := expression.NewMakeStruct(keyType, expression.NewColumnRef(col(t, s, "id")))
	require.NoError(err)
	keyCol := computed(alloc, "k", mk)
	p := plan.NewProject(append(s.Columns(), keyCol.Column), []*expression.ComputedColumn{keyCol}, s)

	// Grouping by a struct value.
	count := computed(alloc, "n", aggregation.MustNewAggregateCall(aggregation.Count))
	g := plan.NewGroupBy([]*expression.ComputedColumn{computed(alloc, "key", expression.NewColumnRef(keyCol.Column))},
		[]*expression.ComputedColumn{count}, p)
	rows := run(t, ctx, g)
	require.Len(rows, 4)
	require.Equal(sql.Row{[]interface{}{int64(1)}, int64(1)}, rows[0])

	field, err := expression.NewGetStructField(expression.NewColumnRef(keyCol.Column), 0)
	require.NoError(err)
	id := computed(alloc, "id", field)
	rows = run(t, ctx, plan.NewProject([]sql.PlanColumn{id.Column}, []*expression.ComputedColumn{id}, p))
	require.Equal([]sql.Row{{int64(1)}, {int64(2)}, {int64(3)}, {int64(4)}}, rows)
}

func TestExecWith(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)

	s := tableScan(t, alloc, peopleTable(t, ctx), "id", "city")
	ref := plan.NewWithRef("P", []sql.PlanColumn{
		alloc.NewColumn("p", "id", types.Int64),
		alloc.NewColumn("p", "city", types.Text),
	})
	query := plan.NewProject([]sql.PlanColumn{ref.Cols[1]}, nil, plan.NewFilter(
		expression.NewEquals(expression.NewColumnRef(ref.Cols[0]), expression.NewLiteral(int64(2), types.Int64)),
		ref,
	))
	rows := run(t, ctx, plan.NewWith(query, plan.NewWithEntry("p", s)))
	require.Equal([]sql.Row{{"paris"}}, rows)

	_, err := DefaultBuilder.Build(ctx, ref)
	require.Error(err)
	require.True(ErrWithEntryNotInScope.Is(err))

	// The reference and the entry must agree on the number of columns.
	short := plan.NewWithRef("p", ref.Cols[:1])
	iter, err := DefaultBuilder.Build(ctx, plan.NewWith(short, plan.NewWithEntry("p", s)))
	if err == nil {
		_, err = sql.RowIterToRows(ctx, iter)
	}
	require.Error(err)
	require.True(sql.ErrUnexpectedRowLength.Is(err))
}

func TestExecErrors(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	alloc := sql.NewColumnIdAllocator(0)
	s := tableScan(t, alloc, peopleTable(t, ctx), "id")

	unknown := alloc.NewColumn("x", "unknown", types.Int64)
	_, err := DefaultBuilder.Build(ctx, plan.NewProject([]sql.PlanColumn{unknown}, nil, s))
	require.Error(err)
	require.True(sql.ErrColumnIdNotFound.Is(err))

	notAgg := computed(alloc, "id", expression.NewColumnRef(col(t, s, "id")))
	_, err = DefaultBuilder.Build(ctx, plan.NewGroupBy(nil, []*expression.ComputedColumn{notAgg}, s))
	require.Error(err)
	require.True(ErrNotAggregation.Is(err))

	_, err = DefaultBuilder.Build(ctx, plan.NewWithEntry("e", s))
	require.NoError(err)
}

func TestGroupingKey(t *testing.T) {
	require := require.New(t)

	k1, err := groupingKey(sql.Row{decimal.RequireFromString("1.50"), "a"})
	require.NoError(err)
	k2, err := groupingKey(sql.Row{decimal.RequireFromString("1.50"), "a"})
	require.NoError(err)
	require.Equal(k1, k2)

	// Decimals are keyed by value, not by representation.
	k3, err := groupingKey(sql.Row{decimal.RequireFromString("1.5"), "a"})
	require.NoError(err)
	require.Equal(k1, k3)

	k4, err := groupingKey(sql.Row{decimal.RequireFromString("2.5"), "a"})
	require.NoError(err)
	require.NotEqual(k1, k4)

	s1, err := groupingKey(sql.Row{[]interface{}{int64(1), "x"}})
	require.NoError(err)
	s2, err := groupingKey(sql.Row{[]interface{}{int64(1)}, "x"})
	require.NoError(err)
	require.NotEqual(s1, s2)

	n1, err := groupingKey(sql.Row{int64(1)})
	require.NoError(err)
	n2, err := groupingKey(sql.Row{"1"})
	require.NoError(err)
	require.NotEqual(n1, n2)
}
