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
package aggregation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/types"
)

func boundRef(id sql.ColumnId, name string, typ sql.Type, idx int) *expression.ColumnRef {
	return expression.NewColumnRef(sql.PlanColumn{Id: id, Scope: "t", Name: name, Type: typ}).WithIndex(idx)
}

func evalAggregate(t *testing.T, agg sql.Aggregation, rows ...sql.Row) interface{} {
	t.Helper()
	ctx := sql.NewEmptyContext()
	buf, err := agg.NewBuffer()
	require.NoError(t, err)
	defer buf.Dispose()
	for _, row := range rows {
		require.NoError(t, buf.Update(ctx, row))
	}
	v, err := buf.Eval(ctx)
	require.NoError(t, err)
	return v
}

func TestResultTypes(t *testing.T) {
	require := require.New(t)
	i := boundRef(1, "i", types.Int64, 0)
	d := boundRef(2, "d", types.Decimal, 1)
	m := boundRef(3, "m", types.NewMeasureType(types.Float64), 2)

	require.Equal(types.Int64, MustNewAggregateCall(Sum, i).Type())
	require.Equal(types.Float64, MustNewAggregateCall(Avg, i).Type())
	require.Equal(types.Decimal, MustNewAggregateCall(Avg, d).Type())
	require.Equal(types.Int64, MustNewAggregateCall(Count).Type())
	require.Equal(types.Int64, MustNewAggregateCall(Count, d).Type())
	require.Equal(types.Float64, MustNewAggregateCall(Aggregate, m).Type())

	_, err := NewAggregateCall(Aggregate, i)
	require.True(sql.ErrInvalidType.Is(err))

	_, err = NewAggregateCall(Sum)
	require.True(sql.ErrInvalidArgumentNumber.Is(err))

	_, err = NewAggregateCall(sql.NewBuiltinFunction("LOWER", sql.ScalarFunction,
		sql.FunctionSignature{ArgCount: 1}), i)
	require.True(ErrNotAggregate.Is(err))
}

func TestIsMeasureAggregate(t *testing.T) {
	require := require.New(t)
	m := boundRef(3, "m", types.NewMeasureType(types.Int64), 0)

	require.True(IsMeasureAggregate(MustNewAggregateCall(Aggregate, m)))
	require.False(IsMeasureAggregate(MustNewAggregateCall(AnyValue, m)))
	require.False(IsMeasureAggregate(m))

	external := sql.NewExternalFunction("AGGREGATE", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnAggregate, ArgCount: 1})
	require.False(IsMeasureAggregate(MustNewAggregateCall(external, m)))

	overloaded := sql.NewBuiltinFunction("AGGREGATE", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnAggregate, ArgCount: 1},
		sql.FunctionSignature{ContextId: sql.FnAggregate, ArgCount: 2})
	require.False(IsMeasureAggregate(MustNewAggregateCall(overloaded, m)))
}

func TestFlatBuffers(t *testing.T) {
	x := boundRef(1, "x", types.Int64, 0)
	f := boundRef(2, "f", types.Float64, 1)
	rows := []sql.Row{
		{int64(3), 1.5},
		{nil, 2.5},
		{int64(3), nil},
		{int64(1), 0.5},
	}

	testCases := []struct {
		name     string
		agg      *AggregateCall
		expected interface{}
	}{
		{"sum", MustNewAggregateCall(Sum, x), int64(7)},
		{"sum float", MustNewAggregateCall(Sum, f), 4.5},
		{"sum distinct", MustNewAggregateCall(Sum, x).WithDistinct(true), int64(4)},
		{"count star", MustNewAggregateCall(Count), int64(4)},
		{"count", MustNewAggregateCall(Count, x), int64(3)},
		{"count distinct", MustNewAggregateCall(Count, x).WithDistinct(true), int64(2)},
		{"min", MustNewAggregateCall(Min, x), int64(1)},
		{"max", MustNewAggregateCall(Max, f), 2.5},
		{"avg", MustNewAggregateCall(Avg, f), 1.5},
		{"any value", MustNewAggregateCall(AnyValue, x), int64(3)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, evalAggregate(t, tt.agg, rows...))
		})
	}
}

func TestEmptyBuffers(t *testing.T) {
	x := boundRef(1, "x", types.Int64, 0)
	require.Nil(t, evalAggregate(t, MustNewAggregateCall(Sum, x)))
	require.Nil(t, evalAggregate(t, MustNewAggregateCall(Avg, x)))
	require.Equal(t, int64(0), evalAggregate(t, MustNewAggregateCall(Count, x)))
}

func TestDecimalSum(t *testing.T) {
	d := boundRef(1, "d", types.Decimal, 0)
	v := evalAggregate(t, MustNewAggregateCall(Sum, d).WithDistinct(true),
		sql.Row{decimal.RequireFromString("1.25")},
		sql.Row{decimal.RequireFromString("1.25")},
		sql.Row{decimal.RequireFromString("2.5")},
	)
	require.True(t, decimal.RequireFromString("3.75").Equal(v.(decimal.Decimal)))
}

func TestDecimalsHashByValue(t *testing.T) {
	require := require.New(t)
	d := boundRef(1, "d", types.Decimal, 0)

	rows := []sql.Row{
		{decimal.RequireFromString("1.0")},
		{decimal.RequireFromString("1.00")},
		{decimal.New(1, 0)},
		{decimal.New(10, -1)},
		{decimal.RequireFromString("2.50")},
		{decimal.RequireFromString("2.5")},
	}
	require.Equal(int64(2), evalAggregate(t, MustNewAggregateCall(Count, d).WithDistinct(true), rows...))

	a, err := hashValue([]interface{}{decimal.RequireFromString("100"), decimal.New(1, 2)})
	require.NoError(err)
	b, err := hashValue([]interface{}{decimal.RequireFromString("100.000"), decimal.New(1000, -1)})
	require.NoError(err)
	require.Equal(a, b)
}

func TestMeasureAggregateBuffer(t *testing.T) {
	m := boundRef(1, "m", types.NewMeasureType(types.Int64), 0)
	buf, err := MustNewAggregateCall(Aggregate, m).NewBuffer()
	require.NoError(t, err)
	err = buf.Update(sql.NewEmptyContext(), sql.Row{nil})
	require.True(t, sql.ErrMeasureNotMaterialized.Is(err))

	_, err = MustNewAggregateCall(Sum, m).Eval(sql.NewEmptyContext(), nil)
	require.True(t, ErrAggregateEval.Is(err))
}

// SUM(ANY_VALUE(x) GROUP BY k) over rows duplicated by a join.
func TestMultiLevelBufferDeduplicatesByKey(t *testing.T) {
	require := require.New(t)

	k := boundRef(1, "k", types.Int64, 0)
	x := boundRef(2, "x", types.Int64, 1)
	anyValueCol := sql.PlanColumn{Id: 10, Scope: "$aggregate", Name: "$any_value_grain_lock_0", Type: types.Int64}
	keyCol := sql.PlanColumn{Id: 11, Scope: "$groupbymod", Name: "grain_lock_key", Type: types.Int64}

	call := MustNewAggregateCall(Sum, expression.NewColumnRef(anyValueCol).WithIndex(0)).
		WithInnerAggregates(expression.NewComputedColumn(anyValueCol, MustNewAggregateCall(AnyValue, x))).
		WithGroupingList(expression.NewComputedColumn(keyCol, k))

	require.True(call.IsMultiLevel())
	require.Equal([]sql.PlanColumn{anyValueCol, keyCol}, call.GroupRowColumns())
	require.Equal([]sql.PlanColumn{keyCol, anyValueCol}, call.DefinedColumns())

	var rows []sql.Row
	for i := 0; i < 3; i++ {
		rows = append(rows,
			sql.Row{int64(1), int64(10)},
			sql.Row{int64(2), int64(20)},
			sql.Row{int64(3), int64(30)},
		)
	}
	require.Equal(int64(60), evalAggregate(t, call, rows...))

	count := MustNewAggregateCall(Count).
		WithInnerAggregates(expression.NewComputedColumn(anyValueCol, MustNewAggregateCall(AnyValue, x))).
		WithGroupingList(expression.NewComputedColumn(keyCol, k))
	require.Equal(int64(3), evalAggregate(t, count, rows...))
}

func TestAggregateCallChildren(t *testing.T) {
	require := require.New(t)

	k := boundRef(1, "k", types.Int64, 0)
	x := boundRef(2, "x", types.Int64, 1)
	y := boundRef(3, "y", types.Int64, 2)
	anyValueCol := sql.PlanColumn{Id: 10, Name: "a", Type: types.Int64}
	keyCol := sql.PlanColumn{Id: 11, Name: "key", Type: types.Int64}

	call := MustNewAggregateCall(Sum, expression.NewColumnRef(anyValueCol)).
		WithInnerAggregates(expression.NewComputedColumn(anyValueCol, MustNewAggregateCall(AnyValue, x))).
		WithGroupingList(expression.NewComputedColumn(keyCol, k))

	children := call.Children()
	require.Len(children, 3)
	require.Equal(k, children[1])

	children[1] = y
	nc, err := call.WithChildren(children...)
	require.NoError(err)
	require.Equal(y, nc.(*AggregateCall).GroupingList()[0].Expr)
	require.Equal(k, call.GroupingList()[0].Expr)

	_, err = call.WithChildren(x)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))

	newKey := sql.PlanColumn{Id: 20, Name: "key", Type: types.Int64}
	newAny := sql.PlanColumn{Id: 21, Name: "a", Type: types.Int64}
	nd, err := call.WithDefinedColumns(newKey, newAny)
	require.NoError(err)
	require.Equal([]sql.PlanColumn{newKey, newAny}, nd.(sql.ColumnDefiner).DefinedColumns())

	require.Equal("SUM(a#10 GROUP BY key#11 := t.k#1 WITH a#10 := ANY_VALUE(t.x#2))", call.String())
}
