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

package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/types"
)

func TestCopyAndRemapColumns(t *testing.T) {
	require := require.New(t)

	x := sql.PlanColumn{Id: 1, Scope: "t", Name: "x", Type: types.Int64}
	k := sql.PlanColumn{Id: 2, Scope: "t", Name: "k", Type: types.Int64}
	inner := sql.PlanColumn{Id: 10, Scope: "$aggregate", Name: "a", Type: types.Int64}
	key := sql.PlanColumn{Id: 11, Scope: "$groupbymod", Name: "key", Type: types.Int64}

	call := aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(inner)).
		WithGroupingList(expression.NewComputedColumn(key, expression.NewColumnRef(k))).
		WithInnerAggregates(expression.NewComputedColumn(inner,
			aggregation.MustNewAggregateCall(aggregation.AnyValue, expression.NewColumnRef(x))))
	original := call.String()

	k2 := sql.PlanColumn{Id: 5, Scope: "u", Name: "k", Type: types.Int64}
	alloc := sql.NewColumnIdAllocator(20)
	copied, err := CopyAndRemapColumns(call, alloc, ColumnMap{k.Id: k2})
	require.NoError(err)
	require.Equal(original, call.String())

	c := copied.(*aggregation.AggregateCall)
	require.NotSame(call, c)

	grouping := c.GroupingList()
	require.Len(grouping, 1)
	require.Equal(sql.ColumnId(21), grouping[0].Column.Id)
	require.Equal("key", grouping[0].Column.Name)
	require.Equal(k2.Id, grouping[0].Expr.(*expression.ColumnRef).Id())

	inners := c.InnerAggregates()
	require.Len(inners, 1)
	require.Equal(sql.ColumnId(22), inners[0].Column.Id)
	anyValue := inners[0].Expr.(*aggregation.AggregateCall)
	require.Equal(x.Id, anyValue.Args()[0].(*expression.ColumnRef).Id())

	require.Equal(sql.ColumnId(22), c.Args()[0].(*expression.ColumnRef).Id())
	require.Equal([]sql.ColumnId{22, 5, 1}, ReferencedColumns(c))
	require.Equal(sql.ColumnId(22), alloc.MaxId())
}

func TestCopyAndRemapColumnsTwice(t *testing.T) {
	require := require.New(t)

	v := expression.NewNamedColumn("v", types.Int64)
	inner := sql.PlanColumn{Id: 3, Scope: "$aggregate", Name: "a", Type: types.Int64}
	call := aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(inner)).
		WithInnerAggregates(expression.NewComputedColumn(inner, aggregation.MustNewAggregateCall(aggregation.AnyValue, v)))

	alloc := sql.NewColumnIdAllocator(3)
	first, err := CopyAndRemapColumns(call, alloc, nil)
	require.NoError(err)
	second, err := CopyAndRemapColumns(call, alloc, nil)
	require.NoError(err)

	firstDefined := first.(sql.ColumnDefiner).DefinedColumns()
	secondDefined := second.(sql.ColumnDefiner).DefinedColumns()
	require.NotEqual(firstDefined[0].Id, secondDefined[0].Id)
	require.Equal([]sql.ColumnId{firstDefined[0].Id}, ReferencedColumns(first))
	require.Equal([]sql.ColumnId{secondDefined[0].Id}, ReferencedColumns(second))
}

func TestInspectExpr(t *testing.T) {
	require := require.New(t)

	e := expression.NewPlus(
		expression.NewNamedColumn("a", types.Int64),
		expression.NewMult(expression.NewNamedColumn("b", types.Int64), expression.NewLiteral(int64(2), types.Int64)),
	)

	var names []string
	stopped := InspectExpr(e, func(e sql.Expression) bool {
		if n, ok := e.(*expression.NamedColumn); ok {
			names = append(names, n.Name())
		}
		return false
	})
	require.False(stopped)
	require.Equal([]string{"a", "b"}, names)

	stopped = InspectExpr(e, func(e sql.Expression) bool {
		_, ok := e.(*expression.Literal)
		return ok
	})
	require.True(stopped)
}
