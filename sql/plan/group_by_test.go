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

package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	. "github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/types"
)

func TestGroupBy(t *testing.T) {
	require := require.New(t)
	alloc := sql.NewColumnIdAllocator(0)

	scan, err := NewTableScan(alloc, newTableTest("test"), "col1", "col2")
	require.NoError(err)
	col1, col2 := scan.Columns()[0], scan.Columns()[1]

	key := expression.NewComputedColumn(alloc.NewColumn("", "col2", types.Text), expression.NewColumnRef(col2))
	sum := expression.NewComputedColumn(alloc.NewColumn("", "total", types.Int64),
		aggregation.MustNewAggregateCall(aggregation.Sum, expression.NewColumnRef(col1)))

	g := NewGroupBy([]*expression.ComputedColumn{key}, []*expression.ComputedColumn{sum}, scan)
	require.Equal([]sql.PlanColumn{key.Column, sum.Column}, g.Columns())
	require.Equal([]sql.Expression{key.Expr, sum.Expr}, g.Expressions())

	ng, err := g.WithExpressions(expression.NewColumnRef(col1), sum.Expr)
	require.NoError(err)
	require.Equal(key.Column, ng.(*GroupBy).GroupingList[0].Column)
	require.Equal("test.col1#1", ng.(*GroupBy).GroupingList[0].Expr.String())

	_, err = g.WithExpressions(sum.Expr)
	require.Error(err)

	narrowed := g.WithColumns([]sql.PlanColumn{sum.Column})
	require.Equal([]sql.PlanColumn{sum.Column}, narrowed.Columns())
	require.Len(g.Columns(), 2)

	global := NewGroupBy(nil, []*expression.ComputedColumn{sum}, scan)
	require.Equal([]sql.PlanColumn{sum.Column}, global.Columns())
	require.Equal([]sql.Expression{sum.Expr}, global.Expressions())
}
