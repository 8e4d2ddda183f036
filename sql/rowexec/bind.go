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

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
)

// bindExpression binds the column references of |e| to the position of their column in |cols|. The arguments of
// a multi-level aggregate call are evaluated against its group rows, so they are bound to the columns of those.
func bindExpression(e sql.Expression, cols []sql.PlanColumn) (sql.Expression, error) {
	switch e := e.(type) {
	case *expression.ColumnRef:
		idx := sql.ColumnIndex(cols, e.Id())
		if idx < 0 {
			return nil, sql.ErrColumnIdNotFound.New(e.Column(), columnsString(cols))
		}
		return e.WithIndex(idx), nil
	case *aggregation.AggregateCall:
		if e.IsMultiLevel() {
			return bindMultiLevel(e, cols)
		}
	}

	children := e.Children()
	if len(children) == 0 {
		return e, nil
	}
	bound, err := bindExpressions(children, cols)
	if err != nil {
		return nil, err
	}
	return e.WithChildren(bound...)
}

func bindExpressions(exprs []sql.Expression, cols []sql.PlanColumn) ([]sql.Expression, error) {
	bound := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		var err error
		bound[i], err = bindExpression(e, cols)
		if err != nil {
			return nil, err
		}
	}
	return bound, nil
}

func bindComputed(computed []*expression.ComputedColumn, cols []sql.PlanColumn) ([]*expression.ComputedColumn, error) {
	bound := make([]*expression.ComputedColumn, len(computed))
	for i, c := range computed {
		e, err := bindExpression(c.Expr, cols)
		if err != nil {
			return nil, err
		}
		bound[i] = c.WithExpr(e)
	}
	return bound, nil
}

func bindMultiLevel(call *aggregation.AggregateCall, cols []sql.PlanColumn) (sql.Expression, error) {
	grouping, err := bindComputed(call.GroupingList(), cols)
	if err != nil {
		return nil, err
	}
	inner, err := bindComputed(call.InnerAggregates(), cols)
	if err != nil {
		return nil, err
	}

	groupRow := call.GroupRowColumns()
	args, err := bindExpressions(call.Args(), groupRow)
	if err != nil {
		return nil, err
	}
	genericArgs, err := bindExpressions(call.GenericArgs(), groupRow)
	if err != nil {
		return nil, err
	}

	return call.
		WithArgs(args...).
		WithGenericArgs(genericArgs...).
		WithGroupingList(grouping...).
		WithInnerAggregates(inner...), nil
}

func columnsString(cols []sql.PlanColumn) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
