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

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/transform"
)

const (
	aggregateScope       = "$aggregate"
	groupByModifierScope = "$groupbymod"
	grainLockKeyName     = "grain_lock_key"
)

// multiLevelAggregateRewriter grain locks the aggregate calls of a measure expression: every argument is first
// reduced to one value per row identity with ANY_VALUE, so rows repeated by joins are only aggregated once.
//
//	SUM(x)  =>  SUM(a GROUP BY key := s.key_columns WITH a := ANY_VALUE(x))
//
// The top-level calls are hoisted into constituent aggregates, leaving a scalar expression over them.
type multiLevelAggregateRewriter struct {
	anyValue     *sql.Function
	alloc        *sql.ColumnIdAllocator
	structColumn sql.PlanColumn
	constituents []*expression.ComputedColumn
}

// rewriteMultiLevelAggregates returns the scalar expression computing the measure |e| from its constituent
// aggregates, and the constituent aggregates.
func rewriteMultiLevelAggregates(e sql.Expression, structColumn sql.PlanColumn, anyValue *sql.Function, alloc *sql.ColumnIdAllocator) (sql.Expression, []*expression.ComputedColumn, error) {
	r := &multiLevelAggregateRewriter{
		anyValue:     anyValue,
		alloc:        alloc,
		structColumn: structColumn,
	}
	final, _, err := r.rewrite(e, false)
	if err != nil {
		return nil, nil, err
	}
	return final, r.constituents, nil
}

func (r *multiLevelAggregateRewriter) rewrite(e sql.Expression, inAggregate bool) (sql.Expression, transform.TreeIdentity, error) {
	_, isCall := e.(*aggregation.AggregateCall)

	same := transform.SameTree
	children := e.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Expression, len(children))
		for i, child := range children {
			nc, identity, err := r.rewrite(child, inAggregate || isCall)
			if err != nil {
				return nil, transform.SameTree, err
			}
			if identity == transform.NewTree {
				same = transform.NewTree
			}
			newChildren[i] = nc
		}
		if same == transform.NewTree {
			var err error
			e, err = e.WithChildren(newChildren...)
			if err != nil {
				return nil, transform.SameTree, err
			}
		}
	}

	if !isCall {
		return e, same, nil
	}

	// Calls that already group their input keep their shape, only their inner aggregates are grain locked.
	call, err := r.grainLock(e.(*aggregation.AggregateCall))
	if err != nil {
		return nil, transform.SameTree, err
	}
	if call != e {
		same = transform.NewTree
	}
	if inAggregate {
		return call, same, nil
	}

	col := r.alloc.NewColumn(aggregateScope, fmt.Sprintf("constituent_aggregate_%d", len(r.constituents)), call.Type())
	r.constituents = append(r.constituents, expression.NewComputedColumn(col, call))
	return expression.NewColumnRef(col), transform.NewTree, nil
}

func (r *multiLevelAggregateRewriter) grainLock(call *aggregation.AggregateCall) (*aggregation.AggregateCall, error) {
	if len(call.InnerAggregates()) > 0 {
		return call, nil
	}
	if len(call.GenericArgs()) > 0 {
		return nil, ErrMeasureGenericArguments.New()
	}
	if len(call.GroupingList()) > 0 {
		return call, nil
	}

	args := call.Args()
	newArgs := make([]sql.Expression, len(args))
	inner := make([]*expression.ComputedColumn, len(args))
	for i, arg := range args {
		anyValue, err := aggregation.NewAggregateCall(r.anyValue, arg)
		if err != nil {
			return nil, err
		}
		col := r.alloc.NewColumn(aggregateScope, fmt.Sprintf("$any_value_grain_lock_%d", i), anyValue.Type())
		inner[i] = expression.NewComputedColumn(col, anyValue)
		newArgs[i] = expression.NewColumnRef(col)
	}

	key, err := expression.NewGetStructField(expression.NewColumnRef(r.structColumn), keyColumnsIndex)
	if err != nil {
		return nil, err
	}
	keyCol := r.alloc.NewColumn(groupByModifierScope, grainLockKeyName, key.Type())

	return call.
		WithArgs(newArgs...).
		WithInnerAggregates(inner...).
		WithGroupingList(expression.NewComputedColumn(keyCol, key)), nil
}
