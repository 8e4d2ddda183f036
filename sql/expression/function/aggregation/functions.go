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
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

// The built-in aggregate functions.
var (
	// Aggregate is AGGREGATE(MEASURE<T>) => T, which evaluates a measure at the grain of the current group. It only
	// exists until measure expansion replaces it.
	Aggregate = sql.NewBuiltinFunction("AGGREGATE", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnAggregate, ArgCount: 1})
	// AnyValue is ANY_VALUE(x), which returns the value of x for any row of the group.
	AnyValue = sql.NewBuiltinFunction("ANY_VALUE", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnAnyValue, ArgCount: 1})
	Sum = sql.NewBuiltinFunction("SUM", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnSum, ArgCount: 1})
	Count = sql.NewBuiltinFunction("COUNT", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnCount, ArgCount: 0, ResultType: types.Int64},
		sql.FunctionSignature{ContextId: sql.FnCount, ArgCount: 1, ResultType: types.Int64})
	Min = sql.NewBuiltinFunction("MIN", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnMin, ArgCount: 1})
	Max = sql.NewBuiltinFunction("MAX", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnMax, ArgCount: 1})
	Avg = sql.NewBuiltinFunction("AVG", sql.AggregateFunction,
		sql.FunctionSignature{ContextId: sql.FnAvg, ArgCount: 1})
)

// Functions returns a registry with every built-in aggregate function.
func Functions() sql.FunctionRegistry {
	r := sql.NewFunctionRegistry()
	r.Register(Aggregate, AnyValue, Sum, Count, Min, Max, Avg)
	return r
}

// IsMeasureAggregate returns whether |e| is a call to the built-in AGGREGATE function.
func IsMeasureAggregate(e sql.Expression) bool {
	call, ok := e.(*AggregateCall)
	if !ok {
		return false
	}
	fn := call.Function()
	return fn.NumSignatures() == 1 &&
		fn.Signatures[0].ContextId == sql.FnAggregate &&
		fn.IsBuiltin()
}
