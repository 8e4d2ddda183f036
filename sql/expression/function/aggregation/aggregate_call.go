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
	"fmt"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/types"
)

var (
	// ErrAggregateEval is returned when an aggregate call is evaluated as a scalar expression.
	ErrAggregateEval = errors.NewKind("aggregate %s can only be evaluated through an aggregation buffer")

	// ErrNotAggregate is returned when a function that is not an aggregate is called as one.
	ErrNotAggregate = errors.NewKind("function %s is not an aggregate function")

	// ErrInnerAggregate is returned when a multi-level aggregate computes something other than an aggregate at its
	// inner level.
	ErrInnerAggregate = errors.NewKind("inner aggregate %s is not an aggregation")
)

// AggregateCall is a call to an aggregate function.
//
// A multi-level aggregate call has a grouping list and a list of inner aggregates: rows are first grouped by the
// grouping list and the inner aggregates are computed per group, then the call's own arguments are computed once
// per group over a row made of the inner aggregate values followed by the grouping values, and fed to the
// function. SUM(ANY_VALUE(x) GROUP BY k) sums one value of x per distinct k.
type AggregateCall struct {
	fn              *sql.Function
	sig             sql.FunctionSignature
	args            []sql.Expression
	genericArgs     []sql.Expression
	distinct        bool
	groupingList    []*expression.ComputedColumn
	innerAggregates []*expression.ComputedColumn
	typ             sql.Type
}

var _ sql.Aggregation = (*AggregateCall)(nil)
var _ sql.ColumnDefiner = (*AggregateCall)(nil)

// NewAggregateCall resolves a call to the aggregate function |fn|.
func NewAggregateCall(fn *sql.Function, args ...sql.Expression) (*AggregateCall, error) {
	if !fn.IsAggregate() {
		return nil, ErrNotAggregate.New(fn.Name)
	}
	sig, err := fn.Signature(len(args))
	if err != nil {
		return nil, err
	}
	typ, err := resultType(fn, sig, args)
	if err != nil {
		return nil, err
	}
	return &AggregateCall{
		fn:   fn,
		sig:  sig,
		args: args,
		typ:  typ,
	}, nil
}

// MustNewAggregateCall is the same as NewAggregateCall except it panics on errors.
func MustNewAggregateCall(fn *sql.Function, args ...sql.Expression) *AggregateCall {
	call, err := NewAggregateCall(fn, args...)
	if err != nil {
		panic(err)
	}
	return call
}

func resultType(fn *sql.Function, sig sql.FunctionSignature, args []sql.Expression) (sql.Type, error) {
	if sig.ResultType != nil {
		return sig.ResultType, nil
	}
	if len(args) == 0 {
		return nil, sql.ErrInvalidArgumentNumber.New(fn.Name, 1, 0)
	}

	argType := args[0].Type()
	switch sig.ContextId {
	case sql.FnAggregate:
		mt, ok := argType.(types.MeasureType)
		if !ok {
			return nil, sql.ErrInvalidType.New(fmt.Sprintf("%s expects a measure, got %s", fn.Name, argType))
		}
		return mt.Result, nil
	case sql.FnAvg:
		if types.IsDecimal(argType) {
			return types.Decimal, nil
		}
		return types.Float64, nil
	default:
		return argType, nil
	}
}

// Function returns the function called.
func (a *AggregateCall) Function() *sql.Function { return a.fn }

// Signature returns the signature the call resolved to.
func (a *AggregateCall) Signature() sql.FunctionSignature { return a.sig }

// Args returns the arguments of the call.
func (a *AggregateCall) Args() []sql.Expression { return a.args }

// GenericArgs returns the generic arguments of the call, such as lambdas.
func (a *AggregateCall) GenericArgs() []sql.Expression { return a.genericArgs }

// Distinct returns whether the call only aggregates distinct argument values.
func (a *AggregateCall) Distinct() bool { return a.distinct }

// GroupingList returns the grouping keys of a multi-level aggregate.
func (a *AggregateCall) GroupingList() []*expression.ComputedColumn { return a.groupingList }

// InnerAggregates returns the aggregates computed per group of a multi-level aggregate.
func (a *AggregateCall) InnerAggregates() []*expression.ComputedColumn { return a.innerAggregates }

// IsMultiLevel returns whether this call groups its input before aggregating it.
func (a *AggregateCall) IsMultiLevel() bool {
	return len(a.groupingList) > 0 || len(a.innerAggregates) > 0
}

// GroupRowColumns returns the columns of the rows the arguments of a multi-level aggregate are evaluated against:
// the inner aggregates followed by the grouping keys.
func (a *AggregateCall) GroupRowColumns() []sql.PlanColumn {
	return append(expression.ComputedColumns(a.innerAggregates), expression.ComputedColumns(a.groupingList)...)
}

// WithArgs returns a copy of the call with the arguments given. The result type is not resolved again.
func (a *AggregateCall) WithArgs(args ...sql.Expression) *AggregateCall {
	na := *a
	na.args = args
	return &na
}

// WithGenericArgs returns a copy of the call with the generic arguments given.
func (a *AggregateCall) WithGenericArgs(args ...sql.Expression) *AggregateCall {
	na := *a
	na.genericArgs = args
	return &na
}

// WithDistinct returns a copy of the call with the distinct flag given.
func (a *AggregateCall) WithDistinct(distinct bool) *AggregateCall {
	na := *a
	na.distinct = distinct
	return &na
}

// WithGroupingList returns a copy of the call with the grouping list given.
func (a *AggregateCall) WithGroupingList(cols ...*expression.ComputedColumn) *AggregateCall {
	na := *a
	na.groupingList = cols
	return &na
}

// WithInnerAggregates returns a copy of the call with the inner aggregates given.
func (a *AggregateCall) WithInnerAggregates(cols ...*expression.ComputedColumn) *AggregateCall {
	na := *a
	na.innerAggregates = cols
	return &na
}

// Type implements the Expression interface.
func (a *AggregateCall) Type() sql.Type {
	return a.typ
}

// IsNullable implements the Expression interface.
func (a *AggregateCall) IsNullable() bool {
	return a.sig.ContextId != sql.FnCount
}

// Children implements the Expression interface. Children are the arguments, then the generic arguments, then the
// grouping expressions and then the inner aggregates.
func (a *AggregateCall) Children() []sql.Expression {
	children := make([]sql.Expression, 0, len(a.args)+len(a.genericArgs)+len(a.groupingList)+len(a.innerAggregates))
	children = append(children, a.args...)
	children = append(children, a.genericArgs...)
	children = append(children, expression.ComputedExpressions(a.groupingList)...)
	children = append(children, expression.ComputedExpressions(a.innerAggregates)...)
	return children
}

// WithChildren implements the Expression interface.
func (a *AggregateCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	expected := len(a.args) + len(a.genericArgs) + len(a.groupingList) + len(a.innerAggregates)
	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), expected)
	}

	na := *a
	i := 0
	na.args = children[i : i+len(a.args)]
	i += len(a.args)
	if len(a.genericArgs) > 0 {
		na.genericArgs = children[i : i+len(a.genericArgs)]
		i += len(a.genericArgs)
	}
	if len(a.groupingList) > 0 {
		na.groupingList = expression.WithComputedExpressions(a.groupingList, children[i:i+len(a.groupingList)])
		i += len(a.groupingList)
	}
	if len(a.innerAggregates) > 0 {
		na.innerAggregates = expression.WithComputedExpressions(a.innerAggregates, children[i:])
	}
	return &na, nil
}

// DefinedColumns implements the sql.ColumnDefiner interface.
func (a *AggregateCall) DefinedColumns() []sql.PlanColumn {
	return append(expression.ComputedColumns(a.groupingList), expression.ComputedColumns(a.innerAggregates)...)
}

// WithDefinedColumns implements the sql.ColumnDefiner interface.
func (a *AggregateCall) WithDefinedColumns(cols ...sql.PlanColumn) (sql.Expression, error) {
	expected := len(a.groupingList) + len(a.innerAggregates)
	if len(cols) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(cols), expected)
	}

	na := *a
	if len(a.groupingList) > 0 {
		na.groupingList = make([]*expression.ComputedColumn, len(a.groupingList))
		for i, c := range a.groupingList {
			na.groupingList[i] = c.WithColumn(cols[i])
		}
	}
	if len(a.innerAggregates) > 0 {
		na.innerAggregates = make([]*expression.ComputedColumn, len(a.innerAggregates))
		for i, c := range a.innerAggregates {
			na.innerAggregates[i] = c.WithColumn(cols[len(a.groupingList)+i])
		}
	}
	return &na, nil
}

// Eval implements the Expression interface.
func (a *AggregateCall) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, ErrAggregateEval.New(a.String())
}

// NewBuffer implements the sql.Aggregation interface.
func (a *AggregateCall) NewBuffer() (sql.AggregationBuffer, error) {
	if a.IsMultiLevel() {
		return newMultiLevelBuffer(a)
	}
	return a.newFlatBuffer()
}

func (a *AggregateCall) newFlatBuffer() (sql.AggregationBuffer, error) {
	var arg sql.Expression
	if len(a.args) > 0 {
		arg = a.args[0]
	}

	var buf sql.AggregationBuffer
	switch a.sig.ContextId {
	case sql.FnAggregate:
		buf = &measureBuffer{call: a}
	case sql.FnAnyValue:
		buf = &anyValueBuffer{expr: arg}
	case sql.FnSum:
		buf = &sumBuffer{expr: arg, typ: a.typ}
	case sql.FnCount:
		buf = &countBuffer{expr: arg}
	case sql.FnMin:
		buf = &extremumBuffer{expr: arg, typ: a.typ, want: -1}
	case sql.FnMax:
		buf = &extremumBuffer{expr: arg, typ: a.typ, want: 1}
	case sql.FnAvg:
		buf = &avgBuffer{expr: arg, typ: a.typ}
	default:
		return nil, sql.ErrFunctionNotFound.New(a.fn.Name)
	}

	if a.distinct && arg != nil {
		buf = &distinctBuffer{expr: arg, seen: make(map[uint64]struct{}), inner: buf}
	}
	return buf, nil
}

func (a *AggregateCall) String() string {
	var sb strings.Builder
	sb.WriteString(a.fn.Name)
	sb.WriteRune('(')
	if a.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(a.args) == 0 && a.sig.ContextId == sql.FnCount {
		sb.WriteRune('*')
	}
	for i, arg := range a.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	for _, arg := range a.genericArgs {
		sb.WriteString(", ")
		sb.WriteString(arg.String())
	}
	if len(a.groupingList) > 0 {
		sb.WriteString(" GROUP BY ")
		writeComputedColumns(&sb, a.groupingList)
	}
	if len(a.innerAggregates) > 0 {
		sb.WriteString(" WITH ")
		writeComputedColumns(&sb, a.innerAggregates)
	}
	sb.WriteRune(')')
	return sb.String()
}

func writeComputedColumns(sb *strings.Builder, cols []*expression.ComputedColumn) {
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
}
