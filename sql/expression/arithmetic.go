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
package expression

import (
	"fmt"

	"github.com/shopspring/decimal"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

var (
	// errUnableToEval is returned when the arithmetic operator is not supported.
	errUnableToEval = errors.NewKind("Expression '%v %s %v' is not supported")
)

const (
	PlusOp  = "+"
	MinusOp = "-"
	MultOp  = "*"
	DivOp   = "/"
)

// Arithmetic expressions (+, -, *, /).
type Arithmetic struct {
	BinaryExpression
	Op string
}

var _ sql.Expression = (*Arithmetic)(nil)

// NewArithmetic creates a new Arithmetic sql.Expression.
func NewArithmetic(left, right sql.Expression, op string) *Arithmetic {
	return &Arithmetic{BinaryExpression{Left: left, Right: right}, op}
}

// NewPlus creates a new Arithmetic + sql.Expression.
func NewPlus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, PlusOp)
}

// NewMinus creates a new Arithmetic - sql.Expression.
func NewMinus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, MinusOp)
}

// NewMult creates a new Arithmetic * sql.Expression.
func NewMult(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, MultOp)
}

// NewDiv creates a new Arithmetic / sql.Expression.
func NewDiv(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, DivOp)
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

func (a *Arithmetic) DebugString() string {
	return fmt.Sprintf("(%s %s %s)", sql.DebugString(a.Left), a.Op, sql.DebugString(a.Right))
}

// IsNullable implements the sql.Expression interface.
func (a *Arithmetic) IsNullable() bool {
	return a.Op == DivOp || a.BinaryExpression.IsNullable()
}

// Type returns the greatest type for given operation.
func (a *Arithmetic) Type() sql.Type {
	lt, rt := a.Left.Type(), a.Right.Type()
	if types.IsDecimal(lt) || types.IsDecimal(rt) {
		return types.Decimal
	}
	if a.Op != DivOp && types.IsInteger(lt) && types.IsInteger(rt) {
		return types.Int64
	}
	return types.Float64
}

// WithChildren implements the Expression interface.
func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewArithmetic(children[0], children[1], a.Op), nil
}

// Eval implements the Expression interface.
func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lval, err := a.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	rval, err := a.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if lval == nil || rval == nil {
		return nil, nil
	}

	typ := a.Type()
	lval, err = typ.Convert(lval)
	if err != nil {
		return nil, err
	}
	rval, err = typ.Convert(rval)
	if err != nil {
		return nil, err
	}

	switch l := lval.(type) {
	case int64:
		return evalInts(a.Op, l, rval.(int64))
	case float64:
		return evalFloats(a.Op, l, rval.(float64))
	case decimal.Decimal:
		return evalDecimals(a.Op, l, rval.(decimal.Decimal))
	}

	return nil, errUnableToEval.New(lval, a.Op, rval)
}

func evalInts(op string, l, r int64) (interface{}, error) {
	switch op {
	case PlusOp:
		return l + r, nil
	case MinusOp:
		return l - r, nil
	case MultOp:
		return l * r, nil
	}
	return nil, errUnableToEval.New(l, op, r)
}

func evalFloats(op string, l, r float64) (interface{}, error) {
	switch op {
	case PlusOp:
		return l + r, nil
	case MinusOp:
		return l - r, nil
	case MultOp:
		return l * r, nil
	case DivOp:
		if r == 0 {
			return nil, nil
		}
		return l / r, nil
	}
	return nil, errUnableToEval.New(l, op, r)
}

func evalDecimals(op string, l, r decimal.Decimal) (interface{}, error) {
	switch op {
	case PlusOp:
		return l.Add(r), nil
	case MinusOp:
		return l.Sub(r), nil
	case MultOp:
		return l.Mul(r), nil
	case DivOp:
		if r.IsZero() {
			return nil, nil
		}
		return l.Div(r), nil
	}
	return nil, errUnableToEval.New(l, op, r)
}
