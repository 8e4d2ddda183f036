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

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

// Comparer implements a comparison expression.
type Comparer interface {
	sql.Expression
	Compare(ctx *sql.Context, row sql.Row) (int, error)
	Left() sql.Expression
	Right() sql.Expression
}

// comparison is a base struct for comparison expressions.
type comparison struct {
	BinaryExpression
}

func newComparison(left, right sql.Expression) comparison {
	return comparison{BinaryExpression{left, right}}
}

func (c *comparison) Left() sql.Expression  { return c.BinaryExpression.Left }
func (c *comparison) Right() sql.Expression { return c.BinaryExpression.Right }

// Type implements the Expression interface.
func (*comparison) Type() sql.Type {
	return types.Boolean
}

// Compare the two values of the comparison. The left and right values are compared using the type of the left
// side, except when both sides are numbers of different types, which are compared as exact numbers if either is
// exact and as floats otherwise.
func (c *comparison) Compare(ctx *sql.Context, row sql.Row) (int, error) {
	left, right, err := c.evalLeftAndRight(ctx, row)
	if err != nil {
		return 0, err
	}

	if left == nil || right == nil {
		return 0, errNullComparison
	}

	return c.compareType().Compare(left, right)
}

func (c *comparison) compareType() sql.Type {
	lt, rt := c.BinaryExpression.Left.Type(), c.BinaryExpression.Right.Type()
	if lt.Equals(rt) || !types.IsNumber(lt) || !types.IsNumber(rt) {
		return lt
	}
	if types.IsDecimal(lt) || types.IsDecimal(rt) {
		return types.Decimal
	}
	return types.Float64
}

func (c *comparison) evalLeftAndRight(ctx *sql.Context, row sql.Row) (interface{}, interface{}, error) {
	left, err := c.BinaryExpression.Left.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	right, err := c.BinaryExpression.Right.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

type nullComparison struct{}

func (nullComparison) Error() string { return "comparison with NULL" }

var errNullComparison error = nullComparison{}

func evalComparison(ctx *sql.Context, row sql.Row, c *comparison, fn func(int) bool) (interface{}, error) {
	result, err := c.Compare(ctx, row)
	if err != nil {
		if err == errNullComparison {
			return nil, nil
		}
		return nil, err
	}
	return fn(result), nil
}

// Equals is a comparison that checks an expression is equal to another.
type Equals struct {
	comparison
}

var _ Comparer = (*Equals)(nil)

// NewEquals returns a new Equals expression.
func NewEquals(left sql.Expression, right sql.Expression) *Equals {
	return &Equals{newComparison(left, right)}
}

// Eval implements the Expression interface.
func (e *Equals) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return evalComparison(ctx, row, &e.comparison, func(cmp int) bool { return cmp == 0 })
}

// WithChildren implements the Expression interface.
func (e *Equals) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 2)
	}
	return NewEquals(children[0], children[1]), nil
}

func (e *Equals) String() string {
	return fmt.Sprintf("(%s = %s)", e.Left(), e.Right())
}

// GreaterThan is a comparison that checks an expression is greater than another.
type GreaterThan struct {
	comparison
}

var _ Comparer = (*GreaterThan)(nil)

// NewGreaterThan creates a new GreaterThan expression.
func NewGreaterThan(left sql.Expression, right sql.Expression) *GreaterThan {
	return &GreaterThan{newComparison(left, right)}
}

// Eval implements the Expression interface.
func (gt *GreaterThan) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return evalComparison(ctx, row, &gt.comparison, func(cmp int) bool { return cmp == 1 })
}

// WithChildren implements the Expression interface.
func (gt *GreaterThan) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(gt, len(children), 2)
	}
	return NewGreaterThan(children[0], children[1]), nil
}

func (gt *GreaterThan) String() string {
	return fmt.Sprintf("(%s > %s)", gt.Left(), gt.Right())
}

// LessThan is a comparison that checks an expression is less than another.
type LessThan struct {
	comparison
}

var _ Comparer = (*LessThan)(nil)

// NewLessThan creates a new LessThan expression.
func NewLessThan(left sql.Expression, right sql.Expression) *LessThan {
	return &LessThan{newComparison(left, right)}
}

// Eval implements the Expression interface.
func (lt *LessThan) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	return evalComparison(ctx, row, &lt.comparison, func(cmp int) bool { return cmp == -1 })
}

// WithChildren implements the Expression interface.
func (lt *LessThan) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(lt, len(children), 2)
	}
	return NewLessThan(children[0], children[1]), nil
}

func (lt *LessThan) String() string {
	return fmt.Sprintf("(%s < %s)", lt.Left(), lt.Right())
}
