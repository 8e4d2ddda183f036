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

	"github.com/mitchellh/hashstructure"
	"github.com/shopspring/decimal"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

// measureBuffer backs an AGGREGATE call that survived measure expansion.
type measureBuffer struct {
	call *AggregateCall
}

func (b *measureBuffer) Update(*sql.Context, sql.Row) error {
	return sql.ErrMeasureNotMaterialized.New(b.call.args[0].String())
}

func (b *measureBuffer) Eval(*sql.Context) (interface{}, error) {
	return nil, sql.ErrMeasureNotMaterialized.New(b.call.args[0].String())
}

func (b *measureBuffer) Dispose() {}

// anyValueBuffer keeps the first non-NULL value it sees.
type anyValueBuffer struct {
	expr sql.Expression
	val  interface{}
}

func (b *anyValueBuffer) Update(ctx *sql.Context, row sql.Row) error {
	if b.val != nil {
		return nil
	}
	v, err := b.expr.Eval(ctx, row)
	if err != nil {
		return err
	}
	b.val = v
	return nil
}

func (b *anyValueBuffer) Eval(*sql.Context) (interface{}, error) {
	return b.val, nil
}

func (b *anyValueBuffer) Dispose() {
	b.val = nil
}

type sumBuffer struct {
	expr sql.Expression
	typ  sql.Type
	sum  interface{}
}

func (b *sumBuffer) Update(ctx *sql.Context, row sql.Row) error {
	v, err := b.expr.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	v, err = b.typ.Convert(v)
	if err != nil {
		return err
	}

	if b.sum == nil {
		b.sum = v
		return nil
	}

	switch s := b.sum.(type) {
	case int64:
		b.sum = s + v.(int64)
	case float64:
		b.sum = s + v.(float64)
	case decimal.Decimal:
		b.sum = s.Add(v.(decimal.Decimal))
	default:
		return sql.ErrInvalidType.New(fmt.Sprintf("SUM over %s", b.typ))
	}
	return nil
}

func (b *sumBuffer) Eval(*sql.Context) (interface{}, error) {
	return b.sum, nil
}

func (b *sumBuffer) Dispose() {
	b.sum = nil
}

// countBuffer counts rows, or the rows where its expression is not NULL.
type countBuffer struct {
	expr  sql.Expression
	count int64
}

func (b *countBuffer) Update(ctx *sql.Context, row sql.Row) error {
	if b.expr != nil {
		v, err := b.expr.Eval(ctx, row)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
	}
	b.count++
	return nil
}

func (b *countBuffer) Eval(*sql.Context) (interface{}, error) {
	return b.count, nil
}

func (b *countBuffer) Dispose() {}

// extremumBuffer keeps the smallest (want -1) or greatest (want 1) value it sees.
type extremumBuffer struct {
	expr sql.Expression
	typ  sql.Type
	want int
	val  interface{}
}

func (b *extremumBuffer) Update(ctx *sql.Context, row sql.Row) error {
	v, err := b.expr.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if b.val == nil {
		b.val = v
		return nil
	}

	cmp, err := b.typ.Compare(v, b.val)
	if err != nil {
		return err
	}
	if cmp == b.want {
		b.val = v
	}
	return nil
}

func (b *extremumBuffer) Eval(*sql.Context) (interface{}, error) {
	return b.val, nil
}

func (b *extremumBuffer) Dispose() {
	b.val = nil
}

type avgBuffer struct {
	expr  sql.Expression
	typ   sql.Type
	sum   decimal.Decimal
	count int64
}

func (b *avgBuffer) Update(ctx *sql.Context, row sql.Row) error {
	v, err := b.expr.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	d, err := types.Decimal.ConvertToDecimal(v)
	if err != nil {
		return err
	}
	b.sum = b.sum.Add(d)
	b.count++
	return nil
}

func (b *avgBuffer) Eval(*sql.Context) (interface{}, error) {
	if b.count == 0 {
		return nil, nil
	}
	avg := b.sum.Div(decimal.NewFromInt(b.count))
	if types.IsDecimal(b.typ) {
		return avg, nil
	}
	f, _ := avg.Float64()
	return f, nil
}

func (b *avgBuffer) Dispose() {}

// distinctBuffer feeds its inner buffer only the rows with an argument value it has not seen before.
type distinctBuffer struct {
	expr  sql.Expression
	seen  map[uint64]struct{}
	inner sql.AggregationBuffer
}

func (b *distinctBuffer) Update(ctx *sql.Context, row sql.Row) error {
	v, err := b.expr.Eval(ctx, row)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	hash, err := hashValue(v)
	if err != nil {
		return fmt.Errorf("distinct aggregate unable to hash value: %s", err)
	}
	if _, ok := b.seen[hash]; ok {
		return nil
	}
	b.seen[hash] = struct{}{}
	return b.inner.Update(ctx, row)
}

func (b *distinctBuffer) Eval(ctx *sql.Context) (interface{}, error) {
	return b.inner.Eval(ctx)
}

func (b *distinctBuffer) Dispose() {
	b.seen = nil
	b.inner.Dispose()
}

// hashValue hashes a value for grouping. Decimals are hashed through String, which drops trailing zeros, so equal
// values of different exponents share a hash.
func hashValue(v interface{}) (uint64, error) {
	return hashstructure.Hash(hashable(v), nil)
}

func hashable(v interface{}) interface{} {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.String()
	case []interface{}:
		vals := make([]interface{}, len(v))
		for i, e := range v {
			vals[i] = hashable(e)
		}
		return vals
	default:
		return v
	}
}
