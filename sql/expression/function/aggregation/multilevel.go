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
)

// multiLevelBuffer computes a multi-level aggregate. Groups are kept in the order they were first seen.
type multiLevelBuffer struct {
	call   *AggregateCall
	groups map[uint64]*levelGroup
	order  []uint64
}

type levelGroup struct {
	key   []interface{}
	inner []sql.AggregationBuffer
}

func newMultiLevelBuffer(call *AggregateCall) (*multiLevelBuffer, error) {
	for _, c := range call.innerAggregates {
		if _, ok := c.Expr.(sql.Aggregation); !ok {
			return nil, ErrInnerAggregate.New(c.String())
		}
	}
	return &multiLevelBuffer{
		call:   call,
		groups: make(map[uint64]*levelGroup),
	}, nil
}

func (b *multiLevelBuffer) Update(ctx *sql.Context, row sql.Row) error {
	key := make([]interface{}, len(b.call.groupingList))
	for i, c := range b.call.groupingList {
		v, err := c.Expr.Eval(ctx, row)
		if err != nil {
			return err
		}
		key[i] = v
	}

	hash, err := hashValue(key)
	if err != nil {
		return err
	}

	g, ok := b.groups[hash]
	if !ok {
		g = &levelGroup{key: key, inner: make([]sql.AggregationBuffer, len(b.call.innerAggregates))}
		for i, c := range b.call.innerAggregates {
			g.inner[i], err = c.Expr.(sql.Aggregation).NewBuffer()
			if err != nil {
				return err
			}
		}
		b.groups[hash] = g
		b.order = append(b.order, hash)
	}

	for _, inner := range g.inner {
		if err := inner.Update(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (b *multiLevelBuffer) Eval(ctx *sql.Context) (interface{}, error) {
	outer, err := b.call.newFlatBuffer()
	if err != nil {
		return nil, err
	}
	defer outer.Dispose()

	for _, hash := range b.order {
		g := b.groups[hash]
		groupRow := make(sql.Row, 0, len(g.inner)+len(g.key))
		for _, inner := range g.inner {
			v, err := inner.Eval(ctx)
			if err != nil {
				return nil, err
			}
			groupRow = append(groupRow, v)
		}
		groupRow = append(groupRow, g.key...)

		if err := outer.Update(ctx, groupRow); err != nil {
			return nil, err
		}
	}

	return outer.Eval(ctx)
}

func (b *multiLevelBuffer) Dispose() {
	for _, g := range b.groups {
		for _, inner := range g.inner {
			inner.Dispose()
		}
	}
	b.groups = nil
	b.order = nil
}
