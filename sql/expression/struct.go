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
	"strings"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

// MakeStruct builds a struct value out of one expression per field.
type MakeStruct struct {
	typ    *types.StructType
	fields []sql.Expression
}

var _ sql.Expression = (*MakeStruct)(nil)

// NewMakeStruct returns an expression building values of struct type |typ|. There must be one field expression per
// struct field, in field order.
func NewMakeStruct(typ *types.StructType, fields ...sql.Expression) (*MakeStruct, error) {
	if len(fields) != typ.NumFields() {
		return nil, types.ErrStructValueLength.New(typ.String(), typ.NumFields(), len(fields))
	}
	return &MakeStruct{typ: typ, fields: fields}, nil
}

// StructType returns the type of the struct built.
func (s *MakeStruct) StructType() *types.StructType {
	return s.typ
}

// Type implements the Expression interface.
func (s *MakeStruct) Type() sql.Type {
	return s.typ
}

// IsNullable implements the Expression interface.
func (s *MakeStruct) IsNullable() bool {
	return false
}

// Children implements the Expression interface.
func (s *MakeStruct) Children() []sql.Expression {
	return s.fields
}

// WithChildren implements the Expression interface.
func (s *MakeStruct) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(s.fields) {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), len(s.fields))
	}
	ns, err := NewMakeStruct(s.typ, children...)
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// Eval implements the Expression interface.
func (s *MakeStruct) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	vals := make([]interface{}, len(s.fields))
	for i, f := range s.fields {
		v, err := f.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (s *MakeStruct) String() string {
	fields := make([]string, len(s.fields))
	for i, f := range s.fields {
		fields[i] = fmt.Sprintf("%s: %s", s.typ.Field(i).Name, f)
	}
	return fmt.Sprintf("STRUCT(%s)", strings.Join(fields, ", "))
}

// GetStructField reads one field of a struct value, by position.
type GetStructField struct {
	UnaryExpression
	index int
	field types.StructField
}

var _ sql.Expression = (*GetStructField)(nil)

// NewGetStructField returns an expression reading field |index| of the struct computed by |child|.
func NewGetStructField(child sql.Expression, index int) (*GetStructField, error) {
	st, ok := child.Type().(*types.StructType)
	if !ok {
		return nil, sql.ErrInvalidType.New(fmt.Sprintf("%s is not a struct", child.Type()))
	}
	if index < 0 || index >= st.NumFields() {
		return nil, ErrIndexOutOfBounds.New(index, st.NumFields())
	}
	return &GetStructField{
		UnaryExpression: UnaryExpression{Child: child},
		index:           index,
		field:           st.Field(index),
	}, nil
}

// Index returns the position of the field read.
func (g *GetStructField) Index() int {
	return g.index
}

// FieldName returns the name of the field read.
func (g *GetStructField) FieldName() string {
	return g.field.Name
}

// Type implements the Expression interface.
func (g *GetStructField) Type() sql.Type {
	return g.field.Type
}

// IsNullable implements the Expression interface.
func (g *GetStructField) IsNullable() bool {
	return true
}

// WithChildren implements the Expression interface.
func (g *GetStructField) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(children), 1)
	}
	ng, err := NewGetStructField(children[0], g.index)
	if err != nil {
		return nil, err
	}
	return ng, nil
}

// Eval implements the Expression interface.
func (g *GetStructField) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := g.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	vals, ok := v.([]interface{})
	if !ok {
		return nil, sql.ErrNotStruct.New(v)
	}
	if g.index >= len(vals) {
		return nil, ErrIndexOutOfBounds.New(g.index, len(vals))
	}
	return vals[g.index], nil
}

func (g *GetStructField) String() string {
	return fmt.Sprintf("%s.%s", g.Child, g.field.Name)
}
