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
package types

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
)

// ErrStructValueLength is returned when a struct value does not have one value per field.
var ErrStructValueLength = errors.NewKind("struct %s expects %d values, got %d")

// StructField is a named field of a struct type.
type StructField struct {
	Name string
	Type sql.Type
}

// StructType is an ordered list of named, typed fields. Struct values are represented as []interface{} with one
// value per field. Struct types are built through a StructFactory.
type StructType struct {
	fields []StructField
	str    string
}

var _ sql.Type = (*StructType)(nil)

// NumFields returns the number of fields of the struct.
func (t *StructType) NumFields() int {
	return len(t.fields)
}

// Field returns the i-th field.
func (t *StructType) Field(i int) StructField {
	return t.fields[i]
}

// Fields returns a copy of the fields of the struct.
func (t *StructType) Fields() []StructField {
	fields := make([]StructField, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// FindField returns the index of the field named |name| (case-insensitive), or -1 if there is none. If more than one
// field has that name, ambiguous is true and the index of the first one is returned.
func (t *StructType) FindField(name string) (idx int, ambiguous bool) {
	idx = -1
	for i, f := range t.fields {
		if !strings.EqualFold(f.Name, name) {
			continue
		}
		if idx >= 0 {
			return idx, true
		}
		idx = i
	}
	return idx, false
}

// Compare implements the sql.Type interface.
func (t *StructType) Compare(a, b interface{}) (int, error) {
	if hasNulls, res := CompareNulls(a, b); hasNulls {
		return res, nil
	}

	left, err := t.values(a)
	if err != nil {
		return 0, err
	}
	right, err := t.values(b)
	if err != nil {
		return 0, err
	}

	for i, f := range t.fields {
		cmp, err := f.Type.Compare(left[i], right[i])
		if err != nil {
			return 0, err
		}
		if cmp != 0 {
			return cmp, nil
		}
	}
	return 0, nil
}

// Convert implements the sql.Type interface.
func (t *StructType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	vals, err := t.values(v)
	if err != nil {
		return nil, err
	}

	result := make([]interface{}, len(vals))
	for i, f := range t.fields {
		result[i], err = f.Type.Convert(vals[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (t *StructType) values(v interface{}) ([]interface{}, error) {
	vals, ok := v.([]interface{})
	if !ok {
		return nil, sql.ErrNotStruct.New(v)
	}
	if len(vals) != len(t.fields) {
		return nil, ErrStructValueLength.New(t.String(), len(t.fields), len(vals))
	}
	return vals, nil
}

// Equals implements the sql.Type interface. Struct types are equal when their fields have the same names and equal
// types, in the same order.
func (t *StructType) Equals(otherType sql.Type) bool {
	ot, ok := otherType.(*StructType)
	if !ok {
		return false
	}
	if ot == t {
		return true
	}
	if len(ot.fields) != len(t.fields) {
		return false
	}
	for i, f := range t.fields {
		if f.Name != ot.fields[i].Name || !f.Type.Equals(ot.fields[i].Type) {
			return false
		}
	}
	return true
}

// String implements the sql.Type interface.
func (t *StructType) String() string {
	return t.str
}

// Zero implements the sql.Type interface.
func (t *StructType) Zero() interface{} {
	zero := make([]interface{}, len(t.fields))
	for i, f := range t.fields {
		zero[i] = f.Type.Zero()
	}
	return zero
}

func structTypeString(fields []StructField) string {
	var sb strings.Builder
	sb.WriteString("STRUCT<")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if f.Name != "" {
			sb.WriteString(f.Name)
			sb.WriteRune(' ')
		}
		sb.WriteString(f.Type.String())
	}
	sb.WriteRune('>')
	return sb.String()
}

// StructFactory builds struct types and interns them, so that building the same field list twice returns the same
// *StructType. A factory is owned by a single compilation and is not safe for concurrent use.
type StructFactory struct {
	types map[string]*StructType
}

// NewStructFactory returns an empty struct factory.
func NewStructFactory() *StructFactory {
	return &StructFactory{types: make(map[string]*StructType)}
}

// MakeStructType returns the struct type with the fields given.
func (f *StructFactory) MakeStructType(fields ...StructField) (*StructType, error) {
	for i, field := range fields {
		if field.Type == nil {
			return nil, sql.ErrInvalidType.New(fmt.Sprintf("struct field %d (%q) has no type", i, field.Name))
		}
	}

	str := structTypeString(fields)
	if st, ok := f.types[str]; ok {
		return st, nil
	}

	st := &StructType{
		fields: make([]StructField, len(fields)),
		str:    str,
	}
	copy(st.fields, fields)
	f.types[str] = st
	return st, nil
}

// Len returns the number of distinct struct types built by the factory.
func (f *StructFactory) Len() int {
	return len(f.types)
}
