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

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/dolthub/go-measures/sql"
)

// Decimal is an exact numeric type with arbitrary precision. Values are represented as decimal.Decimal.
var Decimal = DecimalType{}

// DecimalType is the type of exact numeric values.
type DecimalType struct{}

var _ sql.Type = DecimalType{}

// Compare implements the sql.Type interface.
func (t DecimalType) Compare(a interface{}, b interface{}) (int, error) {
	if hasNulls, res := CompareNulls(a, b); hasNulls {
		return res, nil
	}

	af, err := t.ConvertToDecimal(a)
	if err != nil {
		return 0, err
	}
	bf, err := t.ConvertToDecimal(b)
	if err != nil {
		return 0, err
	}

	return af.Cmp(bf), nil
}

// Convert implements the sql.Type interface.
func (t DecimalType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return t.ConvertToDecimal(v)
}

// ConvertToDecimal converts the given value to a decimal.Decimal.
func (t DecimalType) ConvertToDecimal(v interface{}) (decimal.Decimal, error) {
	switch value := v.(type) {
	case decimal.Decimal:
		return value, nil
	case decimal.NullDecimal:
		if !value.Valid {
			return decimal.Zero, fmt.Errorf("cannot convert NULL to a decimal")
		}
		return value.Decimal, nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case float64:
		return decimal.NewFromFloat(value), nil
	case string:
		return decimal.NewFromString(value)
	default:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return decimal.Zero, sql.ErrInvalidType.New(fmt.Sprintf("%T", v))
		}
		return decimal.NewFromInt(i), nil
	}
}

// Equals implements the sql.Type interface.
func (t DecimalType) Equals(otherType sql.Type) bool {
	_, ok := otherType.(DecimalType)
	return ok
}

// String implements the sql.Type interface.
func (t DecimalType) String() string {
	return "NUMERIC"
}

// Zero implements the sql.Type interface.
func (t DecimalType) Zero() interface{} {
	return decimal.Zero
}
