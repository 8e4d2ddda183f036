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
	"strings"

	"github.com/dolthub/go-measures/sql"
)

// ParseScalarType returns the scalar type with the name given, as printed by its String method. Names are case
// insensitive and a few common aliases are accepted.
func ParseScalarType(name string) (sql.Type, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INT64", "INT", "INTEGER", "BIGINT":
		return Int64, nil
	case "FLOAT64", "FLOAT", "DOUBLE":
		return Float64, nil
	case "BOOL", "BOOLEAN":
		return Boolean, nil
	case "NUMERIC", "DECIMAL":
		return Decimal, nil
	case "STRING", "TEXT":
		return Text, nil
	default:
		return nil, sql.ErrInvalidType.New(name)
	}
}

// CompareNulls compares two values, and returns true if either is null.
// The returned integer represents the ordering, with a rule that states nulls
// as being ordered before non-nulls.
func CompareNulls(a interface{}, b interface{}) (bool, int) {
	aIsNull := a == nil
	bIsNull := b == nil
	if aIsNull && bIsNull {
		return true, 0
	} else if aIsNull && !bIsNull {
		return true, 1
	} else if !aIsNull && bIsNull {
		return true, -1
	}
	return false, 0
}

// IsNumber returns true if the type is a numeric type.
func IsNumber(t sql.Type) bool {
	switch t := t.(type) {
	case NumberType:
		return t.kind != boolKind
	case DecimalType:
		return true
	default:
		return false
	}
}

// IsInteger returns true if the type holds integers.
func IsInteger(t sql.Type) bool {
	nt, ok := t.(NumberType)
	return ok && nt.IsInteger()
}

// IsDecimal returns true if the type is an exact numeric type.
func IsDecimal(t sql.Type) bool {
	_, ok := t.(DecimalType)
	return ok
}

// IsText returns true if the type is a string type.
func IsText(t sql.Type) bool {
	_, ok := t.(StringType)
	return ok
}

// IsStruct returns true if the type is a struct type.
func IsStruct(t sql.Type) bool {
	_, ok := t.(*StructType)
	return ok
}

// IsMeasure returns true if the type is a measure type.
func IsMeasure(t sql.Type) bool {
	_, ok := t.(MeasureType)
	return ok
}
