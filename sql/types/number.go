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
	"math"

	"github.com/spf13/cast"

	"github.com/dolthub/go-measures/sql"
)

var (
	// Int64 is an integer of 64 bits.
	Int64 = NumberType{kind: int64Kind}
	// Float64 is a floating point number of 64 bits.
	Float64 = NumberType{kind: float64Kind}
	// Boolean is a true/false value.
	Boolean = NumberType{kind: boolKind}
)

type numberKind byte

const (
	int64Kind numberKind = iota
	float64Kind
	boolKind
)

// NumberType is the type of the numeric and boolean values. Values are represented as int64, float64 and bool.
type NumberType struct {
	kind numberKind
}

var _ sql.Type = NumberType{}

// Convert implements the sql.Type interface.
func (t NumberType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch t.kind {
	case int64Kind:
		return cast.ToInt64E(v)
	case float64Kind:
		return cast.ToFloat64E(v)
	case boolKind:
		return cast.ToBoolE(v)
	default:
		return nil, sql.ErrInvalidType.New(t.String())
	}
}

// Compare implements the sql.Type interface.
func (t NumberType) Compare(a interface{}, b interface{}) (int, error) {
	if hasNulls, res := CompareNulls(a, b); hasNulls {
		return res, nil
	}

	switch t.kind {
	case int64Kind:
		return compareSignedInts(a, b)
	case boolKind:
		ca, err := cast.ToBoolE(a)
		if err != nil {
			return 0, err
		}
		cb, err := cast.ToBoolE(b)
		if err != nil {
			return 0, err
		}
		switch {
		case ca == cb:
			return 0, nil
		case !ca:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return compareFloats(a, b)
	}
}

// Equals implements the sql.Type interface.
func (t NumberType) Equals(otherType sql.Type) bool {
	ot, ok := otherType.(NumberType)
	return ok && ot.kind == t.kind
}

// String implements the sql.Type interface.
func (t NumberType) String() string {
	switch t.kind {
	case int64Kind:
		return "INT64"
	case float64Kind:
		return "FLOAT64"
	case boolKind:
		return "BOOL"
	default:
		panic(fmt.Sprintf("%d is not a valid number kind", t.kind))
	}
}

// Zero implements the sql.Type interface.
func (t NumberType) Zero() interface{} {
	switch t.kind {
	case int64Kind:
		return int64(0)
	case float64Kind:
		return float64(0)
	default:
		return false
	}
}

// IsInteger returns whether the type holds integers.
func (t NumberType) IsInteger() bool {
	return t.kind == int64Kind
}

// IsFloat returns whether the type holds floating point numbers.
func (t NumberType) IsFloat() bool {
	return t.kind == float64Kind
}

func compareFloats(a interface{}, b interface{}) (int, error) {
	ca, err := cast.ToFloat64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToFloat64E(b)
	if err != nil {
		return 0, err
	}

	switch {
	case ca == cb, math.IsNaN(ca) && math.IsNaN(cb):
		return 0, nil
	case ca < cb:
		return -1, nil
	default:
		return +1, nil
	}
}

func compareSignedInts(a interface{}, b interface{}) (int, error) {
	ca, err := cast.ToInt64E(a)
	if err != nil {
		return 0, err
	}
	cb, err := cast.ToInt64E(b)
	if err != nil {
		return 0, err
	}

	if ca == cb {
		return 0, nil
	}
	if ca < cb {
		return -1, nil
	}
	return +1, nil
}
