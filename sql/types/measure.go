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

	"github.com/dolthub/go-measures/sql"
)

// MeasureType is the type of a measure column: a deferred aggregate whose values can only be read through
// AGGREGATE. Measure columns hold no value of their own, so the only valid measure value is nil.
type MeasureType struct {
	// Result is the type AGGREGATE returns for the measure.
	Result sql.Type
}

var _ sql.Type = MeasureType{}

// NewMeasureType returns the measure type computing values of type |result|.
func NewMeasureType(result sql.Type) MeasureType {
	return MeasureType{Result: result}
}

// Compare implements the sql.Type interface.
func (t MeasureType) Compare(a, b interface{}) (int, error) {
	if hasNulls, res := CompareNulls(a, b); hasNulls {
		return res, nil
	}
	return 0, sql.ErrMeasureNotMaterialized.New(t.String())
}

// Convert implements the sql.Type interface.
func (t MeasureType) Convert(v interface{}) (interface{}, error) {
	if v != nil {
		return nil, sql.ErrMeasureNotMaterialized.New(t.String())
	}
	return nil, nil
}

// Equals implements the sql.Type interface.
func (t MeasureType) Equals(otherType sql.Type) bool {
	ot, ok := otherType.(MeasureType)
	return ok && ot.Result.Equals(t.Result)
}

// String implements the sql.Type interface.
func (t MeasureType) String() string {
	return fmt.Sprintf("MEASURE<%s>", t.Result)
}

// Zero implements the sql.Type interface.
func (t MeasureType) Zero() interface{} {
	return nil
}
