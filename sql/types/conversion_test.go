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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
)

func TestParseScalarType(t *testing.T) {
	tests := []struct {
		name     string
		expected sql.Type
	}{
		{"INT64", Int64},
		{"bigint", Int64},
		{"Float64", Float64},
		{"bool", Boolean},
		{"NUMERIC", Decimal},
		{" string ", Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ParseScalarType(tt.name)
			require.NoError(t, err)
			require.True(t, tt.expected.Equals(typ))
		})
	}

	_, err := ParseScalarType("MEASURE<INT64>")
	require.True(t, sql.ErrInvalidType.Is(err))
}

func TestTypePredicates(t *testing.T) {
	require := require.New(t)

	require.True(IsNumber(Int64))
	require.True(IsNumber(Decimal))
	require.False(IsNumber(Boolean))
	require.True(IsInteger(Int64))
	require.False(IsInteger(Float64))
	require.True(IsText(Text))
	require.True(IsMeasure(NewMeasureType(Int64)))
	require.False(IsMeasure(Int64))

	st, err := NewStructFactory().MakeStructType(StructField{Name: "a", Type: Int64})
	require.NoError(err)
	require.True(IsStruct(st))
}
