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

func TestStructFactoryInterns(t *testing.T) {
	require := require.New(t)
	f := NewStructFactory()

	a, err := f.MakeStructType(StructField{"id", Int64}, StructField{"v", Float64})
	require.NoError(err)
	b, err := f.MakeStructType(StructField{"id", Int64}, StructField{"v", Float64})
	require.NoError(err)
	require.Same(a, b)
	require.Equal(1, f.Len())

	c, err := f.MakeStructType(StructField{"v", Float64}, StructField{"id", Int64})
	require.NoError(err)
	require.NotSame(a, c)
	require.False(a.Equals(c))
	require.Equal("STRUCT<id INT64, v FLOAT64>", a.String())

	_, err = f.MakeStructType(StructField{"x", nil})
	require.Error(err)
	require.True(sql.ErrInvalidType.Is(err))
}

func TestStructEqualsAcrossFactories(t *testing.T) {
	require := require.New(t)

	inner1, err := NewStructFactory().MakeStructType(StructField{"k", Text})
	require.NoError(err)
	inner2, err := NewStructFactory().MakeStructType(StructField{"k", Text})
	require.NoError(err)

	require.NotSame(inner1, inner2)
	require.True(inner1.Equals(inner2))
	require.False(inner1.Equals(Text))
}

func TestStructFindField(t *testing.T) {
	require := require.New(t)
	st, err := NewStructFactory().MakeStructType(
		StructField{"a", Int64},
		StructField{"B", Text},
		StructField{"a", Float64},
	)
	require.NoError(err)

	idx, ambiguous := st.FindField("b")
	require.Equal(1, idx)
	require.False(ambiguous)

	idx, ambiguous = st.FindField("a")
	require.Equal(0, idx)
	require.True(ambiguous)

	idx, ambiguous = st.FindField("c")
	require.Equal(-1, idx)
	require.False(ambiguous)
}

func TestStructCompareAndConvert(t *testing.T) {
	require := require.New(t)
	st, err := NewStructFactory().MakeStructType(StructField{"id", Int64}, StructField{"name", Text})
	require.NoError(err)

	cmp, err := st.Compare([]interface{}{int64(1), "a"}, []interface{}{int64(1), "b"})
	require.NoError(err)
	require.Equal(-1, cmp)

	cmp, err = st.Compare([]interface{}{int64(2), "a"}, []interface{}{int64(1), "b"})
	require.NoError(err)
	require.Equal(1, cmp)

	v, err := st.Convert([]interface{}{"3", 4})
	require.NoError(err)
	require.Equal([]interface{}{int64(3), "4"}, v)

	_, err = st.Convert([]interface{}{int64(3)})
	require.True(ErrStructValueLength.Is(err))

	_, err = st.Convert("nope")
	require.True(sql.ErrNotStruct.Is(err))

	require.Equal([]interface{}{int64(0), ""}, st.Zero())
}

func TestMeasureType(t *testing.T) {
	require := require.New(t)
	m := NewMeasureType(Int64)

	require.Equal("MEASURE<INT64>", m.String())
	require.True(m.Equals(NewMeasureType(Int64)))
	require.False(m.Equals(NewMeasureType(Float64)))
	require.False(m.Equals(Int64))
	require.True(IsMeasure(m))
	require.False(IsMeasure(Int64))

	v, err := m.Convert(nil)
	require.NoError(err)
	require.Nil(v)

	_, err = m.Convert(int64(1))
	require.True(sql.ErrMeasureNotMaterialized.Is(err))
}
