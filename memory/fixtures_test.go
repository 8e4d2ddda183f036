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

package memory

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/types"
)

func TestLoadDatabaseFile(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	db, err := LoadDatabaseFile(ctx, "testdata/sales.yaml")
	require.NoError(err)
	require.Equal("sales", db.Name())

	tbl, ok, err := db.GetTableInsensitive(ctx, "orders")
	require.NoError(err)
	require.True(ok)
	orders := tbl.(*Table)
	require.Equal(3, orders.NumRows())
	require.Equal([]int{0}, orders.RowIdentityColumns())

	schema := orders.Schema()
	total := schema[schema.IndexOfColName("total")]
	require.True(total.HasMeasureExpression())
	require.Equal("SUM(amount)", total.MeasureExpression().String())
	require.True(types.NewMeasureType(types.Int64).Equals(total.Type))

	avg := schema[schema.IndexOfColName("average_price")]
	require.Equal("(SUM(price) / COUNT(*))", avg.MeasureExpression().String())
	require.True(types.NewMeasureType(types.Decimal).Equals(avg.Type))

	iter, err := orders.RowIter(ctx)
	require.NoError(err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Len(rows, 3)
	for _, row := range rows {
		require.Len(row, 6)
		require.Nil(row[4])
		require.Nil(row[5])
		require.IsType(decimal.Decimal{}, row[3])
	}

	tbl, ok, err = db.GetTableInsensitive(ctx, "regions")
	require.NoError(err)
	require.True(ok)
	require.Equal(2, tbl.(*Table).NumRows())

	require.Contains(db.DebugString(), "total MEASURE<INT64> MEASURE SUM(amount)")
}

func TestLoadDatabaseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		fixture string
	}{
		{
			name:    "no name",
			fixture: "tables: []",
		},
		{
			name: "unknown type",
			fixture: `
name: db
tables:
  - name: t
    columns:
      - {name: a, type: BLOB}`,
		},
		{
			name: "measure of a measure",
			fixture: `
name: db
tables:
  - name: t
    columns:
      - {name: a, type: INT64}
      - name: m
        measure: {function: SUM, args: [{column: a}]}
      - name: m2
        measure: {function: SUM, args: [{column: m}]}`,
		},
		{
			name: "short row",
			fixture: `
name: db
tables:
  - name: t
    columns:
      - {name: a, type: INT64}
      - {name: b, type: INT64}
    rows:
      - [1]`,
		},
		{
			name: "unknown field",
			fixture: `
name: db
owner: someone`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDatabase(sql.NewEmptyContext(), strings.NewReader(tt.fixture))
			require.Error(t, err)
			require.True(t, ErrInvalidFixture.Is(err), "unexpected error %v", err)
		})
	}
}

func TestLoadDatabaseUnknownFunction(t *testing.T) {
	fixture := `
name: db
tables:
  - name: t
    columns:
      - {name: a, type: INT64}
      - name: m
        measure: {function: MEDIAN, args: [{column: a}]}`
	_, err := LoadDatabase(sql.NewEmptyContext(), strings.NewReader(fixture))
	require.True(t, sql.ErrFunctionNotFound.Is(err))
}
