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

package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/memory"
	"github.com/dolthub/go-measures/sql"
	. "github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/types"
)

func newTableTest(name string) *memory.Table {
	return memory.NewTable(name, sql.Schema{
		{Name: "col1", Type: types.Int64, PrimaryKey: true},
		{Name: "col2", Type: types.Text},
		{Name: "Col3", Type: types.Float64, Nullable: true},
	})
}

func TestTableScan(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		cols    string
		indexes []int
		err     bool
	}{
		{name: "every column", cols: "Table(test)[test.col1#1, test.col2#2, test.Col3#3]", indexes: []int{0, 1, 2}},
		{name: "picked columns", names: []string{"col3", "col1"}, cols: "Table(test)[test.Col3#1, test.col1#2]", indexes: []int{2, 0}},
		{name: "unknown column", names: []string{"col4"}, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			alloc := sql.NewColumnIdAllocator(0)

			scan, err := NewTableScan(alloc, newTableTest("test"), tt.names...)
			if tt.err {
				require.Error(err)
				require.True(sql.ErrTableColumnNotFound.Is(err))
				return
			}
			require.NoError(err)
			require.Equal(tt.cols, scan.String())
			require.Equal(tt.indexes, scan.ColumnIndexes)
			require.Equal(sql.ColumnId(len(tt.indexes)), alloc.MaxId())
		})
	}
}

func TestResolvedTableColumns(t *testing.T) {
	require := require.New(t)
	alloc := sql.NewColumnIdAllocator(10)

	scan, err := NewTableScan(alloc, newTableTest("test"), "col2")
	require.NoError(err)
	require.Equal(1, scan.ColumnIndex(11))
	require.Equal(-1, scan.ColumnIndex(12))

	extra := alloc.NewColumn("test", "col1", types.Int64)
	wider := scan.WithColumns(append(scan.Columns(), extra), []int{1, 0})
	require.Equal(0, wider.ColumnIndex(extra.Id))
	require.Len(scan.Columns(), 1)

	_, err = scan.WithChildren(scan)
	require.Error(err)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}
