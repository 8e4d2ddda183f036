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
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-measures/sql"
)

// ErrDuplicatePrimaryKey is returned when a row is inserted with the primary key of an existing row.
var ErrDuplicatePrimaryKey = errors.NewKind("duplicate primary key for table %s: %s")

// Table represents an in-memory database table. Rows hold a value for every schema column; measure columns always
// hold nil.
type Table struct {
	name       string
	schema     sql.Schema
	partitions map[string][]sql.Row
	keys       []string
	insert     int
}

var _ sql.Table = (*Table)(nil)
var _ sql.RowTable = (*Table)(nil)

// NewTable creates a new Table with the given name and schema.
func NewTable(name string, schema sql.Schema) *Table {
	return NewPartitionedTable(name, schema, 0)
}

// NewPartitionedTable creates a new Table with the given name, schema and number of partitions. Rows are inserted
// into the partitions in a round-robin fashion and read back partition by partition.
func NewPartitionedTable(name string, schema sql.Schema, numPartitions int) *Table {
	if numPartitions < 1 {
		numPartitions = 1
	}

	keys := make([]string, numPartitions)
	partitions := make(map[string][]sql.Row, numPartitions)
	for i := 0; i < numPartitions; i++ {
		keys[i] = strconv.Itoa(i)
		partitions[keys[i]] = []sql.Row{}
	}

	for _, c := range schema {
		if c.Source == "" {
			c.Source = name
		}
	}

	return &Table{
		name:       name,
		schema:     schema,
		partitions: partitions,
		keys:       keys,
	}
}

// Name implements the sql.Table interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the sql.Table interface.
func (t *Table) Schema() sql.Schema {
	return t.schema
}

// RowIdentityColumns implements the sql.Table interface. The row identity of a memory table is its primary key.
func (t *Table) RowIdentityColumns() []int {
	return t.schema.PrimaryKeyIndexes()
}

// NumRows returns the number of rows of the table.
func (t *Table) NumRows() int {
	n := 0
	for _, p := range t.partitions {
		n += len(p)
	}
	return n
}

// Insert adds a row to the table. Values are converted to the type of their column, measure columns must be nil
// and the primary key, if any, must be unique.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	row, err := checkRow(t.schema, row)
	if err != nil {
		return err
	}

	if err := t.checkUniquenessConstraints(row); err != nil {
		return err
	}

	key := t.keys[t.insert]
	t.insert = (t.insert + 1) % len(t.keys)
	t.partitions[key] = append(t.partitions[key], row)
	return nil
}

func checkRow(schema sql.Schema, row sql.Row) (sql.Row, error) {
	if len(row) != len(schema) {
		return nil, sql.ErrUnexpectedRowLength.New(len(schema), len(row))
	}

	converted := make(sql.Row, len(row))
	for i, value := range row {
		v, err := schema[i].Type.Convert(value)
		if err != nil {
			return nil, err
		}
		converted[i] = v
	}
	return converted, nil
}

func (t *Table) checkUniquenessConstraints(row sql.Row) error {
	pk := t.schema.PrimaryKeyIndexes()
	if len(pk) == 0 {
		return nil
	}

	for _, key := range t.keys {
		for _, existing := range t.partitions[key] {
			same := true
			for _, i := range pk {
				cmp, err := t.schema[i].Type.Compare(existing[i], row[i])
				if err != nil {
					return err
				}
				if cmp != 0 {
					same = false
					break
				}
			}
			if same {
				vals := make([]string, len(pk))
				for j, i := range pk {
					vals[j] = fmt.Sprint(row[i])
				}
				return ErrDuplicatePrimaryKey.New(t.name, strings.Join(vals, ", "))
			}
		}
	}
	return nil
}

// RowIter implements the sql.RowTable interface.
func (t *Table) RowIter(ctx *sql.Context) (sql.RowIter, error) {
	keys := append([]string(nil), t.keys...)
	sort.Strings(keys)
	var rows []sql.Row
	for _, k := range keys {
		rows = append(rows, t.partitions[k]...)
	}
	return &tableIter{rows: rows}, nil
}

type tableIter struct {
	rows []sql.Row
	pos  int
}

func (i *tableIter) Next(*sql.Context) (sql.Row, error) {
	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}
	row := i.rows[i.pos].Copy()
	i.pos++
	return row, nil
}

func (i *tableIter) Close(*sql.Context) error {
	i.rows = nil
	return nil
}

// String implements the sql.Table interface.
func (t *Table) String() string {
	return t.name
}

func (t *Table) DebugString() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Table(%s)", t.name)
	cols := make([]string, len(t.schema))
	for i, c := range t.schema {
		var flags []string
		if c.PrimaryKey {
			flags = append(flags, "PRIMARY KEY")
		}
		if c.HasMeasureExpression() {
			flags = append(flags, fmt.Sprintf("MEASURE %s", c.Measure))
		}
		cols[i] = strings.TrimSpace(fmt.Sprintf("%s %s %s", c.Name, c.Type, strings.Join(flags, " ")))
	}
	_ = p.WriteChildren(cols...)
	return p.String()
}
