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
	"sort"
	"strings"

	"github.com/dolthub/go-measures/sql"
)

// Database is an in-memory database.
type Database struct {
	name   string
	tables map[string]sql.Table
}

var _ sql.Database = (*Database)(nil)

// NewDatabase creates a new database with the given name.
func NewDatabase(name string) *Database {
	return &Database{
		name:   name,
		tables: map[string]sql.Table{},
	}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Tables returns all tables in the database.
func (d *Database) Tables() map[string]sql.Table {
	return d.tables
}

// GetTableInsensitive implements the sql.Database interface.
func (d *Database) GetTableInsensitive(ctx *sql.Context, tblName string) (sql.Table, bool, error) {
	if tbl, ok := d.tables[tblName]; ok {
		return tbl, true, nil
	}
	for name, tbl := range d.tables {
		if strings.EqualFold(name, tblName) {
			return tbl, true, nil
		}
	}
	return nil, false, nil
}

// GetTableNames implements the sql.Database interface. Names are sorted.
func (d *Database) GetTableNames(ctx *sql.Context) ([]string, error) {
	tblNames := make([]string, 0, len(d.tables))
	for k := range d.tables {
		tblNames = append(tblNames, k)
	}
	sort.Strings(tblNames)
	return tblNames, nil
}

// AddTable adds a new table to the database.
func (d *Database) AddTable(name string, t sql.Table) {
	d.tables[name] = t
}

// CreateTable creates a table with the given name and schema.
func (d *Database) CreateTable(ctx *sql.Context, name string, schema sql.Schema) (*Table, error) {
	if _, ok, _ := d.GetTableInsensitive(ctx, name); ok {
		return nil, sql.ErrTableAlreadyExists.New(name)
	}

	t := NewTable(name, schema)
	d.tables[name] = t
	return t, nil
}

// DropTable drops the table with the given name.
func (d *Database) DropTable(ctx *sql.Context, name string) error {
	_, ok := d.tables[name]
	if !ok {
		return sql.ErrTableNotFound.New(name)
	}

	delete(d.tables, name)
	return nil
}

func (d *Database) DebugString() string {
	names := make([]string, 0, len(d.tables))
	for k := range d.tables {
		names = append(names, k)
	}
	sort.Strings(names)

	p := sql.NewTreePrinter()
	_ = p.WriteNode("Database(%s)", d.name)
	children := make([]string, len(names))
	for i, name := range names {
		children[i] = sql.DebugString(d.tables[name])
	}
	_ = p.WriteChildren(children...)
	return p.String()
}
