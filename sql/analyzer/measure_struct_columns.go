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

package analyzer

import (
	"github.com/cockroachdb/errors"
	"github.com/google/btree"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/transform"
	"github.com/dolthub/go-measures/sql/types"
)

const (
	structColumnPrefix     = "struct_for_measure_"
	referencedColumnsField = "referenced_columns"
	keyColumnsField        = "key_columns"
	referencedColumnsIndex = 0
	keyColumnsIndex        = 1
)

type nameItem string

func (n nameItem) Less(than btree.Item) bool {
	return columnKey(string(n)) < columnKey(string(than.(nameItem)))
}

// referencedColumns returns the names of the table columns read by the measure expression |e|, sorted, and marks
// each of them for projection on the grain scan.
func referencedColumns(e sql.Expression, info *GrainScanInfo) ([]string, error) {
	names := btree.New(2)
	var err error
	transform.InspectExpr(e, func(e sql.Expression) bool {
		col, ok := e.(*expression.NamedColumn)
		if !ok {
			return false
		}
		if names.Has(nameItem(col.Name())) {
			return false
		}
		names.ReplaceOrInsert(nameItem(col.Name()))
		err = info.MarkColumnForProjection(col.Name(), false)
		return err != nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, names.Len())
	names.Ascend(func(i btree.Item) bool {
		result = append(result, string(i.(nameItem)))
		return true
	})
	return result, nil
}

// PopulateStructColumns builds, for every measure hosted by |scan|, the struct column carrying the values its
// expression reads and the row identity of the table:
//
//	STRUCT<referenced_columns STRUCT<...>, key_columns STRUCT<...>>
//
// The struct columns are registered on |info| and recorded on the expansion of the measure. Every alias of the
// measure gets its own struct column of the same type.
func PopulateStructColumns(ctx *sql.Context, scan *plan.ResolvedTable, info *GrainScanInfo, m *MeasureExpansionMap, f *types.StructFactory, names *sql.NamePool) error {
	span, ctx := ctx.Span("measures.populate_struct_columns")
	defer span.Finish()

	for _, col := range info.MeasureColumns() {
		e, ok := m.Get(col.Id)
		if !ok {
			return errors.AssertionFailedf("measure column %s of %s is not in the expansion map", col, scan.Name())
		}

		refNames, err := referencedColumns(e.MeasureExpr, info)
		if err != nil {
			return err
		}

		refFields, refExprs, err := structFields(info, refNames, names)
		if err != nil {
			return err
		}
		keyCols := info.RowIdentityColumns()
		keyNames := make([]string, len(keyCols))
		for i, c := range keyCols {
			keyNames[i] = c.Column.Name
		}
		keyFields, keyExprs, err := structFields(info, keyNames, names)
		if err != nil {
			return err
		}

		refType, err := f.MakeStructType(refFields...)
		if err != nil {
			return err
		}
		keyType, err := f.MakeStructType(keyFields...)
		if err != nil {
			return err
		}
		structType, err := f.MakeStructType(
			types.StructField{Name: names.Intern(referencedColumnsField), Type: refType},
			types.StructField{Name: names.Intern(keyColumnsField), Type: keyType},
		)
		if err != nil {
			return err
		}
		if structType.NumFields() != 2 {
			return errors.AssertionFailedf("struct for measure %s has %d fields", col, structType.NumFields())
		}

		refStruct, err := expression.NewMakeStruct(refType, refExprs...)
		if err != nil {
			return err
		}
		keyStruct, err := expression.NewMakeStruct(keyType, keyExprs...)
		if err != nil {
			return err
		}
		value, err := expression.NewMakeStruct(structType, refStruct, keyStruct)
		if err != nil {
			return err
		}

		structCol := info.alloc.NewColumn(info.ScanName(), names.Intern(structColumnPrefix+col.Name), structType)
		info.addStructColumn(expression.NewComputedColumn(structCol, value))
		e.StructColumn = structCol
		e.HasStructColumn = true

		for _, alias := range e.RenamedColumns {
			aliasStruct := info.alloc.NewColumn(alias.Scope, names.Intern(structColumnPrefix+alias.Name), structType)
			err := m.Insert(alias, &MeasureExpansion{
				MeasureExpr:     e.MeasureExpr,
				StructColumn:    aliasStruct,
				HasStructColumn: true,
			})
			if err != nil {
				return err
			}
		}

		ctx.GetLogger().Debugf("built %s for measure %s with %d referenced and %d key columns",
			structCol, col, len(refNames), len(keyNames))
	}

	return nil
}

func structFields(info *GrainScanInfo, colNames []string, names *sql.NamePool) ([]types.StructField, []sql.Expression, error) {
	fields := make([]types.StructField, len(colNames))
	exprs := make([]sql.Expression, len(colNames))
	for i, name := range colNames {
		c, ok := info.ColumnToProject(name)
		if !ok {
			return nil, nil, errors.AssertionFailedf("column %s is not projected by the scan of %s", name, info.ScanName())
		}
		fields[i] = types.StructField{Name: names.Intern(c.Column.Name), Type: c.Column.Type}
		exprs[i] = expression.NewColumnRef(c.Column)
	}
	return fields, exprs, nil
}
