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
	"os"

	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/types"
)

// ErrInvalidFixture is returned when a database fixture can't be loaded.
var ErrInvalidFixture = errors.NewKind("invalid fixture: %s")

// databaseDef is the YAML layout of a database fixture:
//
//	name: sales
//	tables:
//	  - name: orders
//	    columns:
//	      - {name: id, type: INT64, primary_key: true}
//	      - {name: amount, type: INT64}
//	      - name: total
//	        measure: {function: SUM, args: [{column: amount}]}
//	    rows:
//	      - [1, 10]
//
// Rows list the values of the non-measure columns, in schema order.
type databaseDef struct {
	Name   string     `yaml:"name"`
	Tables []tableDef `yaml:"tables"`
}

type tableDef struct {
	Name       string          `yaml:"name"`
	Partitions int             `yaml:"partitions"`
	Columns    []columnDef     `yaml:"columns"`
	Rows       [][]interface{} `yaml:"rows"`
}

type columnDef struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	PrimaryKey bool           `yaml:"primary_key"`
	Nullable   bool           `yaml:"nullable"`
	Comment    string         `yaml:"comment"`
	Measure    *expressionDef `yaml:"measure"`
}

// expressionDef is a measure expression: a column of the same table, a literal, a function call or a binary
// arithmetic operation over its two args.
type expressionDef struct {
	Column   string          `yaml:"column"`
	Literal  interface{}     `yaml:"literal"`
	Type     string          `yaml:"type"`
	Function string          `yaml:"function"`
	Distinct bool            `yaml:"distinct"`
	Op       string          `yaml:"op"`
	Args     []expressionDef `yaml:"args"`
}

// LoadDatabaseFile loads a database fixture from the YAML file at |path|.
func LoadDatabaseFile(ctx *sql.Context, path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDatabase(ctx, f)
}

// LoadDatabase loads a database fixture in YAML format.
func LoadDatabase(ctx *sql.Context, r io.Reader) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var def databaseDef
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, ErrInvalidFixture.Wrap(err, err.Error())
	}
	if def.Name == "" {
		return nil, ErrInvalidFixture.New("database has no name")
	}

	db := NewDatabase(def.Name)
	functions := aggregation.Functions()
	for _, td := range def.Tables {
		t, err := loadTable(ctx, td, functions)
		if err != nil {
			return nil, err
		}
		if _, ok, _ := db.GetTableInsensitive(ctx, t.Name()); ok {
			return nil, sql.ErrTableAlreadyExists.New(t.Name())
		}
		db.AddTable(t.Name(), t)
	}

	ctx.GetLogger().Debugf("loaded fixture database %s with %d tables", db.Name(), len(db.tables))
	return db, nil
}

func loadTable(ctx *sql.Context, td tableDef, functions sql.FunctionRegistry) (*Table, error) {
	if td.Name == "" {
		return nil, ErrInvalidFixture.New("table has no name")
	}

	schema := make(sql.Schema, len(td.Columns))
	measures := make(map[int]bool)
	var valueIdxs []int
	for i, cd := range td.Columns {
		schema[i] = &sql.Column{
			Name:       cd.Name,
			Nullable:   cd.Nullable,
			Source:     td.Name,
			PrimaryKey: cd.PrimaryKey,
			Comment:    cd.Comment,
		}
		if cd.Measure != nil {
			if cd.PrimaryKey {
				return nil, ErrInvalidFixture.New(fmt.Sprintf("measure %s.%s can't be part of the primary key", td.Name, cd.Name))
			}
			measures[i] = true
			continue
		}

		typ, err := types.ParseScalarType(cd.Type)
		if err != nil {
			return nil, ErrInvalidFixture.Wrap(err, fmt.Sprintf("column %s.%s: %s", td.Name, cd.Name, err))
		}
		schema[i].Type = typ
		valueIdxs = append(valueIdxs, i)
	}

	for i, cd := range td.Columns {
		if !measures[i] {
			continue
		}
		measure, err := buildExpression(td, schema, measures, *cd.Measure, functions)
		if err != nil {
			return nil, err
		}
		schema[i].Type = types.NewMeasureType(measure.Type())
		schema[i].Nullable = true
		schema[i].Measure = measure
	}

	t := NewPartitionedTable(td.Name, schema, td.Partitions)
	for _, values := range td.Rows {
		if len(values) != len(valueIdxs) {
			return nil, ErrInvalidFixture.New(fmt.Sprintf("table %s: expected %d values per row, got %d", td.Name, len(valueIdxs), len(values)))
		}
		row := make(sql.Row, len(schema))
		for i, idx := range valueIdxs {
			row[idx] = values[i]
		}
		if err := t.Insert(ctx, row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func buildExpression(td tableDef, schema sql.Schema, measures map[int]bool, def expressionDef, functions sql.FunctionRegistry) (sql.Expression, error) {
	switch {
	case def.Column != "":
		idx := schema.IndexOfColName(def.Column)
		if idx < 0 {
			return nil, sql.ErrTableColumnNotFound.New(td.Name, def.Column)
		}
		if measures[idx] {
			return nil, ErrInvalidFixture.New(fmt.Sprintf("measure of table %s references measure %s", td.Name, def.Column))
		}
		return expression.NewNamedColumn(schema[idx].Name, schema[idx].Type), nil
	case def.Function != "":
		fn, err := functions.Function(def.Function)
		if err != nil {
			return nil, err
		}
		args, err := buildExpressions(td, schema, measures, def.Args, functions)
		if err != nil {
			return nil, err
		}
		call, err := aggregation.NewAggregateCall(fn, args...)
		if err != nil {
			return nil, err
		}
		return call.WithDistinct(def.Distinct), nil
	case def.Op != "":
		if len(def.Args) != 2 {
			return nil, ErrInvalidFixture.New(fmt.Sprintf("operator %s expects 2 args, got %d", def.Op, len(def.Args)))
		}
		args, err := buildExpressions(td, schema, measures, def.Args, functions)
		if err != nil {
			return nil, err
		}
		switch def.Op {
		case expression.PlusOp, expression.MinusOp, expression.MultOp, expression.DivOp:
			return expression.NewArithmetic(args[0], args[1], def.Op), nil
		default:
			return nil, ErrInvalidFixture.New(fmt.Sprintf("unknown operator %s", def.Op))
		}
	case def.Literal != nil:
		return buildLiteral(def)
	default:
		return nil, ErrInvalidFixture.New(fmt.Sprintf("empty expression in table %s", td.Name))
	}
}

func buildExpressions(td tableDef, schema sql.Schema, measures map[int]bool, defs []expressionDef, functions sql.FunctionRegistry) ([]sql.Expression, error) {
	exprs := make([]sql.Expression, len(defs))
	for i, d := range defs {
		e, err := buildExpression(td, schema, measures, d, functions)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func buildLiteral(def expressionDef) (sql.Expression, error) {
	var typ sql.Type
	if def.Type != "" {
		var err error
		if typ, err = types.ParseScalarType(def.Type); err != nil {
			return nil, err
		}
	} else {
		switch def.Literal.(type) {
		case int, int64:
			typ = types.Int64
		case float64:
			typ = types.Float64
		case bool:
			typ = types.Boolean
		case string:
			typ = types.Text
		default:
			return nil, ErrInvalidFixture.New(fmt.Sprintf("unsupported literal %v", def.Literal))
		}
	}

	v, err := typ.Convert(def.Literal)
	if err != nil {
		return nil, err
	}
	return expression.NewLiteral(v, typ), nil
}
