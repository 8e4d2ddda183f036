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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/transform"
	"github.com/dolthub/go-measures/sql/types"
)

// ColumnToProject is a column a grain scan has to output for the measures it hosts.
type ColumnToProject struct {
	Column sql.PlanColumn
	// IsRowIdentity is set for the columns making up the row identity of the table.
	IsRowIdentity bool
	// CatalogIndex is the index of the column in the table schema.
	CatalogIndex int
}

type columnToProjectItem struct {
	key string
	ColumnToProject
}

func (i columnToProjectItem) Less(than btree.Item) bool {
	return i.key < than.(columnToProjectItem).key
}

func columnKey(name string) string {
	return strings.ToLower(name)
}

// GrainScanInfo is the bookkeeping of a table scan hosting at least one expanded measure: the columns the scan has
// to output so the measure expressions and the row identity can be computed, and the struct columns built on top
// of them.
type GrainScanInfo struct {
	scanName         string
	table            sql.Table
	scanColumns      []sql.PlanColumn
	scanIndexes      []int
	rowIdentity      []int
	columnsToProject *btree.BTree
	structColumns    []*expression.ComputedColumn
	measureColumns   []sql.PlanColumn
	alloc            *sql.ColumnIdAllocator
}

func newGrainScanInfo(scan *plan.ResolvedTable, alloc *sql.ColumnIdAllocator) (*GrainScanInfo, error) {
	if len(scan.Cols) != len(scan.ColumnIndexes) {
		return nil, errors.AssertionFailedf("scan of %s outputs %d columns but reads %d",
			scan.Name(), len(scan.Cols), len(scan.ColumnIndexes))
	}

	rowIdentity := scan.RowIdentityColumns()
	if len(rowIdentity) == 0 {
		return nil, errors.AssertionFailedf("table %s hosts a measure but has no row identity columns", scan.Name())
	}

	return &GrainScanInfo{
		scanName:         scan.Name(),
		table:            scan.Table,
		scanColumns:      scan.Cols,
		scanIndexes:      scan.ColumnIndexes,
		rowIdentity:      rowIdentity,
		columnsToProject: btree.New(2),
		alloc:            alloc,
	}, nil
}

// ScanName returns the name of the table scanned.
func (g *GrainScanInfo) ScanName() string {
	return g.scanName
}

// MarkColumnForProjection requests the scan to output the table column named. The column the scan already
// outputs for it is reused, otherwise a new one is minted. Requesting a column twice is a no-op.
func (g *GrainScanInfo) MarkColumnForProjection(name string, isRowIdentity bool) error {
	key := columnKey(name)
	if g.columnsToProject.Has(columnToProjectItem{key: key}) {
		return nil
	}

	schema := g.table.Schema()
	idx := schema.IndexOfColName(name)
	if idx < 0 {
		return errors.AssertionFailedf("column %s is not in table %s", name, g.scanName)
	}

	var col sql.PlanColumn
	for i, catalogIdx := range g.scanIndexes {
		if catalogIdx == idx {
			col = g.scanColumns[i]
			break
		}
	}
	if !col.IsValid() {
		col = g.alloc.NewColumn(g.scanName, schema[idx].Name, schema[idx].Type)
	}

	g.columnsToProject.ReplaceOrInsert(columnToProjectItem{
		key: key,
		ColumnToProject: ColumnToProject{
			Column:        col,
			IsRowIdentity: isRowIdentity,
			CatalogIndex:  idx,
		},
	})
	return nil
}

// ColumnToProject returns the requested column named, if any.
func (g *GrainScanInfo) ColumnToProject(name string) (ColumnToProject, bool) {
	item := g.columnsToProject.Get(columnToProjectItem{key: columnKey(name)})
	if item == nil {
		return ColumnToProject{}, false
	}
	return item.(columnToProjectItem).ColumnToProject, true
}

// ColumnsToProject returns every requested column, ordered by name.
func (g *GrainScanInfo) ColumnsToProject() []ColumnToProject {
	cols := make([]ColumnToProject, 0, g.columnsToProject.Len())
	g.columnsToProject.Ascend(func(i btree.Item) bool {
		cols = append(cols, i.(columnToProjectItem).ColumnToProject)
		return true
	})
	return cols
}

// RowIdentityColumns returns the requested row identity columns, ordered by name.
func (g *GrainScanInfo) RowIdentityColumns() []ColumnToProject {
	var cols []ColumnToProject
	for _, c := range g.ColumnsToProject() {
		if c.IsRowIdentity {
			cols = append(cols, c)
		}
	}
	return cols
}

// StructColumns returns the struct columns computed on top of the scan.
func (g *GrainScanInfo) StructColumns() []*expression.ComputedColumn {
	return g.structColumns
}

// MeasureColumns returns the expanded measure columns output by the scan.
func (g *GrainScanInfo) MeasureColumns() []sql.PlanColumn {
	return g.measureColumns
}

func (g *GrainScanInfo) addStructColumn(c *expression.ComputedColumn) {
	g.structColumns = append(g.structColumns, c)
}

type visitPhase int

const (
	// gatherMeasureInfo records the measure columns invoked by AGGREGATE and the renames of measure columns.
	gatherMeasureInfo visitPhase = iota
	// constructGrainScanInfo builds the bookkeeping of the scans hosting the measures found.
	constructGrainScanInfo
)

type grainScanFinder struct {
	phase      visitPhase
	cfg        Config
	alloc      *sql.ColumnIdAllocator
	expansions *MeasureExpansionMap
	grainScans *GrainScanMap

	invoked []sql.PlanColumn
	aliases map[sql.ColumnId]*plan.WithRef
	entries map[string]*plan.WithEntry

	err error
}

func (f *grainScanFinder) visit(n sql.Node) bool {
	if f.err != nil {
		return false
	}

	switch f.phase {
	case gatherMeasureInfo:
		f.err = f.gather(n)
	case constructGrainScanInfo:
		if scan, ok := n.(*plan.ResolvedTable); ok {
			f.err = f.construct(scan)
		}
	}
	return f.err == nil
}

func (f *grainScanFinder) gather(n sql.Node) error {
	switch n := n.(type) {
	case *plan.GroupBy:
		for _, agg := range n.Aggregates {
			if !aggregation.IsMeasureAggregate(agg.Expr) {
				continue
			}
			call := agg.Expr.(*aggregation.AggregateCall)
			ref, ok := call.Args()[0].(*expression.ColumnRef)
			if !ok {
				return errors.AssertionFailedf("AGGREGATE argument %s is not a column reference", call.Args()[0])
			}
			if sql.ColumnIndex(f.invoked, ref.Id()) < 0 {
				f.invoked = append(f.invoked, ref.Column())
			}
		}
	case *plan.WithRef:
		for _, col := range n.Cols {
			if types.IsMeasure(col.Type) {
				f.aliases[col.Id] = n
			}
		}
	case *plan.WithEntry:
		f.entries[strings.ToLower(n.Name)] = n
	}
	return nil
}

// resolveRenames follows the renames of |col| down to the column output by the scan hosting the measure. It
// returns that column and the aliases found on the way, oldest first.
func (f *grainScanFinder) resolveRenames(col sql.PlanColumn) (sql.PlanColumn, []sql.PlanColumn, error) {
	var chain []sql.PlanColumn
	cur := col
	for {
		ref, ok := f.aliases[cur.Id]
		if !ok {
			break
		}
		if len(chain) >= f.cfg.MaxMeasureRenameDepth {
			return sql.PlanColumn{}, nil, ErrMeasureRenamedTooManyTimes.New(col.Name, f.cfg.MaxMeasureRenameDepth)
		}

		entry, ok := f.entries[strings.ToLower(ref.Name)]
		if !ok {
			return sql.PlanColumn{}, nil, errors.AssertionFailedf("no WITH entry named %s", ref.Name)
		}
		idx := sql.ColumnIndex(ref.Cols, cur.Id)
		entryCols := entry.Columns()
		if idx < 0 || idx >= len(entryCols) {
			return sql.PlanColumn{}, nil, errors.AssertionFailedf("column %s of %s has no match in its WITH entry", cur, ref.Name)
		}

		chain = append(chain, cur)
		cur = entryCols[idx]
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return cur, chain, nil
}

func (f *grainScanFinder) construct(scan *plan.ResolvedTable) error {
	hostsMeasure := false
	for _, col := range scan.Cols {
		if f.expansions.Contains(col.Id) {
			hostsMeasure = true
			break
		}
	}
	if !hostsMeasure {
		return nil
	}

	info, err := newGrainScanInfo(scan, f.alloc)
	if err != nil {
		return err
	}

	schema := scan.Schema()
	isRowIdentity := make(map[int]bool, len(info.rowIdentity))
	for _, idx := range info.rowIdentity {
		isRowIdentity[idx] = true
	}

	for i, col := range scan.Cols {
		schemaCol := schema[scan.ColumnIndexes[i]]
		if e, ok := f.expansions.Get(col.Id); ok {
			if !schemaCol.HasMeasureExpression() {
				return errors.AssertionFailedf("measure column %s has no defining expression", col)
			}
			e.MeasureExpr = schemaCol.MeasureExpression()
			info.measureColumns = append(info.measureColumns, col)
			continue
		}
		if err := info.MarkColumnForProjection(schemaCol.Name, isRowIdentity[scan.ColumnIndexes[i]]); err != nil {
			return err
		}
	}

	for _, idx := range info.rowIdentity {
		if err := info.MarkColumnForProjection(schema[idx].Name, true); err != nil {
			return err
		}
	}

	f.grainScans.put(scan, info)
	return nil
}

// LocateGrainScans finds the measure columns invoked by AGGREGATE calls in |n|, follows their renames down to the
// table scans hosting them, and returns the bookkeeping of those scans. The measure columns and their aliases are
// recorded in |m|.
func LocateGrainScans(ctx *sql.Context, n sql.Node, m *MeasureExpansionMap, alloc *sql.ColumnIdAllocator, cfg Config) (*GrainScanMap, error) {
	span, ctx := ctx.Span("measures.locate_grain_scans")
	defer span.Finish()

	f := &grainScanFinder{
		phase:      gatherMeasureInfo,
		cfg:        cfg,
		alloc:      alloc,
		expansions: m,
		grainScans: NewGrainScanMap(),
		aliases:    make(map[sql.ColumnId]*plan.WithRef),
		entries:    make(map[string]*plan.WithEntry),
	}

	transform.Inspect(n, f.visit)
	if f.err != nil {
		return nil, f.err
	}

	for _, col := range f.invoked {
		original, chain, err := f.resolveRenames(col)
		if err != nil {
			return nil, err
		}
		m.addRenames(original, chain)
	}

	f.phase = constructGrainScanInfo
	transform.Inspect(n, f.visit)
	if f.err != nil {
		return nil, f.err
	}

	for _, col := range m.Keys() {
		if e, _ := m.Get(col.Id); e.MeasureExpr == nil {
			return nil, errors.AssertionFailedf("no table scan hosts measure column %s", col)
		}
	}

	span.SetTag("grain_scans", f.grainScans.Len())
	ctx.GetLogger().WithFields(logrus.Fields{
		"measures":    m.Len(),
		"grain_scans": f.grainScans.Len(),
	}).Debug("located measure grain scans")

	return f.grainScans, nil
}
