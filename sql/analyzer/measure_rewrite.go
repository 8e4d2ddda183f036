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
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/opentracing/opentracing-go"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/plan"
	"github.com/dolthub/go-measures/sql/transform"
	"github.com/dolthub/go-measures/sql/types"
)

// RewriteMeasures replaces every AGGREGATE(measure) call in |n| by the grain-locked aggregation of the measure
// expression. |grainScans| and |m| must have been filled by LocateGrainScans and PopulateStructColumns.
func RewriteMeasures(ctx *sql.Context, n sql.Node, grainScans *GrainScanMap, anyValue *sql.Function, alloc *sql.ColumnIdAllocator, m *MeasureExpansionMap) (sql.Node, error) {
	span, ctx := ctx.Span("measures.rewrite", opentracing.Tags{
		"measures":    m.Len(),
		"grain_scans": grainScans.Len(),
	})
	defer span.Finish()

	n, _, err := rewriteGrainScans(n, grainScans)
	if err != nil {
		return nil, err
	}

	n, _, err = replaceMeasureColumns(n, m)
	if err != nil {
		return nil, err
	}

	n, _, err = replaceMeasureAggregates(n, m, anyValue, alloc)
	if err != nil {
		return nil, err
	}

	ctx.GetLogger().Debugf("rewrote %d measure columns", m.Len())
	return n, nil
}

// rewriteGrainScans makes every grain scan read the columns requested for its measures, and layers a projection on
// top of it computing the struct columns. The projection outputs the original scan columns followed by the struct
// columns, so positional consumers such as WITH references keep lining up.
func rewriteGrainScans(n sql.Node, grainScans *GrainScanMap) (sql.Node, transform.TreeIdentity, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		scan, ok := n.(*plan.ResolvedTable)
		if !ok {
			return n, transform.SameTree, nil
		}
		info, ok := grainScans.Get(scan)
		if !ok {
			return n, transform.SameTree, nil
		}

		type scanColumn struct {
			col sql.PlanColumn
			idx int
		}
		cols := make([]scanColumn, len(scan.Cols))
		for i := range scan.Cols {
			cols[i] = scanColumn{scan.Cols[i], scan.ColumnIndexes[i]}
		}
		for _, c := range info.ColumnsToProject() {
			if sql.ColumnIndex(scan.Cols, c.Column.Id) < 0 {
				cols = append(cols, scanColumn{c.Column, c.CatalogIndex})
			}
		}
		sort.SliceStable(cols, func(i, j int) bool {
			return cols[i].idx < cols[j].idx
		})

		newCols := make([]sql.PlanColumn, len(cols))
		newIdxs := make([]int, len(cols))
		for i, c := range cols {
			newCols[i] = c.col
			newIdxs[i] = c.idx
		}

		structCols := info.StructColumns()
		outCols := append(append([]sql.PlanColumn(nil), scan.Cols...), expression.ComputedColumns(structCols)...)
		return plan.NewProject(outCols, structCols, scan.WithColumns(newCols, newIdxs)), transform.NewTree, nil
	})
}

// rewriteStructColumnReferences replaces the free column references of the measure expression |e| with reads of
// the matching field of the referenced columns of |structCol|.
func rewriteStructColumnReferences(e sql.Expression, structCol sql.PlanColumn) (sql.Expression, error) {
	st, ok := structCol.Type.(*types.StructType)
	if !ok || st.NumFields() != 2 {
		return nil, errors.AssertionFailedf("column %s is not a measure struct column", structCol)
	}
	refType, ok := st.Field(referencedColumnsIndex).Type.(*types.StructType)
	if !ok {
		return nil, errors.AssertionFailedf("column %s has no referenced columns struct", structCol)
	}

	refs, err := expression.NewGetStructField(expression.NewColumnRef(structCol), referencedColumnsIndex)
	if err != nil {
		return nil, err
	}

	e, _, err = transform.Expr(e, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		col, ok := e.(*expression.NamedColumn)
		if !ok {
			return e, transform.SameTree, nil
		}
		idx, ambiguous := refType.FindField(col.Name())
		if idx < 0 || ambiguous {
			return nil, transform.SameTree, errors.AssertionFailedf("column %s is not a field of %s", col.Name(), refType)
		}
		field, err := expression.NewGetStructField(refs, idx)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return field, transform.NewTree, nil
	})
	return e, err
}

// replaceMeasureColumns replaces the expanded measure columns with their struct columns everywhere but in the
// table scans and in the argument of AGGREGATE calls.
func replaceMeasureColumns(n sql.Node, m *MeasureExpansionMap) (sql.Node, transform.TreeIdentity, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		same := transform.SameTree
		switch nn := n.(type) {
		case *plan.ResolvedTable:
			return n, transform.SameTree, nil
		case *plan.Project:
			if cols, changed := replaceColumns(nn.Cols, m); changed {
				n, same = nn.WithColumns(cols), transform.NewTree
			}
		case *plan.GroupBy:
			if cols, changed := replaceColumns(nn.Cols, m); changed {
				n, same = nn.WithColumns(cols), transform.NewTree
			}
		case *plan.WithRef:
			if cols, changed := replaceColumns(nn.Cols, m); changed {
				n, same = nn.WithColumns(cols), transform.NewTree
			}
		}

		ne, ok := n.(sql.Expressioner)
		if !ok {
			return n, same, nil
		}
		exprs := ne.Expressions()
		newExprs := make([]sql.Expression, len(exprs))
		changed := false
		for i, e := range exprs {
			re, c, err := replaceMeasureRefs(e, m)
			if err != nil {
				return nil, transform.SameTree, err
			}
			newExprs[i] = re
			changed = changed || c
		}
		if !changed {
			return n, same, nil
		}
		n, err := ne.WithExpressions(newExprs...)
		if err != nil {
			return nil, transform.SameTree, err
		}
		return n, transform.NewTree, nil
	})
}

func replaceColumns(cols []sql.PlanColumn, m *MeasureExpansionMap) ([]sql.PlanColumn, bool) {
	changed := false
	result := make([]sql.PlanColumn, 0, len(cols))
	for _, col := range cols {
		if e, ok := m.Get(col.Id); ok && e.HasStructColumn {
			col = e.StructColumn
			changed = true
		}
		if sql.ColumnIndex(result, col.Id) >= 0 {
			changed = true
			continue
		}
		result = append(result, col)
	}
	if !changed {
		return cols, false
	}
	return result, true
}

func replaceMeasureRefs(e sql.Expression, m *MeasureExpansionMap) (sql.Expression, bool, error) {
	if aggregation.IsMeasureAggregate(e) {
		return e, false, nil
	}
	if ref, ok := e.(*expression.ColumnRef); ok {
		if exp, ok := m.Get(ref.Id()); ok && exp.HasStructColumn {
			return ref.WithColumn(exp.StructColumn), true, nil
		}
		return e, false, nil
	}

	children := e.Children()
	if len(children) == 0 {
		return e, false, nil
	}
	newChildren := make([]sql.Expression, len(children))
	changed := false
	for i, child := range children {
		nc, c, err := replaceMeasureRefs(child, m)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = nc
		changed = changed || c
	}
	if !changed {
		return e, false, nil
	}
	ne, err := e.WithChildren(newChildren...)
	if err != nil {
		return nil, false, err
	}
	return ne, true, nil
}

// replaceMeasureAggregates splices the grain-locked aggregation of each measure in place of the AGGREGATE calls of
// every GroupBy. The constituent aggregates replace the call in the GroupBy, and a projection on top computes the
// original output column from them.
func replaceMeasureAggregates(n sql.Node, m *MeasureExpansionMap, anyValue *sql.Function, alloc *sql.ColumnIdAllocator) (sql.Node, transform.TreeIdentity, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		g, ok := n.(*plan.GroupBy)
		if !ok {
			return n, transform.SameTree, nil
		}

		var aggregates, finals []*expression.ComputedColumn
		for _, agg := range g.Aggregates {
			if !aggregation.IsMeasureAggregate(agg.Expr) {
				aggregates = append(aggregates, agg)
				continue
			}

			final, constituents, err := expandMeasureAggregate(agg.Expr.(*aggregation.AggregateCall), m, anyValue, alloc)
			if err != nil {
				return nil, transform.SameTree, err
			}
			aggregates = append(aggregates, constituents...)
			finals = append(finals, expression.NewComputedColumn(agg.Column, final))
		}
		if len(finals) == 0 {
			return n, transform.SameTree, nil
		}

		cols := make([]sql.PlanColumn, 0, len(g.Cols))
		for _, col := range g.Cols {
			if expression.FindComputedColumn(finals, col.Id) == nil {
				cols = append(cols, col)
			}
		}
		for _, agg := range aggregates {
			if sql.ColumnIndex(cols, agg.Column.Id) < 0 {
				cols = append(cols, agg.Column)
			}
		}

		newGroupBy := g.WithAggregates(aggregates).WithColumns(cols)
		return plan.NewProject(g.Cols, finals, newGroupBy), transform.NewTree, nil
	})
}

func expandMeasureAggregate(call *aggregation.AggregateCall, m *MeasureExpansionMap, anyValue *sql.Function, alloc *sql.ColumnIdAllocator) (sql.Expression, []*expression.ComputedColumn, error) {
	ref, ok := call.Args()[0].(*expression.ColumnRef)
	if !ok {
		return nil, nil, errors.AssertionFailedf("AGGREGATE argument %s is not a column reference", call.Args()[0])
	}
	e, ok := m.Get(ref.Id())
	if !ok || !e.HasStructColumn {
		return nil, nil, errors.AssertionFailedf("measure column %s was not expanded", ref.Column())
	}

	measure, err := transform.CopyAndRemapColumns(e.MeasureExpr, alloc, nil)
	if err != nil {
		return nil, nil, err
	}
	measure, err = rewriteStructColumnReferences(measure, e.StructColumn)
	if err != nil {
		return nil, nil, err
	}
	return rewriteMultiLevelAggregates(measure, e.StructColumn, anyValue, alloc)
}
