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
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
	"github.com/dolthub/go-measures/sql/transform"
)

// expandMeasures replaces the AGGREGATE(measure) calls of the plan with grain-locked multi-level aggregations of
// the measure expressions.
func expandMeasures(ctx *sql.Context, a *Analyzer, n sql.Node, c *Compilation) (sql.Node, transform.TreeIdentity, error) {
	if !hasMeasureAggregate(n) {
		return n, transform.SameTree, nil
	}

	anyValue, err := a.Functions.Function(aggregation.AnyValue.Name)
	if err != nil {
		return nil, transform.SameTree, err
	}
	if !anyValue.IsAggregate() {
		return nil, transform.SameTree, ErrFunctionNotAggregate.New(anyValue.Name)
	}

	m := NewMeasureExpansionMap()
	grainScans, err := LocateGrainScans(ctx, n, m, c.Columns, a.Config)
	if err != nil {
		return nil, transform.SameTree, err
	}
	a.Log("found %d measure columns over %d grain scans", m.Len(), grainScans.Len())

	for _, scan := range grainScans.Scans() {
		info, _ := grainScans.Get(scan)
		if err := PopulateStructColumns(ctx, scan, info, m, c.Structs, c.Names); err != nil {
			return nil, transform.SameTree, err
		}
		a.Log("grain scan %s hosts %d measures and projects %d columns",
			info.ScanName(), len(info.MeasureColumns()), len(info.ColumnsToProject()))
	}

	n, err = RewriteMeasures(ctx, n, grainScans, anyValue, c.Columns, m)
	if err != nil {
		return nil, transform.SameTree, err
	}
	return n, transform.NewTree, nil
}

func hasMeasureAggregate(n sql.Node) bool {
	found := false
	transform.InspectExpressions(n, func(e sql.Expression) bool {
		found = aggregation.IsMeasureAggregate(e)
		return found
	})
	return found
}
