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
	"github.com/dolthub/go-measures/sql/types"
)

func validateMeasuresExpanded(ctx *sql.Context, a *Analyzer, n sql.Node, c *Compilation) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("validate_measures_expanded")
	defer span.Finish()

	var err error
	transform.InspectExpressions(n, func(e sql.Expression) bool {
		if aggregation.IsMeasureAggregate(e) {
			err = ErrMeasureNotExpanded.New(e.String())
			return true
		}
		return false
	})
	if err != nil {
		return nil, transform.SameTree, err
	}
	return n, transform.SameTree, nil
}

func validateNoMeasureOutput(ctx *sql.Context, a *Analyzer, n sql.Node, c *Compilation) (sql.Node, transform.TreeIdentity, error) {
	for _, col := range n.Columns() {
		if types.IsMeasure(col.Type) {
			return nil, transform.SameTree, ErrMeasureInOutput.New(col.Name, col.Name)
		}
	}
	return n, transform.SameTree, nil
}
