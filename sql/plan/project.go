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

package plan

import (
	"fmt"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression"
)

// Project outputs Cols, in order. Each output column is either defined by one of the Computed columns or passed
// through from the child by id.
type Project struct {
	UnaryNode
	Cols     []sql.PlanColumn
	Computed []*expression.ComputedColumn
}

var _ sql.Node = (*Project)(nil)
var _ sql.Expressioner = (*Project)(nil)

// NewProject creates a new projection.
func NewProject(cols []sql.PlanColumn, computed []*expression.ComputedColumn, child sql.Node) *Project {
	return &Project{
		UnaryNode: UnaryNode{Child: child},
		Cols:      cols,
		Computed:  computed,
	}
}

// Columns implements the sql.Node interface.
func (p *Project) Columns() []sql.PlanColumn {
	return p.Cols
}

// WithChildren implements the Node interface.
func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}
	np := *p
	np.Child = children[0]
	return &np, nil
}

// WithColumns returns a copy of this projection outputting the columns given.
func (p *Project) WithColumns(cols []sql.PlanColumn) *Project {
	np := *p
	np.Cols = cols
	return &np
}

// WithComputed returns a copy of this projection with the computed columns given.
func (p *Project) WithComputed(computed []*expression.ComputedColumn) *Project {
	np := *p
	np.Computed = computed
	return &np
}

// Expressions implements the Expressioner interface.
func (p *Project) Expressions() []sql.Expression {
	return expression.ComputedExpressions(p.Computed)
}

// WithExpressions implements the Expressioner interface.
func (p *Project) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != len(p.Computed) {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(exprs), len(p.Computed))
	}
	np := *p
	np.Computed = expression.WithComputedExpressions(p.Computed, exprs)
	return &np, nil
}

func (p *Project) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Project")
	children := []string{fmt.Sprintf("columns: [%s]", columnsString(p.Cols))}
	if len(p.Computed) > 0 {
		children = append(children, fmt.Sprintf("computed: [%s]", computedString(p.Computed, false)))
	}
	_ = pr.WriteChildren(append(children, p.Child.String())...)
	return pr.String()
}

func (p *Project) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Project")
	children := []string{fmt.Sprintf("columns: [%s]", columnsDebugString(p.Cols))}
	if len(p.Computed) > 0 {
		children = append(children, fmt.Sprintf("computed: [%s]", computedString(p.Computed, true)))
	}
	_ = pr.WriteChildren(append(children, sql.DebugString(p.Child))...)
	return pr.String()
}
