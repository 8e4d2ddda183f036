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

package transform

import (
	"github.com/dolthub/go-measures/sql"
)

// Expr rewrites the expression tree |e| bottom up: |f| is called on every child before its parent, and the parent is
// rebuilt with WithChildren only when one of its children changed. The result is SameTree if neither |f| nor any
// rebuild produced a new expression.
func Expr(e sql.Expression, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) > 0 {
		newChildren, same, err := exprChildren(children, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			e, err = e.WithChildren(newChildren...)
			if err != nil {
				return nil, SameTree, err
			}
			ne, _, err := f(e)
			return ne, NewTree, err
		}
	}
	return f(e)
}

func exprChildren(children []sql.Expression, f ExprFunc) ([]sql.Expression, TreeIdentity, error) {
	var newChildren []sql.Expression
	for i, c := range children {
		nc, same, err := Expr(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		if same {
			continue
		}
		if newChildren == nil {
			newChildren = append([]sql.Expression(nil), children...)
		}
		newChildren[i] = nc
	}
	if newChildren == nil {
		return children, SameTree, nil
	}
	return newChildren, NewTree, nil
}

// InspectExpr calls |f| on every expression of the tree |e|, children first, until |f| returns true. It returns
// whether the traversal was stopped.
func InspectExpr(e sql.Expression, f func(sql.Expression) bool) bool {
	for _, c := range e.Children() {
		if InspectExpr(c, f) {
			return true
		}
	}
	return f(e)
}
