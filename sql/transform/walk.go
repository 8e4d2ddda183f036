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

// Inspect calls |f| on |node| and then, if it returned true, on each of its children, in order.
func Inspect(node sql.Node, f func(sql.Node) bool) {
	if !f(node) {
		return
	}
	for _, child := range node.Children() {
		Inspect(child, f)
	}
}

// InspectExpressions calls InspectExpr on the expressions of every node of the plan, parents first, until |f|
// returns true. It returns whether the traversal was stopped.
func InspectExpressions(node sql.Node, f func(sql.Expression) bool) bool {
	if n, ok := node.(sql.Expressioner); ok {
		for _, e := range n.Expressions() {
			if InspectExpr(e, f) {
				return true
			}
		}
	}
	for _, child := range node.Children() {
		if InspectExpressions(child, f) {
			return true
		}
	}
	return false
}
