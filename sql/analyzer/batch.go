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
	"github.com/dolthub/go-measures/sql/transform"
)

// RuleFunc is the function to be applied in a rule.
type RuleFunc func(*sql.Context, *Analyzer, sql.Node, *Compilation) (sql.Node, transform.TreeIdentity, error)

// Rule to transform nodes.
type Rule struct {
	// Name of the rule.
	Name string
	// Apply transforms a node.
	Apply RuleFunc
}

// Batch executes a set of rules a specific number of times.
// When this number of times is reached, the actual node
// and ErrMaxAnalysisIters is returned.
type Batch struct {
	Desc       string
	Iterations int
	Rules      []Rule
}

// Eval executes the actual rules the specified number of times on the Batch.
// If max number of iterations is reached, this method will return the actual
// processed Node and ErrMaxAnalysisIters error.
func (b *Batch) Eval(ctx *sql.Context, a *Analyzer, n sql.Node, c *Compilation) (sql.Node, transform.TreeIdentity, error) {
	if b.Iterations == 0 {
		return n, transform.SameTree, nil
	}

	cur, same, err := b.evalOnce(ctx, a, n, c)
	if err != nil {
		return nil, transform.SameTree, err
	}
	allSame := same

	if b.Iterations == 1 {
		return cur, same, nil
	}

	for i := 1; !same; {
		if i >= b.Iterations {
			return cur, allSame, ErrMaxAnalysisIters.New(b.Iterations)
		}
		cur, same, err = b.evalOnce(ctx, a, cur, c)
		if err != nil {
			return nil, transform.SameTree, err
		}
		allSame = allSame && same
		i++
	}

	return cur, allSame, nil
}

func (b *Batch) evalOnce(ctx *sql.Context, a *Analyzer, n sql.Node, c *Compilation) (sql.Node, transform.TreeIdentity, error) {
	result := n
	allSame := transform.SameTree
	for _, rule := range b.Rules {
		a.PushDebugContext(rule.Name)
		span, ctx := ctx.Span(rule.Name)

		var same transform.TreeIdentity
		var err error
		result, same, err = rule.Apply(ctx, a, result, c)

		span.Finish()
		a.PopDebugContext()
		if err != nil {
			return nil, transform.SameTree, err
		}
		if !same {
			a.LogNode(result)
		}
		allSame = allSame && same
	}

	return result, allSame, nil
}
