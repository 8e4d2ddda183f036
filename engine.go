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

package measures

import (
	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/analyzer"
	"github.com/dolthub/go-measures/sql/rowexec"
)

// Engine compiles resolved plans and executes them.
type Engine struct {
	Analyzer *analyzer.Analyzer
	Builder  *rowexec.Builder
}

// New creates a new Engine with the analyzer given.
func New(a *analyzer.Analyzer) *Engine {
	return &Engine{
		Analyzer: a,
		Builder:  rowexec.DefaultBuilder,
	}
}

// NewDefault creates a new Engine with the default analyzer.
func NewDefault() *Engine {
	return New(analyzer.NewDefault())
}

// Compile analyzes |n|, expanding the measures it aggregates. Columns introduced by the analyzer are minted with
// |alloc| when it is not nil, and above every column id of |n| otherwise.
func (e *Engine) Compile(ctx *sql.Context, n sql.Node, alloc *sql.ColumnIdAllocator) (sql.Node, error) {
	c := analyzer.NewCompilation(n)
	if alloc != nil {
		c = analyzer.NewCompilationWithAllocator(alloc)
	}
	return e.Analyzer.AnalyzeWith(ctx, n, c)
}

// Query compiles |n| and returns the compiled plan along with an iterator over its rows.
func (e *Engine) Query(ctx *sql.Context, n sql.Node) (sql.Node, sql.RowIter, error) {
	logger := ctx.GetLogger()
	logger.Debug("compiling plan")

	analyzed, err := e.Compile(ctx, n, nil)
	if err != nil {
		logger.WithError(err).Debug("compilation failed")
		return nil, nil, err
	}

	iter, err := e.Builder.Build(ctx, analyzed)
	if err != nil {
		return nil, nil, err
	}

	return analyzed, iter, nil
}
