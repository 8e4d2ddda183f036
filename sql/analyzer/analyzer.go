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
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/expression/function/aggregation"
)

const maxAnalysisIterations = 8

// Builder provides an easy way to generate Analyzer with custom rules and options.
type Builder struct {
	preAnalyzeRules     []Rule
	postAnalyzeRules    []Rule
	postValidationRules []Rule
	config              Config
	functions           sql.FunctionRegistry
}

// NewBuilder creates a new Builder with the configuration given.
// This builder allow us add custom Rules and modify some internal properties.
func NewBuilder(cfg Config) *Builder {
	return &Builder{
		config:    cfg,
		functions: aggregation.Functions(),
	}
}

// WithDebug activates debug on the Analyzer.
func (ab *Builder) WithDebug() *Builder {
	ab.config.Debug = true
	return ab
}

// WithFunctions replaces the function registry the analyzer looks functions up in.
func (ab *Builder) WithFunctions(functions sql.FunctionRegistry) *Builder {
	ab.functions = functions
	return ab
}

// AddPreAnalyzeRule adds a new rule to the analyze before the standard analyzer rules.
func (ab *Builder) AddPreAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.preAnalyzeRules = append(ab.preAnalyzeRules, Rule{name, fn})
	return ab
}

// AddPostAnalyzeRule adds a new rule to the analyzer after standard analyzer rules.
func (ab *Builder) AddPostAnalyzeRule(name string, fn RuleFunc) *Builder {
	ab.postAnalyzeRules = append(ab.postAnalyzeRules, Rule{name, fn})
	return ab
}

// AddPostValidationRule adds a new rule to the analyzer after standard validation rules.
func (ab *Builder) AddPostValidationRule(name string, fn RuleFunc) *Builder {
	ab.postValidationRules = append(ab.postValidationRules, Rule{name, fn})
	return ab
}

// Build creates a new Analyzer from the rules and configuration of the builder.
func (ab *Builder) Build() (*Analyzer, error) {
	if err := ab.config.Validate(); err != nil {
		return nil, err
	}

	batches := []*Batch{
		{
			Desc:       "pre-analyzer",
			Iterations: maxAnalysisIterations,
			Rules:      ab.preAnalyzeRules,
		},
		{
			Desc:       "once-before",
			Iterations: 1,
			Rules:      OnceBeforeDefault,
		},
		{
			Desc:       "post-analyzer",
			Iterations: maxAnalysisIterations,
			Rules:      ab.postAnalyzeRules,
		},
		{
			Desc:       "validation",
			Iterations: 1,
			Rules:      DefaultValidationRules,
		},
		{
			Desc:       "post-validation",
			Iterations: 1,
			Rules:      ab.postValidationRules,
		},
	}

	return &Analyzer{
		Debug:     ab.config.Debug,
		Verbose:   ab.config.Verbose,
		debugCtx:  make([]string, 0),
		Batches:   batches,
		Config:    ab.config,
		Functions: ab.functions,
	}, nil
}

// Analyzer analyzes nodes of the execution plan and applies rules and validations
// to them.
type Analyzer struct {
	// Whether to log various debugging messages
	Debug bool
	// Whether to output the query plan at each step of the analyzer
	Verbose  bool
	debugCtx []string
	// Batches of Rules to apply.
	Batches []*Batch
	// Config the analyzer was built with.
	Config Config
	// Functions is the registry functions introduced by the rules are looked up in.
	Functions sql.FunctionRegistry
}

// NewDefault creates a default Analyzer instance with all default Rules and configuration.
// To add custom rules, the easiest way is use the Builder.
func NewDefault() *Analyzer {
	a, err := NewBuilder(DefaultConfig()).Build()
	if err != nil {
		panic(err)
	}
	return a
}

// Log prints an INFO message to stdout with the given message and args
// if the analyzer is in debug mode.
func (a *Analyzer) Log(msg string, args ...interface{}) {
	if a != nil && a.Debug {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			logrus.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			logrus.Infof(msg, args...)
		}
	}
}

// LogNode prints the node given if Verbose logging is enabled.
func (a *Analyzer) LogNode(n sql.Node) {
	if a != nil && n != nil && a.Verbose {
		if len(a.debugCtx) > 0 {
			ctx := strings.Join(a.debugCtx, "/")
			fmt.Printf("%s:\n%s", ctx, sql.DebugString(n))
		} else {
			fmt.Printf("%s", sql.DebugString(n))
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack, to use when logging debug messages.
func (a *Analyzer) PushDebugContext(msg string) {
	if a != nil {
		a.debugCtx = append(a.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (a *Analyzer) PopDebugContext() {
	if a != nil && len(a.debugCtx) > 0 {
		a.debugCtx = a.debugCtx[:len(a.debugCtx)-1]
	}
}

// Analyze the node and all its children. New columns get ids above every column id already in |n|.
func (a *Analyzer) Analyze(ctx *sql.Context, n sql.Node) (sql.Node, error) {
	return a.AnalyzeWith(ctx, n, NewCompilation(n))
}

// AnalyzeWith analyzes the node and all its children within the compilation given.
func (a *Analyzer) AnalyzeWith(ctx *sql.Context, n sql.Node, c *Compilation) (sql.Node, error) {
	span, ctx := ctx.Span("analyze", opentracing.Tags{
		"plan": n.String(),
	})
	defer span.Finish()

	prev := n
	var err error
	a.Log("starting analysis of node of type: %T", n)
	a.LogNode(n)
	for _, batch := range a.Batches {
		a.PushDebugContext(batch.Desc)
		prev, _, err = batch.Eval(ctx, a, prev, c)
		a.PopDebugContext()
		if ErrMaxAnalysisIters.Is(err) {
			a.Log(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return prev, nil
}
