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
package sql

import (
	"sort"
	"strings"
)

// FunctionContextId identifies the implementation behind a function signature, independent of the name it was
// called by.
type FunctionContextId int

const (
	FnUnknown FunctionContextId = iota
	// FnAggregate is AGGREGATE(measure), which reads a measure column at the grain of the current group.
	FnAggregate
	// FnAnyValue is ANY_VALUE(x).
	FnAnyValue
	FnSum
	FnCount
	FnMin
	FnMax
	FnAvg
)

// FunctionKind separates scalar from aggregate functions.
type FunctionKind byte

const (
	ScalarFunction FunctionKind = iota
	AggregateFunction
)

// FunctionSignature is one overload of a function.
type FunctionSignature struct {
	ContextId FunctionContextId
	// ArgCount is the number of arguments, or -1 for variadic signatures.
	ArgCount int
	// ResultType is the result type of the signature. A nil result type means the result has the type of the first
	// argument.
	ResultType Type
}

// Function is the catalog entry of a function. Functions are shared by every call to them and are never modified
// after they are registered.
type Function struct {
	Name       string
	Kind       FunctionKind
	Signatures []FunctionSignature
	builtin    bool
}

// NewBuiltinFunction returns a function implemented by the engine itself.
func NewBuiltinFunction(name string, kind FunctionKind, sigs ...FunctionSignature) *Function {
	return &Function{
		Name:       name,
		Kind:       kind,
		Signatures: sigs,
		builtin:    true,
	}
}

// NewExternalFunction returns a function defined outside of the engine, such as a user-defined aggregate.
func NewExternalFunction(name string, kind FunctionKind, sigs ...FunctionSignature) *Function {
	return &Function{
		Name:       name,
		Kind:       kind,
		Signatures: sigs,
	}
}

// NumSignatures returns the number of overloads of the function.
func (f *Function) NumSignatures() int {
	return len(f.Signatures)
}

// IsBuiltin returns whether the function is implemented by the engine.
func (f *Function) IsBuiltin() bool {
	return f.builtin
}

// IsAggregate returns whether the function is an aggregate function.
func (f *Function) IsAggregate() bool {
	return f.Kind == AggregateFunction
}

// Signature returns the signature accepting |argCount| arguments.
func (f *Function) Signature(argCount int) (FunctionSignature, error) {
	for _, sig := range f.Signatures {
		if sig.ArgCount == argCount || sig.ArgCount < 0 {
			return sig, nil
		}
	}
	expected := make([]int, len(f.Signatures))
	for i, sig := range f.Signatures {
		expected[i] = sig.ArgCount
	}
	return FunctionSignature{}, ErrInvalidArgumentNumber.New(f.Name, expected, argCount)
}

// FunctionRegistry is used to register functions. Names are case-insensitive.
type FunctionRegistry map[string]*Function

// NewFunctionRegistry creates a new FunctionRegistry.
func NewFunctionRegistry() FunctionRegistry {
	return make(FunctionRegistry)
}

// Register registers the functions given, replacing any registered function with the same name.
func (r FunctionRegistry) Register(fns ...*Function) {
	for _, fn := range fns {
		r[strings.ToLower(fn.Name)] = fn
	}
}

// Function returns the function with the name provided.
func (r FunctionRegistry) Function(name string) (*Function, error) {
	if fn, ok := r[strings.ToLower(name)]; ok {
		return fn, nil
	}
	return nil, ErrFunctionNotFound.New(name)
}

// Names returns the registered names, sorted.
func (r FunctionRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
