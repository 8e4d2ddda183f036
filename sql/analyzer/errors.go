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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMaxAnalysisIters is thrown when the analysis iterations are exceeded
	ErrMaxAnalysisIters = errors.NewKind("exceeded max analysis iterations (%d)")

	// ErrInvalidConfig is returned when the analyzer configuration cannot be used.
	ErrInvalidConfig = errors.NewKind("invalid analyzer configuration: %s")

	// ErrMeasureRenamedTooManyTimes is returned when following the renames of a measure column through WITH
	// references takes more hops than the configured limit.
	ErrMeasureRenamedTooManyTimes = errors.NewKind("measure column %s was renamed more than %d times")

	// ErrMeasureGenericArguments is returned when an aggregate call inside a measure expression has generic
	// arguments, which cannot be grain locked.
	ErrMeasureGenericArguments = errors.NewKind("measure type rewrite does not currently support generic arguments")

	// ErrMeasureNotExpanded is returned by validation when an AGGREGATE call survived the measure expansion.
	ErrMeasureNotExpanded = errors.NewKind("measure aggregation %s was not expanded")

	// ErrMeasureInOutput is returned by validation when a query returns a measure column.
	ErrMeasureInOutput = errors.NewKind("measure column %s cannot be returned by a query, use AGGREGATE(%s)")

	// ErrFunctionNotAggregate is returned when the function used for grain locking is not an aggregate function.
	ErrFunctionNotAggregate = errors.NewKind("function %s is not an aggregate function")
)
