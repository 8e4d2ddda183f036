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

import "fmt"

// Type represents a SQL type. Implementations live in the types package.
type Type interface {
	fmt.Stringer
	// Equals returns whether the given type is structurally the same as this one.
	Equals(otherType Type) bool
	// Compare returns an integer comparing two values.
	// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
	Compare(a, b interface{}) (int, error)
	// Convert a value of a compatible type to a most accurate type.
	Convert(v interface{}) (interface{}, error)
	// Zero returns the golang zero value for this type
	Zero() interface{}
}
