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
package types

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/dolthub/go-measures/sql"
)

// Text is a string of unbounded length.
var Text = StringType{}

// StringType is the type of string values.
type StringType struct{}

var _ sql.Type = StringType{}

// Compare implements the sql.Type interface.
func (t StringType) Compare(a interface{}, b interface{}) (int, error) {
	if hasNulls, res := CompareNulls(a, b); hasNulls {
		return res, nil
	}

	as, err := cast.ToStringE(a)
	if err != nil {
		return 0, err
	}
	bs, err := cast.ToStringE(b)
	if err != nil {
		return 0, err
	}
	return strings.Compare(as, bs), nil
}

// Convert implements the sql.Type interface.
func (t StringType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return cast.ToStringE(v)
}

// Equals implements the sql.Type interface.
func (t StringType) Equals(otherType sql.Type) bool {
	_, ok := otherType.(StringType)
	return ok
}

// String implements the sql.Type interface.
func (t StringType) String() string {
	return "STRING"
}

// Zero implements the sql.Type interface.
func (t StringType) Zero() interface{} {
	return ""
}
