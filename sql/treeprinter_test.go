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
	"testing"

	"github.com/stretchr/testify/require"
)

const expectedTree = `Project(k1#1, m#4)
 ├─ GroupBy
 │   ├─ TableA
 │   └─ TableB
 └─ Join
     ├─ TableC
     └─ TableD
`

func TestTreePrinter(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	require.NoError(p.WriteNode("Project(%s, %s)", "k1#1", "m#4"))

	p2 := NewTreePrinter()
	require.NoError(p2.WriteNode("GroupBy"))
	require.NoError(p2.WriteChildren(
		"TableA",
		"TableB",
	))

	p3 := NewTreePrinter()
	require.NoError(p3.WriteNode("Join"))
	require.NoError(p3.WriteChildren(
		"TableC",
		"TableD",
	))

	require.NoError(p.WriteChildren(
		p2.String(),
		p3.String(),
	))

	require.Equal(expectedTree, p.String())
}

func TestTreePrinterErrors(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	err := p.WriteChildren("TableA")
	require.True(ErrNodeNotWritten.Is(err))

	require.NoError(p.WriteNode("Filter"))
	err = p.WriteNode("Filter")
	require.True(ErrNodeAlreadyWritten.Is(err))

	require.NoError(p.WriteChildren("TableA"))
	err = p.WriteChildren("TableB")
	require.True(ErrChildrenAlreadyWritten.Is(err))
}
