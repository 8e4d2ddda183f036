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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-measures/sql"
)

func TestNode(t *testing.T) {
	aToB := func(node sql.Node) (sql.Node, TreeIdentity, error) {
		if n, ok := node.(*nodeA); ok {
			return b(n.children...), NewTree, nil
		}
		return node, SameTree, nil
	}
	cToA := func(node sql.Node) (sql.Node, TreeIdentity, error) {
		if n, ok := node.(*nodeC); ok {
			return a(n.children...), NewTree, nil
		}
		return node, SameTree, nil
	}

	tests := []struct {
		inp   sql.Node
		cmp   sql.Node
		visit NodeFunc
		same  TreeIdentity
	}{
		{inp: a(a(), b(a())), cmp: b(b(), b(b())), visit: aToB, same: NewTree},
		{inp: b(c(), b(c())), cmp: b(a(), b(a())), visit: cToA, same: NewTree},
		{inp: b(b(b(b(a())))), cmp: b(b(b(b(b())))), visit: aToB, same: NewTree},
		{inp: a(), cmp: b(), visit: aToB, same: NewTree},
		{inp: b(b(), c()), cmp: b(b(), c()), visit: aToB, same: SameTree},
		{inp: a(b(a())), cmp: a(b(a())), visit: cToA, same: SameTree},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			res, same, err := Node(tt.inp, tt.visit)
			require.NoError(t, err)
			require.Equal(t, tt.cmp, res)
			require.Equal(t, tt.same, same)
		})
	}
}

func TestNodeError(t *testing.T) {
	expected := fmt.Errorf("boom")
	_, _, err := Node(a(b(), c()), func(node sql.Node) (sql.Node, TreeIdentity, error) {
		if _, ok := node.(*nodeC); ok {
			return nil, SameTree, expected
		}
		return node, SameTree, nil
	})
	require.Equal(t, expected, err)
}

func TestInspect(t *testing.T) {
	var visited []string
	Inspect(a(b(c()), c(a())), func(node sql.Node) bool {
		switch node.(type) {
		case *nodeA:
			visited = append(visited, "a")
		case *nodeB:
			visited = append(visited, "b")
			return false
		case *nodeC:
			visited = append(visited, "c")
		}
		return true
	})
	require.Equal(t, []string{"a", "b", "c", "a"}, visited)
}

type nodeA struct {
	testNode
}
type nodeB struct {
	testNode
}
type nodeC struct {
	testNode
}

var _ sql.Node = (*nodeA)(nil)

func a(nodes ...sql.Node) *nodeA {
	return &nodeA{testNode{children: nodes}}
}

func b(nodes ...sql.Node) *nodeB {
	return &nodeB{testNode{children: nodes}}
}

func c(nodes ...sql.Node) *nodeC {
	return &nodeC{testNode{children: nodes}}
}

func (n *nodeA) WithChildren(nodes ...sql.Node) (sql.Node, error) {
	nn := *n
	nn.children = nodes
	return &nn, nil
}

func (n *nodeB) WithChildren(nodes ...sql.Node) (sql.Node, error) {
	nn := *n
	nn.children = nodes
	return &nn, nil
}

func (n *nodeC) WithChildren(nodes ...sql.Node) (sql.Node, error) {
	nn := *n
	nn.children = nodes
	return &nn, nil
}

type testNode struct {
	children []sql.Node
}

var _ sql.Node = (*testNode)(nil)

func (n *testNode) String() string {
	return ""
}

func (n *testNode) Columns() []sql.PlanColumn {
	return nil
}

func (n *testNode) Children() []sql.Node {
	return n.children
}

func (n *testNode) WithChildren(nodes ...sql.Node) (sql.Node, error) {
	nn := *n
	nn.children = nodes
	return &nn, nil
}
