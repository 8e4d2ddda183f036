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

package plan

import (
	"fmt"
	"strings"

	"github.com/dolthub/go-measures/sql"
)

// With is a query with common table expressions. Each entry is visible to the entries that follow it and to the
// main query, where it is read with a WithRef.
type With struct {
	Entries []*WithEntry
	Query   sql.Node
}

var _ sql.Node = (*With)(nil)

// NewWith creates a new With node.
func NewWith(query sql.Node, entries ...*WithEntry) *With {
	return &With{
		Entries: entries,
		Query:   query,
	}
}

// Columns implements the sql.Node interface.
func (w *With) Columns() []sql.PlanColumn {
	return w.Query.Columns()
}

// Children implements the Node interface. The entries come first, in order, then the query.
func (w *With) Children() []sql.Node {
	children := make([]sql.Node, 0, len(w.Entries)+1)
	for _, e := range w.Entries {
		children = append(children, e)
	}
	return append(children, w.Query)
}

// WithChildren implements the Node interface.
func (w *With) WithChildren(children ...sql.Node) (sql.Node, error) {
	expected := len(w.Entries) + 1
	if len(children) != expected {
		return nil, sql.ErrInvalidChildrenNumber.New(w, len(children), expected)
	}

	entries := make([]*WithEntry, len(w.Entries))
	for i := range w.Entries {
		e, ok := children[i].(*WithEntry)
		if !ok {
			return nil, sql.ErrInvalidChildType.New(w, children[i], (*WithEntry)(nil))
		}
		entries[i] = e
	}
	return NewWith(children[len(entries)], entries...), nil
}

func (w *With) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("With")
	children := make([]string, 0, len(w.Entries)+1)
	for _, e := range w.Entries {
		children = append(children, e.String())
	}
	_ = pr.WriteChildren(append(children, w.Query.String())...)
	return pr.String()
}

func (w *With) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("With")
	children := make([]string, 0, len(w.Entries)+1)
	for _, e := range w.Entries {
		children = append(children, sql.DebugString(e))
	}
	_ = pr.WriteChildren(append(children, sql.DebugString(w.Query))...)
	return pr.String()
}

// WithEntry is a named subquery of a With node.
type WithEntry struct {
	UnaryNode
	Name string
}

var _ sql.Node = (*WithEntry)(nil)

// NewWithEntry creates a new entry.
func NewWithEntry(name string, subquery sql.Node) *WithEntry {
	return &WithEntry{
		UnaryNode: UnaryNode{Child: subquery},
		Name:      name,
	}
}

// Subquery returns the query of the entry.
func (e *WithEntry) Subquery() sql.Node {
	return e.Child
}

// Columns implements the sql.Node interface.
func (e *WithEntry) Columns() []sql.PlanColumn {
	return e.Child.Columns()
}

// WithChildren implements the Node interface.
func (e *WithEntry) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return NewWithEntry(e.Name, children[0]), nil
}

func (e *WithEntry) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("WithEntry(%s)", e.Name)
	_ = pr.WriteChildren(e.Child.String())
	return pr.String()
}

func (e *WithEntry) DebugString() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("WithEntry(%s)", e.Name)
	_ = pr.WriteChildren(sql.DebugString(e.Child))
	return pr.String()
}

// WithRef reads the rows of the With entry named. Cols[i] is the i-th column of the entry's subquery, under a new
// identity.
type WithRef struct {
	Name string
	Cols []sql.PlanColumn
}

var _ sql.Node = (*WithRef)(nil)

// NewWithRef creates a new reference to the entry named.
func NewWithRef(name string, cols []sql.PlanColumn) *WithRef {
	return &WithRef{
		Name: name,
		Cols: cols,
	}
}

// Columns implements the sql.Node interface.
func (r *WithRef) Columns() []sql.PlanColumn {
	return r.Cols
}

// WithColumns returns a copy of this reference outputting the columns given.
func (r *WithRef) WithColumns(cols []sql.PlanColumn) *WithRef {
	nr := *r
	nr.Cols = cols
	return &nr
}

// Children implements the Node interface.
func (*WithRef) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (r *WithRef) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(r, children...)
}

func (r *WithRef) String() string {
	return fmt.Sprintf("WithRef(%s)[%s]", r.Name, columnsString(r.Cols))
}

func (r *WithRef) DebugString() string {
	return fmt.Sprintf("WithRef(%s)[%s]", r.Name, columnsDebugString(r.Cols))
}

// FindWithEntry returns the entry named |name| among |entries|, or nil. Names are case insensitive.
func FindWithEntry(entries []*WithEntry, name string) *WithEntry {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}
