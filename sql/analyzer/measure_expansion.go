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
	"github.com/cockroachdb/errors"

	"github.com/dolthub/go-measures/sql"
	"github.com/dolthub/go-measures/sql/plan"
)

// MeasureExpansion is what the measure expansion knows about one measure-typed column: the expression defining the
// measure, the struct column carrying the values the expression needs at the grain of the measure, and the columns
// the measure was renamed to on its way up the plan.
type MeasureExpansion struct {
	// MeasureExpr is the defining expression of the measure, owned by the catalog. It must be copied before it is
	// rewritten.
	MeasureExpr sql.Expression
	// StructColumn is only valid when HasStructColumn is set.
	StructColumn    sql.PlanColumn
	HasStructColumn bool
	// RenamedColumns are the aliases of the measure column, oldest first.
	RenamedColumns []sql.PlanColumn
}

// MeasureExpansionMap maps measure-typed columns to their expansion. Iteration follows insertion order.
type MeasureExpansionMap struct {
	keys    []sql.PlanColumn
	entries map[sql.ColumnId]*MeasureExpansion
}

// NewMeasureExpansionMap returns an empty map.
func NewMeasureExpansionMap() *MeasureExpansionMap {
	return &MeasureExpansionMap{entries: make(map[sql.ColumnId]*MeasureExpansion)}
}

// Len returns the number of columns in the map.
func (m *MeasureExpansionMap) Len() int {
	return len(m.keys)
}

// Keys returns the columns in the map, in insertion order.
func (m *MeasureExpansionMap) Keys() []sql.PlanColumn {
	keys := make([]sql.PlanColumn, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Contains returns whether the column with the id given is in the map.
func (m *MeasureExpansionMap) Contains(id sql.ColumnId) bool {
	_, ok := m.entries[id]
	return ok
}

// Get returns the expansion of the column with the id given.
func (m *MeasureExpansionMap) Get(id sql.ColumnId) (*MeasureExpansion, bool) {
	e, ok := m.entries[id]
	return e, ok
}

// Insert adds the expansion of |col|. Every column is expanded exactly once, so inserting a column twice is an
// invariant violation.
func (m *MeasureExpansionMap) Insert(col sql.PlanColumn, e *MeasureExpansion) error {
	if _, ok := m.entries[col.Id]; ok {
		return errors.AssertionFailedf("measure column %s is already in the expansion map", col)
	}
	m.keys = append(m.keys, col)
	m.entries[col.Id] = e
	return nil
}

// addRenames records the aliases in |chain| on the expansion of |col|, creating it if needed. Aliases already
// recorded are skipped, so invoking the same measure through the same alias twice records it once.
func (m *MeasureExpansionMap) addRenames(col sql.PlanColumn, chain []sql.PlanColumn) {
	e, ok := m.entries[col.Id]
	if !ok {
		e = &MeasureExpansion{}
		m.keys = append(m.keys, col)
		m.entries[col.Id] = e
	}

	for _, alias := range chain {
		if sql.ColumnIndex(e.RenamedColumns, alias.Id) < 0 {
			e.RenamedColumns = append(e.RenamedColumns, alias)
		}
	}
}

// GrainScanMap maps the table scans hosting measures to their grain scan bookkeeping. Scans are compared by
// identity, and iteration follows insertion order.
type GrainScanMap struct {
	scans []*plan.ResolvedTable
	infos map[*plan.ResolvedTable]*GrainScanInfo
}

// NewGrainScanMap returns an empty map.
func NewGrainScanMap() *GrainScanMap {
	return &GrainScanMap{infos: make(map[*plan.ResolvedTable]*GrainScanInfo)}
}

// Len returns the number of grain scans.
func (m *GrainScanMap) Len() int {
	return len(m.scans)
}

// Scans returns the grain scans in insertion order.
func (m *GrainScanMap) Scans() []*plan.ResolvedTable {
	scans := make([]*plan.ResolvedTable, len(m.scans))
	copy(scans, m.scans)
	return scans
}

// Get returns the bookkeeping of |scan|.
func (m *GrainScanMap) Get(scan *plan.ResolvedTable) (*GrainScanInfo, bool) {
	info, ok := m.infos[scan]
	return info, ok
}

func (m *GrainScanMap) put(scan *plan.ResolvedTable, info *GrainScanInfo) {
	if _, ok := m.infos[scan]; !ok {
		m.scans = append(m.scans, scan)
	}
	m.infos[scan] = info
}
