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

import "sync"

// NamePool interns the names minted while compiling a statement, so that the many columns and fields sharing a
// name share its storage too.
type NamePool struct {
	mu    sync.Mutex
	names map[string]string
}

// NewNamePool returns an empty name pool.
func NewNamePool() *NamePool {
	return &NamePool{names: make(map[string]string)}
}

// Intern returns the pooled copy of |name|.
func (p *NamePool) Intern(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.names[name]; ok {
		return s
	}
	p.names[name] = name
	return name
}

// Len returns the number of distinct names in the pool.
func (p *NamePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.names)
}
