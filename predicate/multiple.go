/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package predicate

import (
	"reflect"
	"strings"
)

// BatchEntry is one result set of a Multiple batch. Filter accepts anything
// FromObject accepts.
type BatchEntry struct {
	Entity reflect.Type
	Filter any
	Sort   []Sort
}

// Entry declares a result set of entity T.
func Entry[T any](filter any, sort ...Sort) BatchEntry {
	return BatchEntry{Entity: EntityOf[T](), Filter: filter, Sort: sort}
}

// Multiple is an ordered batch of queries that are read back one result set
// per entry, in the order the entries were added. Entity types may repeat.
type Multiple struct {
	entries []BatchEntry
}

// NewMultiple returns a batch holding entries.
func NewMultiple(entries ...BatchEntry) *Multiple {
	m := &Multiple{}
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

// Add appends an entry and returns the batch for chaining.
func (m *Multiple) Add(e BatchEntry) *Multiple {
	m.entries = append(m.entries, e)
	return m
}

// Entries returns a copy of the declared entries.
func (m *Multiple) Entries() []BatchEntry {
	out := make([]BatchEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Multiple) Len() int { return len(m.entries) }

func (m *Multiple) String() string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = shortName(e.Entity)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
