// Copyright (c) 2024 The branchjoin Authors.
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

// Package orderedmap implements a generic map that iterates in insertion
// order. The join core relies on this for every keyed structure (binding
// deltas and property deltas) whose iteration
// order is an observable, tested property rather than an implementation
// accident: Go's builtin map deliberately randomizes iteration order, which
// would make generator-entry ordering (see package join) nondeterministic.
package orderedmap

// Pair is a key-value pair stored in the map, retained in insertion order.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map. It is a light internal helper and does
// not attempt to support the full surface of a general-purpose map type.
type Map[K comparable, V any] struct {
	// pairs holds every entry in insertion order. Never mutate directly;
	// go through Store so inner stays in sync.
	pairs []*Pair[K, V]
	inner map[K]*Pair[K, V]
}

// New creates a new, empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{inner: make(map[K]*Pair[K, V])}
}

// FromPairs builds a Map from an already-ordered slice of pairs, in slice
// order. Later pairs overwrite earlier ones sharing a key.
func FromPairs[K comparable, V any](pairs []Pair[K, V]) *Map[K, V] {
	m := New[K, V]()
	for _, p := range pairs {
		m.Store(p.Key, p.Value)
	}
	return m
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Load returns the value stored for key, and whether it was present.
func (m *Map[K, V]) Load(key K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	if p, ok := m.inner[key]; ok {
		return p.Value, true
	}
	var zero V
	return zero, false
}

// Has reports whether key is present in the map.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Load(key)
	return ok
}

// Store sets the value for key, appending a new pair if key is not yet
// present, or overwriting the existing pair's value (without disturbing its
// position) otherwise.
func (m *Map[K, V]) Store(key K, value V) {
	if p, ok := m.inner[key]; ok {
		p.Value = value
		return
	}
	p := &Pair[K, V]{Key: key, Value: value}
	m.pairs = append(m.pairs, p)
	m.inner[key] = p
}

// Pairs returns every pair in insertion order. The returned slice must be
// treated as read-only.
func (m *Map[K, V]) Pairs() []*Pair[K, V] {
	if m == nil {
		return nil
	}
	return m.pairs
}

// Range calls f for every pair in insertion order, stopping early if f
// returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	if m == nil {
		return
	}
	for _, p := range m.pairs {
		if !f(p.Key, p.Value) {
			return
		}
	}
}

// UnionKeys returns the keys present in either a or b, in the order: all of
// a's keys first (in a's insertion order), then any of b's keys not already
// seen (in b's insertion order). This fixed order is what gives the
// higher-level map joiners (see join.JoinMaps) their deterministic,
// insertion-ordered output.
func UnionKeys[K comparable, V1, V2 any](a *Map[K, V1], b *Map[K, V2]) []K {
	seen := make(map[K]bool, a.Len()+b.Len())
	keys := make([]K, 0, a.Len()+b.Len())
	a.Range(func(k K, _ V1) bool {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return true
	})
	b.Range(func(k K, _ V2) bool {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return true
	})
	return keys
}
