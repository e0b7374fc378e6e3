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

package join

import "github.com/partialeval/branchjoin/internal/orderedmap"

// JoinMaps implements the generic Map Joiner (spec component C): a keyed
// union of two ordered maps, reconciled key-by-key through a caller-supplied
// reconciler. Output order is m1's keys in their existing order, followed
// by m2's keys not already seen, matching internal/orderedmap.UnionKeys —
// this is what gives the binding and property-binding joiners their
// deterministic iteration order "for free".
func JoinMaps[K comparable, V1, V2, V3 any](m1 *orderedmap.Map[K, V1], m2 *orderedmap.Map[K, V2], f func(key K, v1 *V1, v2 *V2) V3) *orderedmap.Map[K, V3] {
	out := orderedmap.New[K, V3]()
	for _, k := range orderedmap.UnionKeys(m1, m2) {
		var p1 *V1
		if v1, ok := m1.Load(k); ok {
			p1 = &v1
		}
		var p2 *V2
		if v2, ok := m2.Load(k); ok {
			p2 = &v2
		}
		out.Store(k, f(k, p1, p2))
	}
	return out
}
