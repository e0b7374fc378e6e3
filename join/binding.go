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

// Binding is a named, mutable storage slot. Identity is the pointer itself;
// the core never compares bindings by name or value.
type Binding struct {
	Name string
	// Value and HasLeaked are this binding's *current* value and leak
	// status — the state the binding had before either branch ran. The
	// binding joiner reads these only when a branch's delta map has no
	// entry for this binding at all.
	Value     Value
	HasLeaked bool
}

// BindingEntry records the value and leak flag observed for a binding at
// the end of one branch.
type BindingEntry struct {
	Value     Value
	HasLeaked bool
}

// BindingMap is the delta map of bindings touched during a branch.
type BindingMap = orderedmap.Map[*Binding, BindingEntry]

// JoinBindings implements the Binding Joiner (spec component D) as a
// specialization of the generic Map Joiner (C, JoinMaps): it is a keyed
// union over bindings whose reconciler additionally threads the pair of
// generators through as mutable closure state, since a binding's leak
// asymmetry can rewrite either side's generator as a reconciliation
// side effect JoinMaps itself has no slot for.
//
// It returns the possibly-rewritten per-branch generators (g1 replaced only
// if a leak-repair assignment had to be appended to it, likewise g2) and
// the joined bindings map.
func JoinBindings(realm Realm, cond AbstractValue, g1 Generator, m1 *BindingMap, g2 Generator, m2 *BindingMap) (Generator, Generator, *BindingMap) {
	bindingFactory := func(a, b Value, preferLeft, forLeakRepair bool) AbstractValue {
		return realm.ConditionalOf(cond, a, b, preferLeft, forLeakRepair)
	}

	out := JoinMaps(m1, m2, func(b *Binding, v1, v2 *BindingEntry) BindingEntry {
		e1 := BindingEntry{Value: b.Value, HasLeaked: b.HasLeaked}
		if v1 != nil {
			e1 = *v1
		}
		e2 := BindingEntry{Value: b.Value, HasLeaked: b.HasLeaked}
		if v2 != nil {
			e2 = *v2
		}

		leaked := e1.HasLeaked || e2.HasLeaked
		if e1.HasLeaked != e2.HasLeaked {
			// Exactly one side leaked: the leaked side's generator gets a
			// compensating assignment pinning the binding back to the
			// un-leaked side's value, since that side's own replay can no
			// longer be trusted to still hold it after escaping to
			// uncontrolled code.
			if e2.HasLeaked {
				g2 = g2.EmitBindingAssignment(b, e1.Value)
			} else {
				g1 = g1.EmitBindingAssignment(b, e2.Value)
			}
		}

		var value Value
		if leaked {
			value = realm.Undefined()
		} else {
			factory := func(a, bv Value) AbstractValue {
				return bindingFactory(a, bv, e1.HasLeaked == leaked, false)
			}
			value = joinValue(realm, e1.Value, e2.Value, factory)
		}

		return BindingEntry{Value: value, HasLeaked: leaked}
	})

	return g1, g2, out
}
