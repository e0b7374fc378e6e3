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

// ObjectID is the opaque identity of an object in the collaborator's object
// model. The core only ever compares object IDs with == and membership in a
// CreatedObjects set.
type ObjectID any

// CreatedObjects is the set of objects allocated during one branch's
// evaluation. The property-binding joiner consults it to avoid reconciling
// properties of an object that did not exist before the branch split.
type CreatedObjects map[ObjectID]bool

// Has reports whether id is a member of s. A nil set has no members.
func (s CreatedObjects) Has(id ObjectID) bool {
	return s != nil && s[id]
}

// PropertyBinding identifies one property slot: the object it lives on and
// the property key. Current is the descriptor that slot held immediately
// before the branches split (nil if the property did not exist then) —
// consulted when a branch's delta map has no entry at all for this binding,
// as Binding.Value/HasLeaked are consulted by the binding joiner, and, for
// an explicit deletion on a branch, as the shape whose value is replaced by
// Empty.
type PropertyBinding struct {
	Object  ObjectID
	Key     Value
	Current Descriptor
}

// PropertyMap is the delta map of property bindings touched during a
// branch. A stored value of nil records an explicit deletion (as opposed to
// the property simply not appearing in the map, which means "untouched").
type PropertyMap = orderedmap.Map[PropertyBinding, Descriptor]

// NewPropertyMap returns an empty PropertyMap.
func NewPropertyMap() *PropertyMap {
	return orderedmap.New[PropertyBinding, Descriptor]()
}

// JoinPropertyBindings implements the Property-Binding Joiner (spec
// component E) as a specialization of the generic Map Joiner (C, JoinMaps),
// additionally aware of each branch's created-objects set, so that a
// property defined only on an object allocated within one branch is never
// spuriously reconciled against the other branch's (nonexistent) view of
// that object.
func JoinPropertyBindings(realm Realm, cond AbstractValue, m1, m2 *PropertyMap, c1, c2 CreatedObjects) *PropertyMap {
	return JoinMaps(m1, m2, func(pb PropertyBinding, p1, p2 *Descriptor) Descriptor {
		var d1, d2 Descriptor
		ok1 := p1 != nil
		if ok1 {
			d1 = *p1
		}
		ok2 := p2 != nil
		if ok2 {
			d2 = *p2
		}

		if d1 == nil {
			switch {
			case c2.Has(pb.Object):
				// The object itself is right-branch-only: there is no
				// left-branch view of this slot to reconcile against.
				return d2
			case ok1 && pb.Current != nil:
				d1 = withEmptyValue(pb.Current)
			default:
				d1 = pb.Current
			}
		}
		if d2 == nil {
			switch {
			case c1.Has(pb.Object):
				return d1
			case ok2 && pb.Current != nil:
				d2 = withEmptyValue(pb.Current)
			default:
				d2 = pb.Current
			}
		}

		return JoinDescriptors(realm, cond, d1, d2)
	})
}

// withEmptyValue clones a descriptor with its value-bearing field(s)
// replaced by Empty, representing a property deleted partway through a
// branch: its shape and attributes survive, but it no longer holds a value.
func withEmptyValue(d Descriptor) Descriptor {
	switch t := d.(type) {
	case DataDescriptor:
		t.Value = Empty
		return t
	case AccessorDescriptor:
		t.Get = Empty
		t.Set = Empty
		return t
	default:
		return DataDescriptor{Value: Empty}
	}
}
