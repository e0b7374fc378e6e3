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

import (
	"fmt"

	"github.com/partialeval/branchjoin/config"
)

// Payload is the argument shape JoinValues accepts: either a single value,
// or one of two parallel-array shapes. This is a deliberate sum type (see
// SPEC_FULL.md's resolution of the corresponding Design Note) rather than a
// runtime shape sniff over `any`: callers pick the right constructor and
// the compiler enforces that Single/ValueArray/EntryArray are never
// confused with one another.
//
// A nil Payload means "absent" — the side in question produced nothing at
// all for this slot (as opposed to Empty, which is a Value meaning "no
// value, but a side did speak to this slot").
type Payload interface {
	isPayload()
}

// Single wraps one Value.
type Single struct {
	V Value
}

func (Single) isPayload() {}

// Entry is one key/value pair of an EntryArray.
type Entry struct {
	Key   Value
	Value Value
}

// ValueArray is a parallel array of plain values.
type ValueArray struct {
	Values []Value
}

func (ValueArray) isPayload() {}

// EntryArray is a parallel array of key/value entry pairs (e.g. the
// representation used for iterating a map-like object's entries).
type EntryArray struct {
	Entries []Entry
}

func (EntryArray) isPayload() {}

// JoinValues implements the Value Joiner (spec component A, external
// interface #3). It dispatches on whichever of p1, p2 is an array payload;
// if neither is, it performs a single-value join.
func JoinValues(realm Realm, p1, p2 Payload, factory ConditionalFactory) Payload {
	a1, arr1 := p1.(ValueArray)
	a2, arr2 := p2.(ValueArray)
	e1, ent1 := p1.(EntryArray)
	e2, ent2 := p2.(EntryArray)

	if len(a1.Values) > config.MaxJoinArrayLength || len(a2.Values) > config.MaxJoinArrayLength ||
		len(e1.Entries) > config.MaxJoinArrayLength || len(e2.Entries) > config.MaxJoinArrayLength {
		panic(fmt.Sprintf("joinValues: array payload longer than config.MaxJoinArrayLength (%d)", config.MaxJoinArrayLength))
	}

	switch {
	case arr1 || arr2:
		if ent1 || ent2 {
			panic(fmt.Sprintf("joinValues: mismatched array payload shapes: %T, %T", p1, p2))
		}
		if p1 != nil && !arr1 {
			panic(fmt.Sprintf("joinValues: p1 is non-array payload %T paired with an array", p1))
		}
		if p2 != nil && !arr2 {
			panic(fmt.Sprintf("joinValues: p2 is non-array payload %T paired with an array", p2))
		}
		return joinValueArrays(realm, a1.Values, arr1, a2.Values, arr2, factory)
	case ent1 || ent2:
		if p1 != nil && !ent1 {
			panic(fmt.Sprintf("joinValues: p1 is non-entry payload %T paired with an entry array", p1))
		}
		if p2 != nil && !ent2 {
			panic(fmt.Sprintf("joinValues: p2 is non-entry payload %T paired with an entry array", p2))
		}
		return joinEntryArrays(realm, e1.Entries, ent1, e2.Entries, ent2, factory)
	default:
		v1 := singleOf(p1)
		v2 := singleOf(p2)
		return Single{V: joinValue(realm, v1, v2, factory)}
	}
}

// singleOf extracts the Value from a Single payload, or returns nil if p is
// absent. Panics if p is some other payload shape (callers are expected to
// have already dispatched away from the array shapes).
func singleOf(p Payload) Value {
	if p == nil {
		return nil
	}
	s, ok := p.(Single)
	if !ok {
		panic(fmt.Sprintf("joinValues: expected Single payload, got %T", p))
	}
	return s.V
}

// joinValue is the scalar core of the Value Joiner: present + non-abstract
// + strictly-equal sides collapse to that shared value; otherwise the
// caller's factory builds a conditional, with an absent side read as the
// realm's `undefined`.
func joinValue(realm Realm, v1, v2 Value, factory ConditionalFactory) Value {
	if v1 == nil {
		v1 = realm.Undefined()
	}
	if v2 == nil {
		v2 = realm.Undefined()
	}
	if !IsAbstract(v1) && !IsAbstract(v2) && realm.StrictEquals(v1, v2) {
		return v1
	}
	return factory(v1, v2)
}

func joinValueArrays(realm Realm, vs1 []Value, present1 bool, vs2 []Value, present2 bool, factory ConditionalFactory) Payload {
	n := len(vs1)
	if len(vs2) > n {
		n = len(vs2)
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		var v1, v2 Value
		if present1 && i < len(vs1) {
			v1 = vs1[i]
		} else {
			v1 = Empty
		}
		if present2 && i < len(vs2) {
			v2 = vs2[i]
		} else {
			v2 = Empty
		}
		out[i] = joinValuePreferNonEmpty(realm, v1, v2, factory)
	}
	return ValueArray{Values: out}
}

func joinEntryArrays(realm Realm, es1 []Entry, present1 bool, es2 []Entry, present2 bool, factory ConditionalFactory) Payload {
	n := len(es1)
	if len(es2) > n {
		n = len(es2)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		var e1, e2 Entry
		haveE1, haveE2 := false, false
		if present1 && i < len(es1) {
			e1, haveE1 = es1[i], true
		}
		if present2 && i < len(es2) {
			e2, haveE2 = es2[i], true
		}

		if haveE1 && haveE2 && isRealmUndefined(realm, e1.Key) && isRealmUndefined(realm, e1.Value) &&
			isRealmUndefined(realm, e2.Key) && isRealmUndefined(realm, e2.Value) {
			// A pair of {undefined, undefined} entries on both sides marks
			// a sparse slot; propagate it unchanged rather than joining
			// two undefineds into a trivial conditional.
			out[i] = Entry{Key: realm.Undefined(), Value: realm.Undefined()}
			continue
		}

		var k1, v1, k2, v2 Value
		if haveE1 {
			k1, v1 = e1.Key, e1.Value
		} else {
			k1, v1 = Empty, Empty
		}
		if haveE2 {
			k2, v2 = e2.Key, e2.Value
		} else {
			k2, v2 = Empty, Empty
		}
		out[i] = Entry{
			Key:   joinValuePreferNonEmpty(realm, k1, k2, factory),
			Value: joinValuePreferNonEmpty(realm, v1, v2, factory),
		}
	}
	return EntryArray{Entries: out}
}

// joinValuePreferNonEmpty is joinValue specialized for array/entry element
// joins: unlike the top-level join, an absent element is Empty, not the
// realm's undefined (a short array is not the same thing as an array whose
// elements are all undefined).
func joinValuePreferNonEmpty(realm Realm, v1, v2 Value, factory ConditionalFactory) Value {
	if IsEmpty(v1) && IsEmpty(v2) {
		return Empty
	}
	if !IsAbstract(v1) && !IsAbstract(v2) && !IsEmpty(v1) && !IsEmpty(v2) && realm.StrictEquals(v1, v2) {
		return v1
	}
	return factory(v1, v2)
}

func isRealmUndefined(realm Realm, v Value) bool {
	if v == nil || IsAbstract(v) || IsEmpty(v) {
		return false
	}
	return realm.StrictEquals(v, realm.Undefined())
}
