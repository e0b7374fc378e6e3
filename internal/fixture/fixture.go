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

// Package fixture provides a minimal, in-memory join.Realm implementation
// for use by join package tests and the demo command. It is not part of
// the public API: a real collaborator (an abstract interpreter with its
// own object model) is expected to implement join.Realm itself.
package fixture

import (
	"fmt"

	"github.com/partialeval/branchjoin/join"
)

// Abstract is a minimal join.AbstractValue: a named symbolic predicate
// whose truth is unknown unless explicitly pinned by KnownTrue/KnownFalse.
type Abstract struct {
	Name       string
	knownTrue  bool
	knownFalse bool
}

// NewAbstract returns an unresolved abstract predicate named name.
func NewAbstract(name string) Abstract { return Abstract{Name: name} }

// KnownTrue returns an abstract predicate named name, pinned to always
// resolve true.
func KnownTrue(name string) Abstract { return Abstract{Name: name, knownTrue: true} }

// KnownFalse returns an abstract predicate named name, pinned to always
// resolve false.
func KnownFalse(name string) Abstract { return Abstract{Name: name, knownFalse: true} }

func (Abstract) isValue() {}

func (a Abstract) MightNotBeTrue() bool  { return !a.knownTrue }
func (a Abstract) MightNotBeFalse() bool { return !a.knownFalse }

func (a Abstract) String() string { return a.Name }

func (a Abstract) JoinConditionForSelectedCompletions(sel join.CompletionSelector, c join.Completion) join.AbstractValue {
	return joinConditionForSelectedCompletions(a, c)
}

// Conditional is the AbstractValue built by Realm.ConditionalOf: `cond ? a :
// b`, kept as a structured value (rather than collapsed to a string) so
// tests can assert on its shape.
type Conditional struct {
	Cond          join.AbstractValue
	Then, Else    join.Value
	PreferLeft    bool
	ForLeakRepair bool
}

func (Conditional) isValue() {}

func (c Conditional) MightNotBeTrue() bool  { return true }
func (c Conditional) MightNotBeFalse() bool { return true }

func (c Conditional) String() string {
	return fmt.Sprintf("(%v ? %v : %v)", c.Cond, c.Then, c.Else)
}

func (c Conditional) JoinConditionForSelectedCompletions(sel join.CompletionSelector, completed join.Completion) join.AbstractValue {
	return joinConditionForSelectedCompletions(c, completed)
}

// Conjunction is the AbstractValue fixture's way of naming "this condition,
// narrowed by the path conditions a composed-away subtree was created
// under" — it never resolves MightNotBeTrue/False any tighter than "could
// be either", since this fixture does not reason about conjunctions of its
// Abstract predicates, only records that they apply together.
type Conjunction struct {
	Conditions []join.AbstractValue
}

func (Conjunction) isValue() {}

func (c Conjunction) MightNotBeTrue() bool  { return true }
func (c Conjunction) MightNotBeFalse() bool { return true }

func (c Conjunction) String() string {
	s := "("
	for i, cond := range c.Conditions {
		if i > 0 {
			s += " && "
		}
		s += fmt.Sprintf("%v", cond)
	}
	return s + ")"
}

func (c Conjunction) JoinConditionForSelectedCompletions(sel join.CompletionSelector, completed join.Completion) join.AbstractValue {
	return joinConditionForSelectedCompletions(c, completed)
}

// joinConditionForSelectedCompletions derives the condition
// JoinValuesOfSelectedCompletions should re-join a composed-away subtree
// under: self, conjoined with whatever path conditions that subtree was
// accumulated under at the point it was spliced in (see
// JoinedNormalAndAbrupt.PathConditionsAtCreation). With none recorded, self
// alone is the right condition.
func joinConditionForSelectedCompletions(self join.AbstractValue, completed join.Completion) join.AbstractValue {
	jna, ok := completed.(join.JoinedNormalAndAbrupt)
	if !ok || len(jna.PathConditionsAtCreation) == 0 {
		return self
	}
	return Conjunction{Conditions: append([]join.AbstractValue{self}, jna.PathConditionsAtCreation...)}
}

// PathConditions is the minimal PathConditionSet: it does not actually
// narrow MightNotBeTrue/MightNotBeFalse under nested conditions (this
// fixture's Abstract values are pinned at construction, not derived from
// the conditions pushed here), but it does provide the "effect capturing
// facility" MapAndJoin depends on.
type PathConditions struct{}

func (PathConditions) WithCondition(cond join.AbstractValue, thunk func() *join.Effects) *join.Effects {
	return thunk()
}

func (PathConditions) ImpliesTrue(cond join.AbstractValue) bool {
	return !cond.MightNotBeTrue()
}

func (PathConditions) ImpliesFalse(cond join.AbstractValue) bool {
	return !cond.MightNotBeFalse()
}

// Realm is a minimal, deterministic join.Realm for tests: concrete values
// are compared with Go's == via an `any` payload, `undefined` is a fixed
// sentinel ConcreteValue, ApplyEffects records the effects it was given
// rather than mutating any live state, and ReturnOrThrowCompletion converts a
// Normal or Throw completion into a value or an error.
type Realm struct {
	Applied    *join.Effects
	conditions PathConditions
}

// New returns a fresh Realm.
func New() *Realm { return &Realm{} }

var undefined = join.ConcreteValue{Datum: "undefined"}

func (r *Realm) Undefined() join.Value { return undefined }

func (r *Realm) PathConditions() join.PathConditionSet { return r.conditions }

func (r *Realm) EvaluateForEffects(thunk func() join.Completion, cond join.AbstractValue, label string) *join.Effects {
	return join.NewEffects(thunk(), join.NewLogGenerator(), nil, nil, nil)
}

func (r *Realm) ApplyEffects(e *join.Effects) { r.Applied = e }

func (r *Realm) ReturnOrThrowCompletion(c join.Completion) (join.Value, error) {
	switch t := c.(type) {
	case join.Normal:
		return t.Value, nil
	case join.Throw:
		return nil, fmt.Errorf("thrown: %v", t.Value)
	default:
		panic(fmt.Sprintf("ReturnOrThrowCompletion: unexpected top-level completion %T", c))
	}
}

func (r *Realm) StrictEquals(a, b join.Value) bool {
	cv1, ok1 := a.(join.ConcreteValue)
	cv2, ok2 := b.(join.ConcreteValue)
	if !ok1 || !ok2 {
		return false
	}
	return cv1.Datum == cv2.Datum
}

func (r *Realm) ConditionalOf(cond join.AbstractValue, a, b join.Value, flags ...bool) join.AbstractValue {
	c := Conditional{Cond: cond, Then: a, Else: b}
	if len(flags) > 0 {
		c.PreferLeft = flags[0]
	}
	if len(flags) > 1 {
		c.ForLeakRepair = flags[1]
	}
	return c
}

// Num is a convenience constructor for a concrete integer value.
func Num(n int) join.Value { return join.ConcreteValue{Datum: n} }

// Str is a convenience constructor for a concrete string value.
func Str(s string) join.Value { return join.ConcreteValue{Datum: s} }
