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

// CompletionSelector decides, for one leaf completion, whether it
// contributes a value to JoinValuesOfSelectedCompletions and if so which
// one. Implementations typically select e.g. only Throw leaves (to extract
// "the thrown values") or only Return leaves.
type CompletionSelector func(c Completion) (Value, bool)

// ComposeCompletions implements the Composer's completion half (spec
// component H, external interface #7): it glues a possibly-pending
// completion left onto a newly observed completion right.
//
// ComposeCompletions never mutates a JoinedNormalAndAbrupt already reachable
// from elsewhere in the program: every case that would once have set
// composedWith in place instead returns a freshly built node, so a
// completion already handed to a caller stays exactly as that caller saw
// it.
func ComposeCompletions(realm Realm, left, right Completion) Completion {
	if left == nil {
		return asNormal(right)
	}

	switch l := left.(type) {
	case JoinedNormalAndAbrupt:
		if r, ok := right.(JoinedNormalAndAbrupt); ok {
			spliced := r
			spliced.ComposedWith = l
			spliced.PathConditionsAtCreation = append([]AbstractValue(nil), l.PathConditionsAtCreation...)
			return spliced
		}

		c1 := ComposeCompletions(realm, l.C1, right)
		c2 := ComposeCompletions(realm, l.C2, right)
		rebuilt := JoinCompletions(realm, l.Cond, c1, c2)
		if jna, ok := rebuilt.(JoinedNormalAndAbrupt); ok {
			jna.ComposedWith = l.ComposedWith
			jna.PathConditionsAtCreation = l.PathConditionsAtCreation
			jna.SavedEffects = l.SavedEffects
			return jna
		}
		return rebuilt

	default:
		if IsAbrupt(left) {
			return left
		}
		return asNormal(right)
	}
}

// asNormal returns right unchanged, or Normal{Value: Empty} when right is
// nil.
func asNormal(right Completion) Completion {
	if right == nil {
		return Normal{Value: Empty}
	}
	return right
}

// ComposeWithEffects implements the Composer's effects half (spec
// component H, external interface #8): it distributes a completion tree c
// over the effects e that were actually observed, producing a single
// Effects whose Result matches c's structure.
func ComposeWithEffects(realm Realm, c Completion, e *Effects) *Effects {
	switch t := c.(type) {
	case JoinedNormalAndAbrupt:
		e1 := ComposeWithEffects(realm, t.C1, e)
		e2 := ComposeWithEffects(realm, t.C2, e)
		return JoinEffects(realm, t.Cond, e1, e2)
	case Normal:
		return e.ShallowCloneWithResult(t)
	default:
		if IsAbrupt(c) {
			return &Effects{
				Result:         c,
				Log:            NewLogGenerator(),
				Bindings:       emptyBindingMap(),
				Properties:     emptyPropertyMap(),
				CreatedObjects: nil,
				CanBeApplied:   true,
			}
		}
		return e.ShallowCloneWithResult(c)
	}
}

// JoinValuesOfSelectedCompletions implements external interface #9: it
// folds over a completion tree, collecting the value of every leaf sel
// selects (treating every other leaf as Empty) and joining them all
// together. For a JoinedNormalAndAbrupt whose ComposedWith is non-nil, the
// value joined from its own children is then re-joined with the value
// selected from its ComposedWith subtree, since a composed node's selected
// value may itself depend on what it was composed with — that re-join
// happens under a condition the collaborator derives
// via AbstractValue.JoinConditionForSelectedCompletions, not necessarily the
// node's own Cond, since the composed-away subtree can carry its own
// accumulated path conditions from the point it was spliced in.
func JoinValuesOfSelectedCompletions(realm Realm, sel CompletionSelector, c Completion) Value {
	if v, ok := sel(c); ok {
		return v
	}

	switch t := c.(type) {
	case JoinedAbrupt:
		factory := func(a, b Value) AbstractValue { return realm.ConditionalOf(t.Cond, a, b) }
		return joinValue(realm,
			JoinValuesOfSelectedCompletions(realm, sel, t.C1),
			JoinValuesOfSelectedCompletions(realm, sel, t.C2),
			factory)
	case JoinedNormalAndAbrupt:
		factory := func(a, b Value) AbstractValue { return realm.ConditionalOf(t.Cond, a, b) }
		v1 := JoinValuesOfSelectedCompletions(realm, sel, t.C1)
		v2 := JoinValuesOfSelectedCompletions(realm, sel, t.C2)
		joined := joinValue(realm, v1, v2, factory)
		if t.ComposedWith == nil {
			return joined
		}
		// t.Cond is the condition under which t itself was joined, not the
		// one the composed-away subtree was accumulated under (that subtree
		// may carry its own PathConditionsAtCreation) — ask the
		// collaborator to derive the right condition to re-join under.
		composedValue := JoinValuesOfSelectedCompletions(realm, sel, t.ComposedWith)
		composedCond := t.Cond.JoinConditionForSelectedCompletions(sel, t.ComposedWith)
		composedFactory := func(a, b Value) AbstractValue { return realm.ConditionalOf(composedCond, a, b) }
		return joinValue(realm, joined, composedValue, composedFactory)
	default:
		return Empty
	}
}

func emptyBindingMap() *BindingMap  { return nil }
func emptyPropertyMap() *PropertyMap { return nil }
