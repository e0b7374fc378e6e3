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

import "fmt"

// Label is the opaque identity of a Break/Continue target (a loop or a
// labelled statement). Collaborators are expected to supply comparable
// values (e.g. a pointer to the target's AST node); the core only ever
// compares labels with ==.
type Label any

// Completion is the outcome of evaluating a program fragment. It is a
// closed sum type: every implementation lives in this file, following the
// teacher's InferredVal/ExplainedBool pattern of a marker method plus a set
// of leaf structs (see inference/inferred_value.go, inference/explained_bool.go).
type Completion interface {
	isCompletion()
}

// Normal is a completion that fell off the end of the fragment with value
// Value (which may itself be Empty, for a fragment producing nothing).
type Normal struct {
	Value Value
}

func (Normal) isCompletion() {}

// Throw is a completion that raised Value at Location.
type Throw struct {
	Value    Value
	Location SourceLocation
}

func (Throw) isCompletion() {}

// Return is a completion that returned Value from the enclosing function.
type Return struct {
	Value Value
}

func (Return) isCompletion() {}

// Break exits the loop/labelled statement identified by Target.
type Break struct {
	Value  Value
	Target Label
}

func (Break) isCompletion() {}

// Continue restarts the loop identified by Target. Per spec, its value is
// always discarded on join (see JoinCompletions), but the field is kept for
// symmetry with Break and so a non-joined Continue can still carry one.
type Continue struct {
	Value  Value
	Target Label
}

func (Continue) isCompletion() {}

// JoinedAbrupt is the result of joining two completions that are both
// abrupt but could not be collapsed into a single leaf (e.g. two Break
// completions with different targets).
type JoinedAbrupt struct {
	Cond AbstractValue
	C1   Completion
	C2   Completion
}

func (JoinedAbrupt) isCompletion() {}

// JoinedNormalAndAbrupt is the result of joining two completions where at
// least one side includes a normal outcome. ComposedWith,
// PathConditionsAtCreation, and SavedEffects are populated and consulted
// only by the Composer (see compose.go); they start nil/empty at
// construction and are never mutated afterwards — composeCompletions
// rebuilds a fresh node rather than mutating one already published (see
// SPEC_FULL.md's resolution of the corresponding Design Note).
type JoinedNormalAndAbrupt struct {
	Cond AbstractValue
	C1   Completion
	C2   Completion

	ComposedWith             Completion
	PathConditionsAtCreation []AbstractValue
	SavedEffects             *Effects
}

func (JoinedNormalAndAbrupt) isCompletion() {}

// SourceLocation is an opaque location identifier carried by Throw
// completions. Its shape is owned by the collaborator (e.g. a token.Pos);
// the core only ever copies it, never inspects it.
type SourceLocation any

// IsAbrupt reports whether c is an abrupt completion: any leaf other than
// Normal, or a JoinedAbrupt. A JoinedNormalAndAbrupt is never abrupt (by
// definition it contains at least one normal possibility).
func IsAbrupt(c Completion) bool {
	switch c.(type) {
	case Normal, JoinedNormalAndAbrupt:
		return false
	case Throw, Return, Break, Continue, JoinedAbrupt:
		return true
	default:
		panic(fmt.Sprintf("IsAbrupt: unrecognized Completion %T", c))
	}
}

// JoinCompletions implements the Completion Joiner (spec component F,
// external interface #1). cond guards which of c1 (true) or c2 (false) was
// actually taken.
func JoinCompletions(realm Realm, cond AbstractValue, c1, c2 Completion) Completion {
	if !cond.MightNotBeTrue() {
		return c1
	}
	if !cond.MightNotBeFalse() {
		return c2
	}

	factory := func(a, b Value) AbstractValue { return realm.ConditionalOf(cond, a, b) }

	switch t1 := c1.(type) {
	case Break:
		if t2, ok := c2.(Break); ok && t1.Target == t2.Target {
			return Break{
				Value:  joinCompletionValueDefault(realm, t1.Value, t2.Value, factory),
				Target: t1.Target,
			}
		}
	case Continue:
		if t2, ok := c2.(Continue); ok && t1.Target == t2.Target {
			return Continue{Value: Empty, Target: t1.Target}
		}
	case Return:
		if t2, ok := c2.(Return); ok {
			return Return{Value: joinCompletionValueDefault(realm, t1.Value, t2.Value, factory)}
		}
	case Throw:
		if t2, ok := c2.(Throw); ok {
			return Throw{
				Value:    joinCompletionValueNoEmptyPreference(realm, t1.Value, t2.Value, factory),
				Location: t1.Location,
			}
		}
	case Normal:
		if t2, ok := c2.(Normal); ok {
			return Normal{Value: joinCompletionValueDefault(realm, t1.Value, t2.Value, factory)}
		}
	}

	if IsAbrupt(c1) && IsAbrupt(c2) {
		return JoinedAbrupt{Cond: cond, C1: c1, C2: c2}
	}
	return JoinedNormalAndAbrupt{Cond: cond, C1: c1, C2: c2}
}

// joinCompletionValueDefault is used by the Normal/Return/Break collapse
// cases: when exactly one side is Empty, the join degenerates to the other
// side rather than paying for a full symbolic conditional, since a leaf's
// "no value" does not carry information worth preserving symbolically once
// the other branch did produce a value.
func joinCompletionValueDefault(realm Realm, v1, v2 Value, factory ConditionalFactory) Value {
	if IsEmpty(v1) && !IsEmpty(v2) {
		return v2
	}
	if IsEmpty(v2) && !IsEmpty(v1) {
		return v1
	}
	return joinValue(realm, v1, v2, factory)
}

// joinCompletionValueNoEmptyPreference is the Throw-collapse variant: a
// thrown value is always genuinely present on both sides, so this never
// special-cases Empty and always goes through the full equality/factory
// logic.
func joinCompletionValueNoEmptyPreference(realm Realm, v1, v2 Value, factory ConditionalFactory) Value {
	return joinValue(realm, v1, v2, factory)
}
