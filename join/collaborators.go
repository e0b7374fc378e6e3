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

// Package join implements the branch-join core of a partial evaluator: it
// reconciles two independently-evaluated abstract program states (one per
// branch of an unknown-at-analysis-time condition) into a single sound
// abstract state.
//
// The package never evaluates source expressions, never constructs its own
// abstract values from scratch (it always goes through a caller-supplied
// ConditionalFactory), and never touches an object model directly — those
// are external collaborators, declared here only as interfaces.
package join

// Value is the common interface implemented by every symbolic term the core
// handles: ConcreteValue, the Empty sentinel, and any collaborator-supplied
// AbstractValue.
type Value interface {
	isValue()
}

// ConcreteValue wraps a single runtime datum witnessed during evaluation of
// a branch (e.g. a number, string, or the realm's own `undefined`/`null`
// constants, which are concrete data as far as the core is concerned).
type ConcreteValue struct {
	Datum any
}

func (ConcreteValue) isValue() {}

// AbstractValue is the collaborator-supplied symbolic term type: a term
// whose shape the core never inspects beyond the two predicates below,
// which are used to short-circuit joins against path conditions known to
// resolve the condition one way or the other.
type AbstractValue interface {
	Value
	// MightNotBeTrue reports whether, under currently known path
	// conditions, this value could evaluate to anything other than true.
	MightNotBeTrue() bool
	// MightNotBeFalse reports whether, under currently known path
	// conditions, this value could evaluate to anything other than false.
	MightNotBeFalse() bool
	// JoinConditionForSelectedCompletions derives the join condition
	// JoinValuesOfSelectedCompletions must re-join a composed-away subtree
	// under. c is the composedWith completion being folded back in; the
	// condition this returns need not be the receiver itself — a composed
	// subtree can carry its own accumulated path conditions (see
	// Completion.PathConditionsAtCreation), and the collaborator is the one
	// that knows how to turn those into a single condition for sel.
	JoinConditionForSelectedCompletions(sel CompletionSelector, c Completion) AbstractValue
}

type emptyValue struct{}

func (emptyValue) isValue() {}

// Empty is the sentinel denoting "no value at all" — distinct from a
// realm's concrete `undefined`. It shows up wherever a branch produced
// nothing for a slot the other branch did produce something for (a
// property read only on one side of a conditional, a sparse array slot, a
// short array padded out to the longer side's length).
var Empty Value = emptyValue{}

// IsEmpty reports whether v is the Empty sentinel.
func IsEmpty(v Value) bool {
	_, ok := v.(emptyValue)
	return ok
}

// IsAbstract reports whether v is an AbstractValue (as opposed to
// ConcreteValue or Empty).
func IsAbstract(v Value) bool {
	_, ok := v.(AbstractValue)
	return ok
}

// ConditionalFactory builds an abstract conditional value equivalent to
// `cond ? a : b`, where cond is implicit (bound by the caller of
// JoinValues/JoinDescriptors/JoinCompletions, not passed to the factory
// itself — a single join may invoke the factory many times, once per array
// element or descriptor field, all under the same condition).
type ConditionalFactory func(a, b Value) AbstractValue

// BindingConditionalFactory is the variant of ConditionalFactory the
// binding joiner uses. The two extra flags are forwarded verbatim from the
// binding joiner to the collaborator; the core does not interpret them (see
// SPEC_FULL.md's resolution of the corresponding Open Question). By
// convention preferLeft indicates which branch's value this conditional
// treats as the "then" arm when leak reconciliation makes the usual left/
// right correspondence ambiguous, and forLeakRepair marks that this
// conditional was built to reconcile a leaked vs. non-leaked binding rather
// than an ordinary two-branch value disagreement.
type BindingConditionalFactory func(a, b Value, preferLeft, forLeakRepair bool) AbstractValue

// PathConditionSet is the realm's accumulated-path-condition bookkeeping.
type PathConditionSet interface {
	// WithCondition runs thunk with cond pushed as an additional path
	// condition frame, returning whatever effects thunk produces.
	WithCondition(cond AbstractValue, thunk func() *Effects) *Effects
	// ImpliesTrue reports whether the current path conditions force cond
	// to be true.
	ImpliesTrue(cond AbstractValue) bool
	// ImpliesFalse reports whether the current path conditions force cond
	// to be false.
	ImpliesFalse(cond AbstractValue) bool
}

// Realm is the environment the core reads intrinsics and path conditions
// from, and through which it asks the collaborator to evaluate thunks for
// effects and to apply/convert the final, joined effects. No core operation
// other than MapAndJoin calls EvaluateForEffects/ApplyEffects/
// ReturnOrThrowCompletion; the rest of the core is a pure function of its
// arguments.
type Realm interface {
	// Undefined returns the realm's concrete `undefined` intrinsic.
	Undefined() Value
	// PathConditions returns the realm's current path-condition set.
	PathConditions() PathConditionSet
	// EvaluateForEffects runs thunk under the given path condition and
	// label, capturing whatever side effects, bindings, and completion it
	// produces as an Effects value.
	EvaluateForEffects(thunk func() Completion, cond AbstractValue, label string) *Effects
	// ApplyEffects replays e against the realm's live state.
	ApplyEffects(e *Effects)
	// ReturnOrThrowCompletion converts a final Completion into the value a
	// host language caller observes, or an error if the completion
	// represents an abstract-program throw that must propagate as a host
	// error.
	ReturnOrThrowCompletion(c Completion) (Value, error)
	// StrictEquals decides concrete equality between two concrete values.
	// Deliberately left to the collaborator rather than implemented in the
	// core: comparing two concrete values may require knowledge of the
	// object model (e.g. object identity) the core itself never touches.
	StrictEquals(a, b Value) bool
	// ConditionalOf is AbstractValue.conditionalOf(realm, cond, a, b, flags)
	// realized as a realm method rather than a package-level static: it
	// builds the abstract value `cond ? a : b`. The variadic flags are the
	// two collaborator-defined booleans the binding joiner forwards
	// verbatim (their meaning is left to the collaborator, per spec).
	ConditionalOf(cond AbstractValue, a, b Value, flags ...bool) AbstractValue
}

// Generator is the collaborator's append-only log of externally observable
// effects. The core never inspects individual entries (their opcode set is
// declared out of scope); it only ever joins, wraps, and appends generators
// as whole units. See LogGenerator for the reference implementation used by
// this module's own tests.
type Generator interface {
	// Empty reports whether this generator has logged nothing.
	Empty() bool
	// JoinGenerators returns a new generator recording that under cond,
	// either g1 (true) or g2 (false) should be replayed.
	JoinGenerators(cond AbstractValue, g1, g2 Generator) Generator
	// AppendGenerator returns a generator that replays this generator's
	// entries, then g's entries, labeled for diagnostics as label.
	AppendGenerator(g Generator, label string) Generator
	// EmitBindingAssignment returns a generator that replays this
	// generator's entries, then assigns v into b.
	EmitBindingAssignment(b *Binding, v Value) Generator
}
