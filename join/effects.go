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

// Effects is the five-tuple of everything one branch's evaluation observed:
// its completion, its generator log, its binding and property deltas, and
// the set of objects it allocated. JoinEffects panics unless both of its
// inputs have CanBeApplied set; nothing in this package clears the flag
// after an Effects value has been joined or applied.
type Effects struct {
	Result         Completion
	Log            Generator
	Bindings       *BindingMap
	Properties     *PropertyMap
	CreatedObjects CreatedObjects
	CanBeApplied   bool
}

// NewEffects builds an applicable Effects from its parts.
func NewEffects(result Completion, log Generator, bindings *BindingMap, properties *PropertyMap, created CreatedObjects) *Effects {
	return &Effects{
		Result:         result,
		Log:            log,
		Bindings:       bindings,
		Properties:     properties,
		CreatedObjects: created,
		CanBeApplied:   true,
	}
}

// ShallowCloneWithResult returns a copy of e whose Result is replaced by r;
// all other fields are shared with e, not deep-copied.
func (e *Effects) ShallowCloneWithResult(r Completion) *Effects {
	clone := *e
	clone.Result = r
	return &clone
}

func unionCreatedObjects(c1, c2 CreatedObjects) CreatedObjects {
	if len(c1) == 0 {
		return c2
	}
	if len(c2) == 0 {
		return c1
	}
	out := make(CreatedObjects, len(c1)+len(c2))
	for id := range c1 {
		out[id] = true
	}
	for id := range c2 {
		out[id] = true
	}
	return out
}

// JoinEffects implements the Effects Joiner (spec component G, external
// interface #2): it orchestrates the completion, binding, property, and
// generator joiners and unions the created-object sets.
func JoinEffects(realm Realm, cond AbstractValue, e1, e2 *Effects) *Effects {
	if !e1.CanBeApplied || !e2.CanBeApplied {
		panic(fmt.Sprintf("JoinEffects: both inputs must be applicable, got %v, %v", e1.CanBeApplied, e2.CanBeApplied))
	}
	if !cond.MightNotBeTrue() {
		return e1
	}
	if !cond.MightNotBeFalse() {
		return e2
	}

	result := JoinCompletions(realm, cond, e1.Result, e2.Result)

	g1, g2, bindings := JoinBindings(realm, cond, e1.Log, e1.Bindings, e2.Log, e2.Bindings)

	var log Generator
	if g1.Empty() && g2.Empty() {
		log = NewLogGenerator()
	} else {
		log = g1.JoinGenerators(cond, g1, g2)
	}

	properties := JoinPropertyBindings(realm, cond, e1.Properties, e2.Properties, e1.CreatedObjects, e2.CreatedObjects)

	return &Effects{
		Result:         result,
		Log:            log,
		Bindings:       bindings,
		Properties:     properties,
		CreatedObjects: unionCreatedObjects(e1.CreatedObjects, e2.CreatedObjects),
		CanBeApplied:   true,
	}
}
