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

package join_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/partialeval/branchjoin/internal/fixture"
	"github.com/partialeval/branchjoin/join"
)

func TestComposeCompletions_LeftAbruptDominates(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	left := join.Throw{Value: fixture.Num(1), Location: "a.go:1"}
	right := join.Normal{Value: fixture.Num(2)}

	got := join.ComposeCompletions(realm, left, right)

	require.Equal(t, left, got)
}

func TestComposeCompletions_LeftAbsentRightWins(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	right := join.Normal{Value: fixture.Num(2)}

	require.Equal(t, right, join.ComposeCompletions(realm, nil, right))
}

func TestComposeCompletions_SplicesJoinedNormalAndAbruptIntoJoinedNormalAndAbrupt(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	left := join.JoinedNormalAndAbrupt{Cond: cond, C1: join.Normal{Value: fixture.Num(1)}, C2: join.Throw{Value: fixture.Num(2)}}
	right := join.JoinedNormalAndAbrupt{Cond: fixture.NewAbstract("other"), C1: join.Normal{Value: fixture.Num(3)}, C2: join.Return{Value: fixture.Num(4)}}

	got := join.ComposeCompletions(realm, left, right)

	spliced, ok := got.(join.JoinedNormalAndAbrupt)
	require.True(t, ok)
	require.Equal(t, left, spliced.ComposedWith)
	require.Equal(t, right.Cond, spliced.Cond)
}

func TestComposeWithEffects_NormalReplacesResult(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	e := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), nil, nil, nil)

	got := join.ComposeWithEffects(realm, join.Normal{Value: fixture.Num(9)}, e)

	require.Equal(t, join.Normal{Value: fixture.Num(9)}, got.Result)
}

func TestComposeWithEffects_AbruptLeafGetsFreshEmptyEffects(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	e := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), nil, nil, join.CreatedObjects{"a": true})

	got := join.ComposeWithEffects(realm, join.Return{Value: fixture.Num(9)}, e)

	require.Equal(t, join.Return{Value: fixture.Num(9)}, got.Result)
	require.Nil(t, got.CreatedObjects)
	require.True(t, got.Log.Empty())
}

func TestComposeWithEffects_JoinedNormalAndAbruptRecursesAndJoins(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	c := join.JoinedNormalAndAbrupt{
		Cond: cond,
		C1:   join.Normal{Value: fixture.Num(1)},
		C2:   join.Return{Value: fixture.Num(2)},
	}
	e := join.NewEffects(nil, join.NewLogGenerator(), nil, nil, nil)

	got := join.ComposeWithEffects(realm, c, e)

	jna, ok := got.Result.(join.JoinedNormalAndAbrupt)
	require.True(t, ok)
	require.Equal(t, cond, jna.Cond)
}

func TestJoinValuesOfSelectedCompletions_SelectsThrowsOnly(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	selector := func(c join.Completion) (join.Value, bool) {
		if th, ok := c.(join.Throw); ok {
			return th.Value, true
		}
		return nil, false
	}

	c := join.JoinedAbrupt{
		Cond: cond,
		C1:   join.Throw{Value: fixture.Num(1)},
		C2:   join.Return{Value: fixture.Num(2)},
	}

	got := join.JoinValuesOfSelectedCompletions(realm, selector, c)

	require.Equal(t, fixture.Conditional{Cond: cond, Then: fixture.Num(1), Else: join.Empty}, got)
}

func TestJoinValuesOfSelectedCompletions_ReJoinsComposedWithUnderDerivedCondition(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	priorCond := fixture.NewAbstract("prior")
	selector := func(c join.Completion) (join.Value, bool) {
		if th, ok := c.(join.Throw); ok {
			return th.Value, true
		}
		return nil, false
	}

	// composedWith carries its own PathConditionsAtCreation, recorded when
	// it was spliced in at some earlier composition — this is what
	// JoinConditionForSelectedCompletions reads to derive a condition
	// distinct from the outer node's own Cond.
	composedWith := join.JoinedNormalAndAbrupt{
		Cond:                     priorCond,
		C1:                       join.Normal{Value: fixture.Num(10)},
		C2:                       join.Throw{Value: fixture.Num(20)},
		PathConditionsAtCreation: []join.AbstractValue{priorCond},
	}

	c := join.JoinedNormalAndAbrupt{
		Cond:                     cond,
		C1:                       join.Normal{Value: fixture.Num(1)},
		C2:                       join.Throw{Value: fixture.Num(2)},
		ComposedWith:             composedWith,
		PathConditionsAtCreation: []join.AbstractValue{priorCond},
	}

	got := join.JoinValuesOfSelectedCompletions(realm, selector, c)

	// The immediate node's own C1/C2 join to fixture.Conditional{cond, Empty, 2}
	// (C1 is Normal, not a Throw, so selector sees Empty there).
	innerJoined := fixture.Conditional{Cond: cond, Then: join.Empty, Else: fixture.Num(2)}
	// ComposedWith's own C1/C2 join to fixture.Conditional{priorCond, Empty, 20}.
	composedValue := fixture.Conditional{Cond: priorCond, Then: join.Empty, Else: fixture.Num(20)}
	// The re-join must use the condition the collaborator derives from
	// composedWith's own recorded path conditions, not cond verbatim.
	derivedCond := fixture.Conjunction{Conditions: []join.AbstractValue{cond, priorCond}}

	require.Equal(t, fixture.Conditional{Cond: derivedCond, Then: innerJoined, Else: composedValue}, got)
}
