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

func TestJoinEffects_CreatedObjectUnion(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")

	e1 := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), nil, nil, join.CreatedObjects{"a": true})
	e2 := join.NewEffects(join.Normal{Value: fixture.Num(2)}, join.NewLogGenerator(), nil, nil, join.CreatedObjects{"b": true})

	got := join.JoinEffects(realm, cond, e1, e2)

	require.True(t, got.CreatedObjects.Has("a"))
	require.True(t, got.CreatedObjects.Has("b"))
	require.True(t, got.CanBeApplied)
}

func TestJoinEffects_BothEmptyGeneratorsStayEmpty(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")

	e1 := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), nil, nil, nil)
	e2 := join.NewEffects(join.Normal{Value: fixture.Num(2)}, join.NewLogGenerator(), nil, nil, nil)

	got := join.JoinEffects(realm, cond, e1, e2)

	require.True(t, got.Log.Empty())
}

func TestJoinEffects_NonEmptyGeneratorsAreWrappedUnderCondition(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")

	b := &join.Binding{Name: "x"}
	g1 := join.NewLogGenerator().EmitBindingAssignment(b, fixture.Num(1))
	e1 := join.NewEffects(join.Normal{Value: fixture.Num(1)}, g1, nil, nil, nil)
	e2 := join.NewEffects(join.Normal{Value: fixture.Num(2)}, join.NewLogGenerator(), nil, nil, nil)

	got := join.JoinEffects(realm, cond, e1, e2)

	require.False(t, got.Log.Empty())
}

func TestJoinEffects_PanicsOnNonApplicableInput(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	e1 := &join.Effects{CanBeApplied: false}
	e2 := join.NewEffects(join.Normal{}, join.NewLogGenerator(), nil, nil, nil)

	require.Panics(t, func() { join.JoinEffects(realm, cond, e1, e2) })
}

func TestJoinEffects_ShortCircuitsOnKnownCondition(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	e1 := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), nil, nil, nil)
	e2 := join.NewEffects(join.Normal{Value: fixture.Num(2)}, join.NewLogGenerator(), nil, nil, nil)

	require.Same(t, e1, join.JoinEffects(realm, fixture.KnownTrue("t"), e1, e2))
	require.Same(t, e2, join.JoinEffects(realm, fixture.KnownFalse("f"), e1, e2))
}
