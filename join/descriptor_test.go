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

func TestJoinDescriptors_BothAbsent(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	got := join.JoinDescriptors(realm, fixture.NewAbstract("cond"), nil, nil)
	require.Nil(t, got)
}

func TestJoinDescriptors_EqualDataDescriptorsCloneValue(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	d := join.DataDescriptor{Value: fixture.Num(1)}
	got := join.JoinDescriptors(realm, fixture.NewAbstract("cond"), d, d)

	dd, ok := got.(join.DataDescriptor)
	require.True(t, ok)
	require.Equal(t, fixture.Num(1), dd.Value)
}

func TestJoinDescriptors_MaterializeAgainstEmpty(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	present := join.DataDescriptor{Value: fixture.Num(1), Attrs: join.Attrs{Writable: true, Enumerable: true, Configurable: true}}

	got := join.JoinDescriptors(realm, cond, present, nil)

	dd, ok := got.(join.DataDescriptor)
	require.True(t, ok)
	require.Equal(t, fixture.Conditional{Cond: cond, Then: fixture.Num(1), Else: join.Empty}, dd.Value)
}

func TestJoinDescriptors_AccessorPresentOnlyOnOneSideProducesSingleSidedOpaque(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	present := join.AccessorDescriptor{Get: fixture.Num(1), Attrs: join.Attrs{Enumerable: true}}

	gotD1Absent := join.JoinDescriptors(realm, cond, nil, present)
	opaque1, ok := gotD1Absent.(join.OpaqueDescriptor)
	require.True(t, ok)
	require.Equal(t, cond, opaque1.JoinCondition)
	require.Nil(t, opaque1.Descriptor1)
	require.Equal(t, present, opaque1.Descriptor2)

	gotD2Absent := join.JoinDescriptors(realm, cond, present, nil)
	opaque2, ok := gotD2Absent.(join.OpaqueDescriptor)
	require.True(t, ok)
	require.Equal(t, cond, opaque2.JoinCondition)
	require.Equal(t, present, opaque2.Descriptor1)
	require.Nil(t, opaque2.Descriptor2)
}

func TestJoinDescriptors_MismatchedShapeProducesOpaque(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	d1 := join.DataDescriptor{Value: fixture.Num(1)}
	d2 := join.AccessorDescriptor{Get: fixture.Num(2)}

	got := join.JoinDescriptors(realm, cond, d1, d2)

	opaque, ok := got.(join.OpaqueDescriptor)
	require.True(t, ok)
	require.Equal(t, cond, opaque.JoinCondition)
	require.Equal(t, d1, opaque.Descriptor1)
	require.Equal(t, d2, opaque.Descriptor2)
}

func TestJoinDescriptors_DifferingDataValuesBuildConditional(t *testing.T) {
	t.Parallel()

	realm := fixture.New()
	cond := fixture.NewAbstract("cond")
	d1 := join.DataDescriptor{Value: fixture.Num(1)}
	d2 := join.DataDescriptor{Value: fixture.Num(2)}

	got := join.JoinDescriptors(realm, cond, d1, d2)

	dd, ok := got.(join.DataDescriptor)
	require.True(t, ok)
	require.Equal(t, fixture.Conditional{Cond: cond, Then: fixture.Num(1), Else: fixture.Num(2)}, dd.Value)
}
