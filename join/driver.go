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

// MapAndJoin implements the N-ary Driver (spec component I, external
// interface #10): it evaluates f once per value under a distinct path
// condition and right-folds the resulting effects through JoinEffects,
// finally applying the accumulated effects to realm and converting its
// completion to a host return value or error.
//
// values must have more than one element — a single-value call has nothing
// to join and is the caller's bug, not this package's to paper over.
func MapAndJoin[T any](realm Realm, values []T, condFactory func(T) AbstractValue, f func(T) *Effects) (Value, error) {
	if len(values) <= 1 {
		panic(fmt.Sprintf("MapAndJoin: requires more than one value, got %d", len(values)))
	}

	var acc *Effects
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		cond := condFactory(v)
		if !IsAbstract(cond) {
			panic(fmt.Sprintf("MapAndJoin: condFactory must yield an AbstractValue, got %T", cond))
		}

		current := realm.PathConditions().WithCondition(cond, func() *Effects {
			return f(v)
		})

		if acc == nil {
			acc = current
			continue
		}
		acc = JoinEffects(realm, cond, current, acc)
	}

	realm.ApplyEffects(acc)
	return realm.ReturnOrThrowCompletion(acc.Result)
}
