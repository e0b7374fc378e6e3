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

// Package config hosts non-user-configurable parameters for the branch-join
// core. These are development- and testing-time knobs, not a runtime
// configuration surface.
package config

// MaxJoinArrayLength bounds the length of the arrays JoinValues will walk
// when reconciling ValueArray/EntryArray payloads. Property-reads and
// spreads in realistic programs are never unbounded, and a hard ceiling
// turns a pathological join (e.g. a malformed Payload with mismatched,
// enormous lengths) into a loud assertion failure instead of a silent
// multi-second allocation. Raise this only with a benchmark showing a real
// workload needs it.
const MaxJoinArrayLength = 1 << 20

// StrictAssertions is a debug/test toggle, on by default and kept as a plain
// package variable rather than a build constant. No code in this module
// reads it: setting it adds no re-validation of structural invariants (such
// as the well-formedness of a Completion tree's Joined* children) beyond the
// core's usual precondition checks, and clearing it removes none of them.
var StrictAssertions = true
