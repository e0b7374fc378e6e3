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

// GeneratorEntry is one logged effect. Its opcode set is declared out of
// scope by the core; LogGenerator treats every entry as an opaque value it
// only ever appends and replays, never inspects.
type GeneratorEntry struct {
	Kind  string
	Label string
	Cond  AbstractValue
	Then  Generator
	Else  Generator
	Bind  *Binding
	Value Value
}

// LogGenerator is the reference Generator implementation used by this
// module's own tests and the demo command: an immutable, append-only slice
// of GeneratorEntry. Collaborators supplying a real object model and opcode
// set are expected to implement Generator themselves; LogGenerator exists
// so the join package is independently testable without one.
type LogGenerator struct {
	entries []GeneratorEntry
}

// NewLogGenerator returns an empty LogGenerator.
func NewLogGenerator() *LogGenerator {
	return &LogGenerator{}
}

// Entries returns the logged entries in replay order. The returned slice
// must not be mutated by the caller.
func (g *LogGenerator) Entries() []GeneratorEntry {
	if g == nil {
		return nil
	}
	return g.entries
}

func (g *LogGenerator) Empty() bool {
	return g == nil || len(g.entries) == 0
}

func (g *LogGenerator) JoinGenerators(cond AbstractValue, g1, g2 Generator) Generator {
	return &LogGenerator{entries: []GeneratorEntry{{Kind: "join", Cond: cond, Then: g1, Else: g2}}}
}

func (g *LogGenerator) AppendGenerator(other Generator, label string) Generator {
	next := g.cloneEntries()
	next = append(next, GeneratorEntry{Kind: "append", Label: label, Then: other})
	return &LogGenerator{entries: next}
}

func (g *LogGenerator) EmitBindingAssignment(b *Binding, v Value) Generator {
	next := g.cloneEntries()
	next = append(next, GeneratorEntry{Kind: "bindingAssignment", Bind: b, Value: v})
	return &LogGenerator{entries: next}
}

// cloneEntries returns a fresh copy of g's entries so that appending never
// mutates a generator some other Effects may still be holding a reference
// to (the immutability invariant the binding joiner's wrap-then-append
// strategy depends on).
func (g *LogGenerator) cloneEntries() []GeneratorEntry {
	if g == nil || len(g.entries) == 0 {
		return nil
	}
	out := make([]GeneratorEntry, len(g.entries))
	copy(out, g.entries)
	return out
}
