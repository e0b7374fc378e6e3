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

// Package snapshot persists the bindings left over after a join as a
// compact artifact, for diffing a demo run against a previous one. Only the
// binding half of an Effects is captured: a Value tree rooted in an
// AbstractValue is owned by the collaborator and is not in general
// gob-serializable, so a snapshot only ever records the concrete data a
// binding settled on (or nil, if it settled on something abstract).
package snapshot

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/klauspost/compress/s2"

	"github.com/partialeval/branchjoin/join"
)

// Binding is the serializable projection of one join.Binding's final state.
type Binding struct {
	Name      string
	Datum     any
	HasLeaked bool
}

// Session is the artifact produced at the end of a demo run.
type Session struct {
	Bindings []Binding
}

// FromBindings builds a Session from a joined binding map, in its
// iteration order.
func FromBindings(m *join.BindingMap) *Session {
	s := &Session{}
	m.Range(func(b *join.Binding, entry join.BindingEntry) bool {
		var datum any
		if cv, ok := entry.Value.(join.ConcreteValue); ok {
			datum = cv.Datum
		}
		s.Bindings = append(s.Bindings, Binding{Name: b.Name, Datum: datum, HasLeaked: entry.HasLeaked})
		return true
	})
	return s
}

// GobEncode encodes the session through an s2 compressor: gob for
// structure, s2 for size, since the sessions this produces are meant to be
// committed or shipped alongside CI output.
func (s *Session) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(w).Encode(s.Bindings); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode decodes a session previously produced by GobEncode.
func (s *Session) GobDecode(input []byte) error {
	buf := bytes.NewBuffer(input)
	return gob.NewDecoder(s2.NewReader(buf)).Decode(&s.Bindings)
}
