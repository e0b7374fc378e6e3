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

// Command branchjoin-demo runs a small, hard-coded branch-join scenario
// (an if/else over two concrete bindings under one abstract condition),
// encodes a compressed snapshot of the joined bindings, and prints the
// result together with the snapshot's size as a pretty-printed diagnostic,
// so the artifact size of a typical join can be eyeballed.
package main

import (
	"encoding/gob"
	"fmt"
	"os"
	"regexp"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"

	"github.com/partialeval/branchjoin/internal/fixture"
	"github.com/partialeval/branchjoin/internal/orderedmap"
	"github.com/partialeval/branchjoin/internal/snapshot"
	"github.com/partialeval/branchjoin/join"
)

// wrapRun recovers from any panic (join's precondition checks panic the
// moment a scenario is malformed) and returns it as an error carrying the
// panic value and a stack trace, instead of crashing the process.
func wrapRun(f func() (*analysis.Diagnostic, error)) (diag *analysis.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("INTERNAL PANIC: %s\n%s", r, string(debug.Stack()))
		}
	}()
	return f()
}

func runScenario() (*analysis.Diagnostic, error) {
	realm := fixture.New()
	cond := fixture.NewAbstract("x > 0")

	x := &join.Binding{Name: "x", Value: fixture.Num(0)}

	thenBindings := orderedMapWith(x, join.BindingEntry{Value: fixture.Num(1)})
	elseBindings := orderedMapWith(x, join.BindingEntry{Value: fixture.Num(-1)})

	thenEffects := join.NewEffects(join.Normal{Value: fixture.Num(1)}, join.NewLogGenerator(), thenBindings, nil, nil)
	elseEffects := join.NewEffects(join.Normal{Value: fixture.Num(-1)}, join.NewLogGenerator(), elseBindings, nil, nil)

	joined := join.JoinEffects(realm, cond, thenEffects, elseEffects)
	realm.ApplyEffects(joined)

	value, err := realm.ReturnOrThrowCompletion(joined.Result)
	if err != nil {
		return nil, err
	}

	sess := snapshot.FromBindings(joined.Bindings)
	encoded, err := sess.GobEncode()
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	msg := fmt.Sprintf("joined value of `x` under `%v`: %v (snapshot: %d bytes)", cond, value, len(encoded))
	return &analysis.Diagnostic{Message: prettyPrint(msg)}, nil
}

func orderedMapWith(b *join.Binding, entry join.BindingEntry) *join.BindingMap {
	m := orderedmap.New[*join.Binding, join.BindingEntry]()
	m.Store(b, entry)
	return m
}

var codeReferencePattern = regexp.MustCompile("`(.*?)`")

// prettyPrint highlights backtick-quoted code references in msg with ANSI
// color codes, for terminals that render diagnostics inline.
func prettyPrint(msg string) string {
	codeStr := fmt.Sprintf("\u001B[%dm%s\u001B[0m", 95, "${1}")
	return codeReferencePattern.ReplaceAllString(msg, codeStr)
}

func main() {
	diag, err := wrapRun(runScenario)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(diag.Message)
}

func init() {
	// The demo's snapshot round-trips a single concrete int per binding;
	// gob needs every concrete type ever stored in a Datum field registered
	// up front.
	gob.Register(0)
}
