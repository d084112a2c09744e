// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sexp

import (
	"testing"

	"github.com/hesampakdaman/rune/internal/core"
	"github.com/hesampakdaman/rune/internal/heap"
)

func readOne(t *testing.T, b *heap.Block, src string) core.Value {
	t.Helper()
	v, err := Read(b, src)
	if err != nil {
		t.Fatalf("Read(%q): %v", src, err)
	}
	return v
}

func TestReadPrintRoundTrip(t *testing.T) {
	b := heap.New(heap.NewRootSet())
	cases := []struct {
		src  string
		want string // printed form; empty means identical to src
	}{
		{"42", ""},
		{"-17", ""},
		{"1.5", ""},
		{"2.0", ""},
		{"nil", ""},
		{"t", ""},
		{"foo", ""},
		{"1+", ""},
		{`"hello"`, ""},
		{`"a \"b\" c"`, ""},
		{"(1 2 3)", ""},
		{"(1 . 2)", ""},
		{"(1 2 . 3)", ""},
		{"()", "nil"},
		{"(a (b c) d)", ""},
		{"[1 2.5 x]", ""},
		{"'foo", ""},
		{"'(1 2)", ""},
		{"  42  ; a comment", "42"},
		{"(capitalize \"hello world\")", `(capitalize "hello world")`},
	}
	for _, c := range cases {
		v := readOne(t, b, c.src)
		want := c.want
		if want == "" {
			want = c.src
		}
		if got := heap.Print(b, v); got != want {
			t.Errorf("Read(%q) printed as %q, want %q", c.src, got, want)
		}
	}
}

func TestReadTypes(t *testing.T) {
	b := heap.New(heap.NewRootSet())
	if v := readOne(t, b, "42"); v != core.MakeInt(42) {
		t.Errorf("42 read as %v", v)
	}
	if v := readOne(t, b, "nil"); !heap.IsNil(v) {
		t.Errorf("nil read as %v", v)
	}
	if v := readOne(t, b, "3.25"); v.Tag() != core.Float {
		t.Errorf("3.25 read with tag %v", v.Tag())
	}
	if v := readOne(t, b, "foo"); v != b.Intern("foo") {
		t.Error("symbol not interned")
	}
	if v := readOne(t, b, `"\n"`); b.Untag(v).(*heap.Str).String() != "\n" {
		t.Error("escape not decoded")
	}
}

func TestReadErrors(t *testing.T) {
	b := heap.New(heap.NewRootSet())
	for _, src := range []string{"", "(1 2", `"abc`, ")", "]", "(1 . )", "1 2", "(1 . 2 3)"} {
		if _, err := Read(b, src); err == nil {
			t.Errorf("Read(%q) succeeded", src)
		}
	}
}

func TestReadDoesNotLeakRoots(t *testing.T) {
	rs := heap.NewRootSet()
	b := heap.New(rs)
	readOne(t, b, "(1 (2 3) [4 5] \"six\")")
	b.Collect()
	if got := b.Stats().Total(); got != 0 {
		t.Errorf("%d cells still rooted after Read returned", got)
	}
}
