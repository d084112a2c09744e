// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"errors"
	"testing"

	"github.com/hesampakdaman/rune/internal/core"
	"github.com/hesampakdaman/rune/internal/heap"
	"github.com/hesampakdaman/rune/internal/sexp"
)

type session struct {
	b   *heap.Block
	env *heap.Env
}

func newSession(t *testing.T) *session {
	t.Helper()
	rs := heap.NewRootSet()
	return &session{b: heap.New(rs), env: heap.NewEnv(rs)}
}

func (s *session) eval(t *testing.T, src string) (core.Value, error) {
	t.Helper()
	form, err := sexp.Read(s.b, src)
	if err != nil {
		t.Fatalf("Read(%q): %v", src, err)
	}
	pin := s.b.Roots().Push(form)
	defer pin.Release()
	return Eval(s.b, s.env, form)
}

func (s *session) evalOK(t *testing.T, src string) string {
	t.Helper()
	v, err := s.eval(t, src)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return heap.Print(s.b, v)
}

func TestEvalBasics(t *testing.T) {
	s := newSession(t)
	cases := []struct {
		src, want string
	}{
		{"42", "42"},
		{"1.5", "1.5"},
		{`"str"`, `"str"`},
		{"nil", "nil"},
		{"t", "t"},
		{"'sym", "sym"},
		{"'(1 2)", "(1 2)"},
		{"(car '(1 . 2))", "1"},
		{"(cdr '(1 . 2))", "2"},
		{"(car nil)", "nil"},
		{"(cdr nil)", "nil"},
		{"(cons 1 2)", "(1 . 2)"},
		{"(list 1 2 3)", "(1 2 3)"},
		{"(list)", "nil"},
		{"(length '(a b c))", "3"},
		{"(length \"four\")", "4"},
		{"(nth 1 '(a b c))", "b"},
		{"(nth 9 '(a b c))", "nil"},
		{"(eq 'a 'a)", "t"},
		{"(eq '(1) '(1))", "nil"},
		{"(equal '(1 (2)) '(1 (2)))", "t"},
		{"(eql 1.5 1.5)", "t"},
		{"(null nil)", "t"},
		{"(null 0)", "nil"},
		{"(not t)", "nil"},
		{"(+)", "0"},
		{"(+ 1 2 3)", "6"},
		{"(+ 1 2.5)", "3.5"},
		{"(- 10 1 2)", "7"},
		{"(- 5)", "-5"},
		{"(-)", "0"},
		{"(* 2 3 4)", "24"},
		{"(1+ 41)", "42"},
		{"(1+ 1.5)", "2.5"},
		{"(vector 1 2)", "[1 2]"},
		{"(aref (vector 'a 'b) 1)", "b"},
		{"(aref \"abc\" 0)", "97"},
		{"(upcase \"hello\")", `"HELLO"`},
		{"(downcase \"HELLO\")", `"hello"`},
		{"(capitalize \"hello world\")", `"Hello World"`},
		{"(upcase 97)", "65"},
		{"(concat \"foo\" \"bar\")", `"foobar"`},
		{"(concat)", `""`},
		{"(symbol-name 'foo)", `"foo"`},
		{"(intern \"foo\")", "foo"},
		{"(if t 1 2)", "1"},
		{"(if nil 1 2)", "2"},
		{"(if nil 1)", "nil"},
		{"(progn 1 2 3)", "3"},
	}
	for _, c := range cases {
		if got := s.evalOK(t, c.src); got != c.want {
			t.Errorf("eval(%s) = %s, want %s", c.src, got, c.want)
		}
	}
}

func TestEvalSetqAndLookup(t *testing.T) {
	s := newSession(t)
	if got := s.evalOK(t, "(setq x 10 y 20)"); got != "20" {
		t.Errorf("setq = %s", got)
	}
	if got := s.evalOK(t, "(+ x y)"); got != "30" {
		t.Errorf("(+ x y) = %s", got)
	}
	if _, err := s.eval(t, "unbound-var"); err == nil {
		t.Error("unbound variable lookup succeeded")
	}
}

func TestEvalHashTable(t *testing.T) {
	s := newSession(t)
	s.evalOK(t, "(setq h (make-hash-table))")
	if got := s.evalOK(t, "(puthash 'k 42 h)"); got != "42" {
		t.Errorf("puthash = %s", got)
	}
	if got := s.evalOK(t, "(gethash 'k h)"); got != "42" {
		t.Errorf("gethash = %s", got)
	}
	if got := s.evalOK(t, "(gethash 'missing h)"); got != "nil" {
		t.Errorf("gethash default = %s", got)
	}
	if got := s.evalOK(t, "(gethash 'missing h 'fallback)"); got != "fallback" {
		t.Errorf("gethash explicit default = %s", got)
	}
}

func TestEvalErrors(t *testing.T) {
	s := newSession(t)

	_, err := s.eval(t, "(car 5)")
	var te *heap.TypeError
	if !errors.As(err, &te) {
		t.Errorf("(car 5) error = %v, want *TypeError", err)
	}

	_, err = s.eval(t, "(car)")
	var ace *heap.ArgCountError
	if !errors.As(err, &ace) {
		t.Errorf("(car) error = %v, want *ArgCountError", err)
	}
	_, err = s.eval(t, "(car '(1) '(2))")
	if !errors.As(err, &ace) {
		t.Errorf("(car x y) error = %v, want *ArgCountError", err)
	}

	_, err = s.eval(t, `(error "boom")`)
	var ue *heap.UserError
	if !errors.As(err, &ue) || ue.Message != "boom" {
		t.Errorf("(error) = %v, want UserError boom", err)
	}

	if _, err := s.eval(t, "(no-such-function 1)"); err == nil {
		t.Error("call to undefined function succeeded")
	}
}

func TestEvalSurvivesCollection(t *testing.T) {
	s := newSession(t)
	s.evalOK(t, `(setq big (list 1 2 3 4 5))`)
	s.b.Collect()
	if got := s.evalOK(t, "(length big)"); got != "5" {
		t.Errorf("list damaged by collection: length = %s", got)
	}
	if got := s.evalOK(t, "(nth 4 big)"); got != "5" {
		t.Errorf("nth after collect = %s", got)
	}
}
