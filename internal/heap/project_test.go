// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"errors"
	"testing"

	"github.com/hesampakdaman/rune/internal/core"
)

func TestTryNumber(t *testing.T) {
	b, _ := newTestBlock(t)

	if n, err := b.TryNumber(core.MakeInt(4)); err != nil {
		t.Errorf("TryNumber(4): %v", err)
	} else if n.(Int) != 4 {
		t.Errorf("TryNumber(4) = %v", n)
	}

	fv := b.Float(1.0)
	if n, err := b.TryNumber(fv); err != nil {
		t.Errorf("TryNumber(1.0): %v", err)
	} else if n.(*Float).Val() != 1.0 {
		t.Errorf("TryNumber(1.0) = %v", n)
	}

	_, err := b.TryNumber(b.String("one"))
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("TryNumber(string) error = %v, want *TypeError", err)
	}
	if te.Expected != "number" {
		t.Errorf("Expected = %q, want number", te.Expected)
	}
	if _, ok := te.Actual.(*Str); !ok {
		t.Errorf("Actual = %T, want *Str", te.Actual)
	}
}

func TestTryList(t *testing.T) {
	b, _ := newTestBlock(t)

	if _, err := b.TryList(Nil()); err != nil {
		t.Errorf("TryList(nil): %v", err)
	}
	if _, err := b.TryList(b.Cons(Nil(), Nil())); err != nil {
		t.Errorf("TryList(cons): %v", err)
	}
	if _, err := b.TryList(True()); err == nil {
		t.Error("TryList(t) succeeded; only nil and conses are lists")
	}
	if _, err := b.TryList(b.Intern("sym")); err == nil {
		t.Error("TryList(symbol) succeeded")
	}
	if _, err := b.TryList(core.MakeInt(0)); err == nil {
		t.Error("TryList(0) succeeded")
	}
}

func TestTryCallable(t *testing.T) {
	b, _ := newTestBlock(t)

	good := []core.Value{
		b.ByteFunc(nil, nil, FnArgs{}, 0),
		testCarRef,
		b.Cons(Nil(), Nil()),
		b.Intern("some-fn"),
	}
	for _, v := range good {
		if _, err := b.TryCallable(v); err != nil {
			t.Errorf("TryCallable(%v): %v", v.Tag(), err)
		}
	}
	bad := []core.Value{core.MakeInt(1), b.Float(1.0), b.String("f"), b.Vec()}
	for _, v := range bad {
		if _, err := b.TryCallable(v); err == nil {
			t.Errorf("TryCallable(%v) succeeded", v.Tag())
		}
	}
}

func TestNarrowDowncasts(t *testing.T) {
	b, _ := newTestBlock(t)

	if n, err := b.TryInt(core.MakeInt(-3)); err != nil || n != -3 {
		t.Errorf("TryInt = %d, %v", n, err)
	}
	if _, err := b.TryInt(b.Float(3.0)); err == nil {
		t.Error("TryInt(float) succeeded")
	}
	if _, err := b.TryCons(Nil()); err == nil {
		t.Error("TryCons(nil) succeeded; nil is not a cons")
	}
	if _, err := b.TryString(b.String("s")); err != nil {
		t.Errorf("TryString: %v", err)
	}
	if _, err := b.TryVector(b.Record()); err == nil {
		t.Error("TryVector(record) succeeded; records are tag-distinct")
	}
	if _, err := b.TryHashTable(b.HashTable()); err != nil {
		t.Errorf("TryHashTable: %v", err)
	}
	if _, err := b.TrySymbol(Nil()); err != nil {
		t.Errorf("TrySymbol(nil): %v", err)
	}
}
