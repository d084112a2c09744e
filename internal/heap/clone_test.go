// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"testing"

	"github.com/hesampakdaman/rune/internal/core"
)

func TestCloneStringAcrossBlocks(t *testing.T) {
	rsA := NewRootSet()
	a := New(rsA)
	rsB := NewRootSet()
	b := New(rsB)

	hv := a.String("hello")
	cloned := rsB.Push(CloneIn(b, a, hv))

	// Collecting A with nothing rooted frees the original; the clone
	// is unaffected.
	a.Collect()
	if a.Stats().Strings != 0 {
		t.Fatal("source string survived an empty-root collect")
	}
	if got := b.Untag(cloned.Bind(b)).(*Str).String(); got != "hello" {
		t.Fatalf("clone = %q, want hello", got)
	}
}

func TestCloneLeavesAreIdentity(t *testing.T) {
	a := New(NewRootSet())
	b := New(NewRootSet())
	for _, v := range []core.Value{core.MakeInt(99), Nil(), True(), testCarRef} {
		if got := CloneIn(b, a, v); got != v {
			t.Errorf("CloneIn(%v) = %v, want identity", v, got)
		}
	}
}

func TestClonePreservesCycles(t *testing.T) {
	rsA := NewRootSet()
	a := New(rsA)
	b := New(NewRootSet())

	av := a.Cons(core.MakeInt(1), Nil())
	bv := a.Cons(core.MakeInt(2), Nil())
	a.Untag(av).(*Cons).SetCdr(a, bv)
	a.Untag(bv).(*Cons).SetCdr(a, av)

	cv := CloneIn(b, a, av)
	c1 := b.Untag(cv).(*Cons)
	c2 := b.Untag(c1.Cdr()).(*Cons)
	if c1.Car() != core.MakeInt(1) || c2.Car() != core.MakeInt(2) {
		t.Fatalf("cycle cars = %v, %v", c1.Car(), c2.Car())
	}
	if c2.Cdr() != cv {
		t.Fatal("clone did not preserve the cycle")
	}
	if cv == av {
		t.Fatal("clone returned a value of the source block")
	}
}

func TestClonePreservesSharing(t *testing.T) {
	a := New(NewRootSet())
	b := New(NewRootSet())

	shared := a.String("shared")
	vec := a.Vec(shared, shared)

	cv := b.Untag(CloneIn(b, a, vec)).(*Vector)
	if cv.At(0) != cv.At(1) {
		t.Error("shared leaf duplicated by clone")
	}
	if b.Stats().Strings != 1 {
		t.Errorf("%d strings in target, want 1", b.Stats().Strings)
	}
}

func TestCloneAggregates(t *testing.T) {
	a := New(NewRootSet())
	b := New(NewRootSet())

	ht := a.HashTable()
	a.Untag(ht).(*HashTable).Put(a, a.String("k"), a.Float(2.5))
	rec := a.Record(ht, a.Intern("tagged"))
	fn := a.ByteFunc([]byte{9, 9}, []core.Value{rec}, FnArgs{Required: 1, Rest: true}, 7)

	nv := CloneIn(b, a, fn)
	nf := b.Untag(nv).(*ByteFn)
	if nf.Args() != (FnArgs{Required: 1, Rest: true}) || nf.StackDepth() != 7 {
		t.Fatalf("bytefn descriptor lost: %+v", nf.Args())
	}
	nr := b.Untag(nf.Constants()[0]).(*Record)
	nh := b.Untag(nr.At(0)).(*HashTable)
	found := false
	nh.ForEach(func(k, v core.Value) bool {
		if b.Untag(k).(*Str).String() == "k" && b.Untag(v).(*Float).Val() == 2.5 {
			found = true
		}
		return true
	})
	if !found {
		t.Fatal("hash-table entry lost in clone")
	}
	sym := b.Untag(nr.At(1)).(*Symbol)
	if sym.Name() != "tagged" || !sym.Interned() {
		t.Fatalf("symbol clone = %q interned=%v", sym.Name(), sym.Interned())
	}
	if b.Intern("tagged") != nr.At(1) {
		t.Error("cloned interned symbol is not the target block's interned symbol")
	}
}

func TestCloneIntoConstBlock(t *testing.T) {
	a := New(NewRootSet())
	b := NewConst()

	lst := a.List(core.MakeInt(1), a.String("two"))
	cv := CloneIn(b, a, lst)
	c := b.Untag(cv).(*Cons)
	if c.Car() != core.MakeInt(1) {
		t.Fatalf("const clone car = %v", c.Car())
	}
	second := b.Untag(c.Cdr()).(*Cons)
	if got := b.Untag(second.Car()).(*Str).String(); got != "two" {
		t.Fatalf("const clone string = %q", got)
	}
}
