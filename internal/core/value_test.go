// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"math"
	"testing"
)

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 42, -42, math.MaxInt64, math.MinInt64, math.MaxInt32 + 1, math.MinInt32 - 1} {
		v := MakeInt(n)
		if v.Tag() != Int {
			t.Errorf("MakeInt(%d).Tag() = %v, want Int", n, v.Tag())
		}
		if got := v.Int(); got != n {
			t.Errorf("MakeInt(%d).Int() = %d", n, got)
		}
	}
}

func TestZeroValueIsIntZero(t *testing.T) {
	var v Value
	if v.Tag() != Int || v.Int() != 0 {
		t.Errorf("zero Value = %v, want integer 0", v)
	}
	if v != MakeInt(0) {
		t.Errorf("zero Value != MakeInt(0)")
	}
}

func TestRefRoundTrip(t *testing.T) {
	for _, tag := range []Tag{Symbol, Float, Cons, String, Vec, Record, HashTable, SubrFn, ByteFn} {
		v := MakeRef(tag, 17)
		if v.Tag() != tag {
			t.Errorf("MakeRef(%v, 17).Tag() = %v", tag, v.Tag())
		}
		if v.Index() != 17 {
			t.Errorf("MakeRef(%v, 17).Index() = %d", tag, v.Index())
		}
	}
}

func TestEqIsBitwise(t *testing.T) {
	if !MakeInt(5).Eq(MakeInt(5)) {
		t.Error("identical ints not Eq")
	}
	if MakeInt(5).Eq(MakeInt(6)) {
		t.Error("distinct ints Eq")
	}
	if MakeRef(Cons, 1).Eq(MakeRef(Cons, 2)) {
		t.Error("distinct cells Eq")
	}
	if MakeRef(Vec, 1).Eq(MakeRef(Record, 1)) {
		t.Error("vector and record with same index Eq")
	}
}

func TestTagNames(t *testing.T) {
	if Cons.String() != "cons" || HashTable.String() != "hash-table" {
		t.Errorf("unexpected tag names: %s, %s", Cons, HashTable)
	}
}
