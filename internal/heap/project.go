// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// The Try* family converts a tagged value to a narrower semantic
// subset. Every check branches on the tag alone and fails with a
// TypeError carrying the offending object; nothing here allocates.

// TryNumber accepts Int and Float.
func (b *Block) TryNumber(v core.Value) (Number, error) {
	switch v.Tag() {
	case core.Int, core.Float:
		return b.Untag(v).(Number), nil
	}
	return nil, &TypeError{Expected: "number", Actual: b.Untag(v)}
}

// TryList accepts the canonical nil symbol and conses.
func (b *Block) TryList(v core.Value) (List, error) {
	if IsNil(v) || v.Tag() == core.Cons {
		return b.Untag(v).(List), nil
	}
	return nil, &TypeError{Expected: "list", Actual: b.Untag(v)}
}

// TryCallable accepts byte functions, subrs, conses and symbols.
func (b *Block) TryCallable(v core.Value) (Callable, error) {
	switch v.Tag() {
	case core.ByteFn, core.SubrFn, core.Cons, core.Symbol:
		return b.Untag(v).(Callable), nil
	}
	return nil, &TypeError{Expected: "function", Actual: b.Untag(v)}
}

// TryInt accepts Int only.
func (b *Block) TryInt(v core.Value) (int64, error) {
	if v.Tag() == core.Int {
		return v.Int(), nil
	}
	return 0, &TypeError{Expected: "integer", Actual: b.Untag(v)}
}

func (b *Block) TryCons(v core.Value) (*Cons, error) {
	if v.Tag() == core.Cons {
		return b.Untag(v).(*Cons), nil
	}
	return nil, &TypeError{Expected: "cons", Actual: b.Untag(v)}
}

func (b *Block) TryString(v core.Value) (*Str, error) {
	if v.Tag() == core.String {
		return b.Untag(v).(*Str), nil
	}
	return nil, &TypeError{Expected: "string", Actual: b.Untag(v)}
}

func (b *Block) TryVector(v core.Value) (*Vector, error) {
	if v.Tag() == core.Vec {
		return b.Untag(v).(*Vector), nil
	}
	return nil, &TypeError{Expected: "vector", Actual: b.Untag(v)}
}

func (b *Block) TryHashTable(v core.Value) (*HashTable, error) {
	if v.Tag() == core.HashTable {
		return b.Untag(v).(*HashTable), nil
	}
	return nil, &TypeError{Expected: "hash-table", Actual: b.Untag(v)}
}

func (b *Block) TrySymbol(v core.Value) (*Symbol, error) {
	if v.Tag() == core.Symbol {
		return b.Untag(v).(*Symbol), nil
	}
	return nil, &TypeError{Expected: "symbol", Actual: b.Untag(v)}
}
