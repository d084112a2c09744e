// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// Symbol payloads with the high bit set refer to the static table
// below instead of a block's symbol pool.
const staticBit = uint64(1) << 63

// A Symbol has a name, a value slot and a function slot. Interned
// symbols are unique per obarray; the canonical nil and t symbols are
// process-wide statics.
type Symbol struct {
	header
	name     string
	interned bool
	constant bool // nil and t; their value is themselves and immutable

	val    core.Value
	hasVal bool
	fn     core.Value
	hasFn  bool
}

func (s *Symbol) Name() string   { return s.name }
func (s *Symbol) Interned() bool { return s.interned }

// Value returns the contents of the value slot, if bound.
func (s *Symbol) Value() (core.Value, bool) { return s.val, s.hasVal }

// SetValue binds the value slot. Constant symbols reject rebinding.
func (s *Symbol) SetValue(b *Block, v core.Value) error {
	if s.constant {
		return &UserError{Message: "setting constant symbol: " + s.name}
	}
	b.mutable()
	s.val, s.hasVal = v, true
	return nil
}

// Func returns the contents of the function slot, if bound.
func (s *Symbol) Func() (core.Value, bool) { return s.fn, s.hasFn }

func (s *Symbol) SetFunc(b *Block, v core.Value) error {
	if s.constant {
		return &UserError{Message: "setting constant symbol: " + s.name}
	}
	b.mutable()
	s.fn, s.hasFn = v, true
	return nil
}

func (*Symbol) list()     {}
func (*Symbol) callable() {}

// Static symbols live for the whole process and are created before
// any block exists. They are never traced or swept.
var (
	statics      []*Symbol
	staticByName = map[string]*Symbol{}

	symNil = registerStatic("nil", true)
	symT   = registerStatic("t", true)
)

func registerStatic(name string, constant bool) *Symbol {
	s := &Symbol{
		name:     name,
		interned: true,
		constant: constant,
	}
	s.ref = core.MakeRef(core.Symbol, staticBit|uint64(len(statics)))
	statics = append(statics, s)
	staticByName[name] = s
	return s
}

func staticAt(idx uint64) *Symbol {
	if idx >= uint64(len(statics)) {
		fatalf("reference to unknown static symbol %d", idx)
	}
	return statics[idx]
}

// Nil returns the canonical nil value. Nil is recognizable by bitwise
// identity; every list-or-nil check goes through IsNil.
func Nil() core.Value { return symNil.ref }

// True returns the canonical t value.
func True() core.Value { return symT.ref }

// IsNil reports whether v is the canonical nil symbol.
func IsNil(v core.Value) bool { return v == symNil.ref }

// FromBool returns t or nil.
func FromBool(ok bool) core.Value {
	if ok {
		return symT.ref
	}
	return symNil.ref
}
