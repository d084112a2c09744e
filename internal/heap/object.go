// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// An Object is the typed view of a tagged value. The variant set is
// closed and mirrors the tag set one-to-one; Block.Untag produces it
// with a single switch on the tag, and Ref converts back to the
// identical word in O(1).
//
// Object and its narrower subsets below are sealed: only the types in
// this package implement them.
type Object interface {
	// Ref returns the tagged value this object projects.
	Ref() core.Value

	variant()
}

// Number is the numeric subset: Int or *Float.
type Number interface {
	Object
	number()
}

// List is the list subset: the canonical nil symbol or *Cons.
// TryList admits no symbol other than nil.
type List interface {
	Object
	list()
}

// Callable is the function subset: *ByteFn, *SubrFn, *Cons (an
// interpreted function body) or *Symbol (indirection through the
// function slot).
type Callable interface {
	Object
	callable()
}

// header sits at the front of every heap cell and records the cell's
// own tagged value, so projecting and retagging round-trip without a
// lookup.
type header struct {
	ref core.Value
}

func (h *header) Ref() core.Value { return h.ref }
func (h *header) variant()        {}

// Int is a fixnum. It is not heap-allocated; the value is its own
// payload.
type Int int64

func (i Int) Ref() core.Value { return core.MakeInt(int64(i)) }
func (Int) variant()          {}
func (Int) number()           {}

// A Float is a heap-boxed IEEE-754 double.
type Float struct {
	header
	val float64
}

func (f *Float) Val() float64 { return f.val }
func (*Float) number()        {}

// A Cons is a two-slot cell. Cons graphs may be cyclic.
type Cons struct {
	header
	car, cdr core.Value
}

func (c *Cons) Car() core.Value { return c.car }
func (c *Cons) Cdr() core.Value { return c.cdr }

// SetCar stores v in the car slot. The block argument is the mutation
// evidence: it must be the mutable block that owns the cell.
func (c *Cons) SetCar(b *Block, v core.Value) {
	b.mutable()
	c.car = v
}

func (c *Cons) SetCdr(b *Block, v core.Value) {
	b.mutable()
	c.cdr = v
}

func (*Cons) list()     {}
func (*Cons) callable() {}

// A Str is a byte sequence. It is not required to be valid UTF-8;
// byte strings are stored as-is.
type Str struct {
	header
	data []byte
}

func (s *Str) Bytes() []byte { return s.data }
func (s *Str) Len() int      { return len(s.data) }

// String returns the bytes as a Go string.
func (s *Str) String() string { return string(s.data) }

// A Vector is an ordered sequence of tagged values.
type Vector struct {
	header
	elems []core.Value
}

func (v *Vector) Len() int            { return len(v.elems) }
func (v *Vector) At(i int) core.Value { return v.elems[i] }
func (v *Vector) Elems() []core.Value { return v.elems }

func (v *Vector) Set(b *Block, i int, val core.Value) {
	b.mutable()
	v.elems[i] = val
}

// A Record shares the vector layout but is a distinct type with a
// distinct tag.
type Record struct {
	Vector
}

// A HashTable maps tagged values to tagged values. Keys compare by
// value identity: integers by value, heap objects by cell identity,
// symbols by intern identity. Iteration follows insertion order.
type HashTable struct {
	header
	entries map[core.Value]core.Value
	keys    []core.Value
}

func (h *HashTable) Len() int { return len(h.entries) }

func (h *HashTable) Get(k core.Value) (core.Value, bool) {
	v, ok := h.entries[k]
	return v, ok
}

func (h *HashTable) Put(b *Block, k, v core.Value) {
	b.mutable()
	h.put(k, v)
}

func (h *HashTable) put(k, v core.Value) {
	if _, ok := h.entries[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.entries[k] = v
}

// ForEach visits entries in insertion order. It returns early when fn
// returns false.
func (h *HashTable) ForEach(fn func(k, v core.Value) bool) {
	for _, k := range h.keys {
		if v, ok := h.entries[k]; ok {
			if !fn(k, v) {
				return
			}
		}
	}
}

// A ByteFn is a byte-compiled function: an opcode sequence, a constant
// pool, an arity descriptor and a stack-depth hint. The constant pool
// is traced by the collector. Executing the opcodes is the byte-code
// interpreter's job, not the core's.
type ByteFn struct {
	header
	ops    []byte
	consts []core.Value
	args   FnArgs
	depth  uint16
}

func (f *ByteFn) OpCodes() []byte         { return f.ops }
func (f *ByteFn) Constants() []core.Value { return f.consts }
func (f *ByteFn) Args() FnArgs            { return f.args }
func (f *ByteFn) StackDepth() uint16      { return f.depth }

func (*ByteFn) callable() {}
