// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core defines the tagged value word at the bottom of the
// runtime. A Value pairs a type tag with a single payload word: the
// full bit pattern of a fixnum for Int, or a slot reference into the
// owning heap block for every heap-allocated kind. Values are plain
// data; resolving a reference to its heap cell is the block's job (see
// ../heap), so a Value can be copied, compared and stored freely.
//
// Integer payloads are never dereferenced. A tag check must precede
// any use of the payload as a reference.
package core

import "fmt"

// A Tag identifies the variant held by a Value. The set is closed:
// every Value in a well-formed heap carries one of the tags below.
type Tag uint8

const (
	// Int is first so that the zero Value is the fixnum 0.
	Int Tag = iota
	Symbol
	Float
	Cons
	String
	Vec
	Record
	HashTable
	SubrFn
	ByteFn

	numTags
)

var tagNames = [numTags]string{
	Int:       "integer",
	Symbol:    "symbol",
	Float:     "float",
	Cons:      "cons",
	String:    "string",
	Vec:       "vector",
	Record:    "record",
	HashTable: "hash-table",
	SubrFn:    "subr",
	ByteFn:    "byte-code-function",
}

func (t Tag) String() string {
	if t >= numTags {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return tagNames[t]
}

// A Value is a tagged word. The zero Value is the integer 0.
//
// Values compare with ==. That comparison is the runtime's identity
// equality: value equality for integers, cell identity for heap
// objects, and intern identity for symbols.
type Value struct {
	tag  Tag
	bits uint64
}

// MakeInt returns the fixnum n as a Value. The whole int64 range
// round-trips.
func MakeInt(n int64) Value {
	return Value{tag: Int, bits: uint64(n)}
}

// MakeRef returns a reference Value with tag t and payload idx.
// The payload is an index meaningful only to the allocator that
// issued it.
func MakeRef(t Tag, idx uint64) Value {
	return Value{tag: t, bits: idx}
}

// Tag extracts the tag. Total: defined for every Value.
func (v Value) Tag() Tag { return v.tag }

// Int returns the fixnum payload. Only meaningful when v.Tag() == Int.
func (v Value) Int() int64 { return int64(v.bits) }

// Index returns the reference payload. Only meaningful for heap tags.
func (v Value) Index() uint64 { return v.bits }

// Eq reports identity equality, the bitwise comparison of the two
// words.
func (v Value) Eq(w Value) bool { return v == w }

func (v Value) String() string {
	if v.tag == Int {
		return fmt.Sprintf("#<int %d>", v.Int())
	}
	return fmt.Sprintf("#<%s @%d>", v.tag, v.bits)
}
