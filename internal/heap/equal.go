// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"bytes"
	"math"

	"github.com/hesampakdaman/rune/internal/core"
)

// Eq is identity equality: the bitwise comparison of the two words.
func Eq(a, b core.Value) bool { return a == b }

// Eql is Eq extended with float comparison by value: two distinct
// float cells holding the same bits are eql.
func (b *Block) Eql(x, y core.Value) bool {
	if x == y {
		return true
	}
	if x.Tag() == core.Float && y.Tag() == core.Float {
		return math.Float64bits(b.Untag(x).(*Float).val) == math.Float64bits(b.Untag(y).(*Float).val)
	}
	return false
}

// Structural comparison of a pathological graph stops here rather
// than looping.
const maxEqualDepth = 1 << 12

// Equal is structural equality over conses, strings and vectors, and
// identity for everything else. Records, hash tables and byte
// functions compare by identity: the reference-equality reading of
// the otherwise unspecified cases.
func (b *Block) Equal(x, y core.Value) bool {
	return b.equal(x, y, 0)
}

func (b *Block) equal(x, y core.Value, depth int) bool {
	if depth > maxEqualDepth {
		return false
	}
	if b.Eql(x, y) {
		return true
	}
	if x.Tag() != y.Tag() {
		return false
	}
	switch x.Tag() {
	case core.Cons:
		// Iterate the cdr spine; recurse only on cars.
		for x.Tag() == core.Cons && y.Tag() == core.Cons {
			cx := b.Untag(x).(*Cons)
			cy := b.Untag(y).(*Cons)
			if !b.equal(cx.car, cy.car, depth+1) {
				return false
			}
			x, y = cx.cdr, cy.cdr
			depth++
			if depth > maxEqualDepth {
				return false
			}
		}
		return b.equal(x, y, depth+1)
	case core.String:
		return bytes.Equal(b.Untag(x).(*Str).data, b.Untag(y).(*Str).data)
	case core.Vec:
		vx := b.Untag(x).(*Vector)
		vy := b.Untag(y).(*Vector)
		if vx.Len() != vy.Len() {
			return false
		}
		for i := range vx.elems {
			if !b.equal(vx.elems[i], vy.elems[i], depth+1) {
				return false
			}
		}
		return true
	}
	return false
}
