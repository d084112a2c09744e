// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap implements the managed heap of the runtime: blocks
// (arenas) that own every heap-allocated Lisp object, the Object
// projection over tagged values, the mark/sweep collector, root
// registration, and the function call model.
//
// A Block hands out core.Values whose payload indexes the block's
// pools. Cells never move, so a tagged value stays valid until the
// collector reclaims the cell; the root set is what keeps it from
// doing that. Exactly one goroutine may mutate a block; immutable
// reads may be aliased freely.
package heap

import (
	"math/bits"

	"github.com/hesampakdaman/rune/internal/core"
)

// Cells are allocated in fixed-size chunks so their addresses stay
// stable while pools grow. Each chunk carries a used bitmap and a mark
// bitmap, one bit per cell.
const (
	chunkSize = 256
	markWords = chunkSize / 64
)

type chunk[T any] struct {
	cells [chunkSize]T
	used  [markWords]uint64
	mark  [markWords]uint64
}

type pool[T any] struct {
	chunks []*chunk[T]
	free   []uint32
	next   uint32
}

func (p *pool[T]) alloc() (*T, uint64) {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = p.next
		p.next++
		if int(idx)/chunkSize == len(p.chunks) {
			p.chunks = append(p.chunks, new(chunk[T]))
		}
	}
	c := p.chunks[idx/chunkSize]
	slot := idx % chunkSize
	c.used[slot/64] |= uint64(1) << (slot % 64)
	return &c.cells[slot], uint64(idx)
}

func (p *pool[T]) at(idx uint64) *T {
	ci := idx / chunkSize
	slot := idx % chunkSize
	if ci >= uint64(len(p.chunks)) || p.chunks[ci].used[slot/64]&(uint64(1)<<(slot%64)) == 0 {
		fatalf("reference to dead or unallocated cell %d", idx)
	}
	return &p.chunks[ci].cells[slot]
}

func (p *pool[T]) marked(idx uint64) bool {
	slot := idx % chunkSize
	return p.chunks[idx/chunkSize].mark[slot/64]&(uint64(1)<<(slot%64)) != 0
}

func (p *pool[T]) setMark(idx uint64) {
	slot := idx % chunkSize
	p.chunks[idx/chunkSize].mark[slot/64] |= uint64(1) << (slot % 64)
}

func (p *pool[T]) clearMarks() {
	for _, c := range p.chunks {
		c.mark = [markWords]uint64{}
	}
}

// sweep finalizes and frees every used-but-unmarked cell, and returns
// the number of cells still live.
func (p *pool[T]) sweep(finalize func(*T)) int {
	live := 0
	var zero T
	for ci, c := range p.chunks {
		for w := 0; w < markWords; w++ {
			dead := c.used[w] &^ c.mark[w]
			for dead != 0 {
				b := bits.TrailingZeros64(dead)
				dead &= dead - 1
				slot := w*64 + b
				if finalize != nil {
					finalize(&c.cells[slot])
				}
				c.cells[slot] = zero
				c.used[w] &^= uint64(1) << b
				p.free = append(p.free, uint32(ci*chunkSize+slot))
			}
			live += bits.OnesCount64(c.used[w])
		}
	}
	return live
}

func (p *pool[T]) liveCount() int {
	n := 0
	for _, c := range p.chunks {
		for w := 0; w < markWords; w++ {
			n += bits.OnesCount64(c.used[w])
		}
	}
	return n
}

// Collection is considered once the allocations since the last sweep
// reach the block's threshold: this many at first, and after each
// sweep twice the live cell count, but never fewer than this.
const minGCThreshold = 1 << 10

// A Block is an arena that owns heap objects and is swept as a unit.
// Values allocated from a block are valid only against that block;
// cross-block references exist only via CloneIn.
type Block struct {
	roots    *RootSet
	readonly bool

	conses  pool[Cons]
	floats  pool[Float]
	strs    pool[Str]
	vecs    pool[Vector]
	recs    pool[Record]
	hashes  pool[HashTable]
	bytefns pool[ByteFn]
	syms    pool[Symbol]

	obarray map[string]core.Value

	allocs    int
	threshold int
	noGC      int
}

// New returns a mutable block backed by the given root set. Every
// allocation from the block may run the collector, which enumerates
// exactly that root set.
func New(rs *RootSet) *Block {
	return &Block{
		roots:     rs,
		obarray:   map[string]core.Value{},
		threshold: minGCThreshold,
	}
}

// NewConst returns a read-only block: values may be allocated into it
// (byte-code constants are built this way) but never mutated, and it
// is never collected.
func NewConst() *Block {
	return &Block{
		readonly: true,
		obarray:  map[string]core.Value{},
	}
}

// Roots returns the root set the block was built over, or nil for a
// read-only block.
func (b *Block) Roots() *RootSet { return b.roots }

// ReadOnly reports whether the block rejects mutation.
func (b *Block) ReadOnly() bool { return b.readonly }

// mutable is the runtime check behind every mutation handle.
func (b *Block) mutable() {
	if b.readonly {
		panic(ErrReadOnly)
	}
}

func (b *Block) maybeCollect() {
	if b.readonly || b.noGC > 0 || b.roots == nil {
		return
	}
	if b.allocs >= b.threshold {
		b.Collect()
	}
}

// preserve suspends collection for the duration of f, for internal
// multi-step constructions whose intermediate values are not yet
// rooted.
func (b *Block) preserve(f func()) {
	b.noGC++
	defer func() { b.noGC-- }()
	f()
}

// Untag projects a tagged value to its typed variant. It is total
// over the closed tag set, allocates nothing, and branches only on
// the tag; a payload that does not resolve to a live cell is a fatal
// invariant violation.
func (b *Block) Untag(v core.Value) Object {
	switch v.Tag() {
	case core.Int:
		return Int(v.Int())
	case core.Symbol:
		if v.Index()&staticBit != 0 {
			return staticAt(v.Index() &^ staticBit)
		}
		return b.syms.at(v.Index())
	case core.Float:
		return b.floats.at(v.Index())
	case core.Cons:
		return b.conses.at(v.Index())
	case core.String:
		return b.strs.at(v.Index())
	case core.Vec:
		return b.vecs.at(v.Index())
	case core.Record:
		return b.recs.at(v.Index())
	case core.HashTable:
		return b.hashes.at(v.Index())
	case core.SubrFn:
		return subrAt(v.Index())
	case core.ByteFn:
		return b.bytefns.at(v.Index())
	}
	fatalf("corrupted tag %d", v.Tag())
	return nil
}

// Cons allocates a cons cell. Like every allocation below, it may
// trigger a collection first, so all live values must be rooted.
func (b *Block) Cons(car, cdr core.Value) core.Value {
	b.maybeCollect()
	c, idx := b.conses.alloc()
	ref := core.MakeRef(core.Cons, idx)
	*c = Cons{header: header{ref: ref}, car: car, cdr: cdr}
	b.allocs++
	return ref
}

// Float allocates a boxed float.
func (b *Block) Float(f float64) core.Value {
	b.maybeCollect()
	c, idx := b.floats.alloc()
	ref := core.MakeRef(core.Float, idx)
	*c = Float{header: header{ref: ref}, val: f}
	b.allocs++
	return ref
}

// String allocates a string from UTF-8 text.
func (b *Block) String(s string) core.Value {
	return b.ByteString([]byte(s))
}

// ByteString allocates a string from raw bytes. The slice is copied.
func (b *Block) ByteString(data []byte) core.Value {
	b.maybeCollect()
	c, idx := b.strs.alloc()
	ref := core.MakeRef(core.String, idx)
	*c = Str{header: header{ref: ref}, data: append([]byte(nil), data...)}
	b.allocs++
	return ref
}

// Vec allocates a vector holding the given elements.
func (b *Block) Vec(elems ...core.Value) core.Value {
	v, ref := b.allocVec(len(elems))
	copy(v.elems, elems)
	return ref
}

func (b *Block) allocVec(n int) (*Vector, core.Value) {
	b.maybeCollect()
	c, idx := b.vecs.alloc()
	ref := core.MakeRef(core.Vec, idx)
	*c = Vector{header: header{ref: ref}, elems: make([]core.Value, n)}
	b.allocs++
	return c, ref
}

// Record allocates a record. Same layout as Vec, distinct tag.
func (b *Block) Record(elems ...core.Value) core.Value {
	r, ref := b.allocRecord(len(elems))
	copy(r.elems, elems)
	return ref
}

func (b *Block) allocRecord(n int) (*Record, core.Value) {
	b.maybeCollect()
	c, idx := b.recs.alloc()
	ref := core.MakeRef(core.Record, idx)
	*c = Record{Vector{header: header{ref: ref}, elems: make([]core.Value, n)}}
	b.allocs++
	return c, ref
}

// HashTable allocates an empty hash table keyed by value identity.
func (b *Block) HashTable() core.Value {
	b.maybeCollect()
	c, idx := b.hashes.alloc()
	ref := core.MakeRef(core.HashTable, idx)
	*c = HashTable{header: header{ref: ref}, entries: map[core.Value]core.Value{}}
	b.allocs++
	return ref
}

// ByteFunc allocates a byte-compiled function. Both slices are
// copied; the constants become collector roots through tracing.
func (b *Block) ByteFunc(ops []byte, consts []core.Value, args FnArgs, depth uint16) core.Value {
	b.maybeCollect()
	c, idx := b.bytefns.alloc()
	ref := core.MakeRef(core.ByteFn, idx)
	*c = ByteFn{
		header: header{ref: ref},
		ops:    append([]byte(nil), ops...),
		consts: append([]core.Value(nil), consts...),
		args:   args,
		depth:  depth,
	}
	b.allocs++
	return ref
}

// Intern returns the symbol named name, creating it in the block's
// obarray if needed. nil and t always resolve to the static
// singletons. The obarray is weak: an interned symbol that becomes
// unreachable is swept and a later Intern creates a fresh one.
func (b *Block) Intern(name string) core.Value {
	if s, ok := staticByName[name]; ok {
		return s.ref
	}
	if v, ok := b.obarray[name]; ok {
		return v
	}
	ref := b.allocSymbol(name, true)
	b.obarray[name] = ref
	return ref
}

// Uninterned allocates a fresh symbol outside the obarray.
func (b *Block) Uninterned(name string) core.Value {
	return b.allocSymbol(name, false)
}

func (b *Block) allocSymbol(name string, interned bool) core.Value {
	b.maybeCollect()
	c, idx := b.syms.alloc()
	ref := core.MakeRef(core.Symbol, idx)
	*c = Symbol{header: header{ref: ref}, name: name, interned: interned}
	b.allocs++
	return ref
}

// List builds a proper list of the given elements, nil for none.
func (b *Block) List(elems ...core.Value) core.Value {
	b.maybeCollect()
	tail := Nil()
	b.preserve(func() {
		for i := len(elems) - 1; i >= 0; i-- {
			tail = b.Cons(elems[i], tail)
		}
	})
	return tail
}

// Stats reports live cell counts per kind.
type Stats struct {
	Conses     int
	Floats     int
	Strings    int
	Vectors    int
	Records    int
	HashTables int
	ByteFns    int
	Symbols    int
}

func (s Stats) Total() int {
	return s.Conses + s.Floats + s.Strings + s.Vectors + s.Records + s.HashTables + s.ByteFns + s.Symbols
}

func (b *Block) Stats() Stats {
	return Stats{
		Conses:     b.conses.liveCount(),
		Floats:     b.floats.liveCount(),
		Strings:    b.strs.liveCount(),
		Vectors:    b.vecs.liveCount(),
		Records:    b.recs.liveCount(),
		HashTables: b.hashes.liveCount(),
		ByteFns:    b.bytefns.liveCount(),
		Symbols:    b.syms.liveCount(),
	}
}
