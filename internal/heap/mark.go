// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// markable reports whether v refers to a collectable heap cell.
// Integers, subrs and static symbols are roots of nothing and are
// short-circuited before they reach the trace stack.
func markable(v core.Value) bool {
	switch v.Tag() {
	case core.Int, core.SubrFn:
		return false
	case core.Symbol:
		return v.Index()&staticBit == 0
	}
	return true
}

func (b *Block) marked(v core.Value) bool {
	switch v.Tag() {
	case core.Symbol:
		return b.syms.marked(v.Index())
	case core.Float:
		return b.floats.marked(v.Index())
	case core.Cons:
		return b.conses.marked(v.Index())
	case core.String:
		return b.strs.marked(v.Index())
	case core.Vec:
		return b.vecs.marked(v.Index())
	case core.Record:
		return b.recs.marked(v.Index())
	case core.HashTable:
		return b.hashes.marked(v.Index())
	case core.ByteFn:
		return b.bytefns.marked(v.Index())
	}
	fatalf("mark check on unmarkable value %v", v)
	return false
}

func (b *Block) setMark(v core.Value) {
	switch v.Tag() {
	case core.Symbol:
		b.syms.setMark(v.Index())
	case core.Float:
		b.floats.setMark(v.Index())
	case core.Cons:
		b.conses.setMark(v.Index())
	case core.String:
		b.strs.setMark(v.Index())
	case core.Vec:
		b.vecs.setMark(v.Index())
	case core.Record:
		b.recs.setMark(v.Index())
	case core.HashTable:
		b.hashes.setMark(v.Index())
	case core.ByteFn:
		b.bytefns.setMark(v.Index())
	}
}

// Collect runs a full mark/sweep cycle: clear mark bits, trace every
// reachable cell from the root set with an explicit stack, then sweep
// each pool. Tracing never recurses, and the mark-bit precheck bounds
// each cell to at most one visit, so arbitrary cyclic graphs
// terminate. Collection is a no-op on read-only blocks.
func (b *Block) Collect() {
	if b.readonly {
		return
	}

	b.conses.clearMarks()
	b.floats.clearMarks()
	b.strs.clearMarks()
	b.vecs.clearMarks()
	b.recs.clearMarks()
	b.hashes.clearMarks()
	b.bytefns.clearMarks()
	b.syms.clearMarks()

	var stack []core.Value
	push := func(v core.Value) {
		if markable(v) {
			stack = append(stack, v)
		}
	}
	if b.roots != nil {
		b.roots.trace(push)
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.marked(v) {
			continue
		}
		b.setMark(v)
		b.traceChildren(v, push)
	}

	live := b.sweep()
	b.allocs = 0
	b.threshold = max(minGCThreshold, 2*live)
}

// traceChildren pushes every tagged value directly contained in v.
func (b *Block) traceChildren(v core.Value, push func(core.Value)) {
	switch o := b.Untag(v).(type) {
	case *Float, *Str:
		// leaves
	case *Cons:
		push(o.car)
		push(o.cdr)
	case *Record:
		for _, e := range o.elems {
			push(e)
		}
	case *Vector:
		for _, e := range o.elems {
			push(e)
		}
	case *HashTable:
		o.ForEach(func(k, val core.Value) bool {
			push(k)
			push(val)
			return true
		})
	case *ByteFn:
		for _, c := range o.consts {
			push(c)
		}
	case *Symbol:
		if o.hasVal {
			push(o.val)
		}
		if o.hasFn {
			push(o.fn)
		}
	}
}

func (b *Block) sweep() int {
	live := 0
	live += b.conses.sweep(nil)
	live += b.floats.sweep(nil)
	live += b.strs.sweep(nil)
	live += b.vecs.sweep(nil)
	live += b.recs.sweep(nil)
	live += b.hashes.sweep(nil)
	live += b.bytefns.sweep(nil)
	live += b.syms.sweep(func(s *Symbol) {
		if s.interned {
			delete(b.obarray, s.name)
		}
	})
	return live
}
