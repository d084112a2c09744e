// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// CloneIn produces an independent copy of v's object graph in dst.
// Immutable process-lifetime leaves (integers, static symbols, subrs)
// transfer as-is; aggregates are reallocated transitively. A
// during-copy identity map preserves sharing and cycles, and doubles
// as a root provider on dst so a collection mid-copy cannot reclaim
// half-built results.
func CloneIn(dst, src *Block, v core.Value) core.Value {
	c := &cloner{dst: dst, src: src, seen: map[core.Value]core.Value{}}
	if dst.roots != nil {
		dst.roots.AddProvider(c)
		defer dst.roots.RemoveProvider(c)
	}
	return c.clone(v)
}

type cloner struct {
	dst  *Block
	src  *Block
	seen map[core.Value]core.Value // src value -> dst value
}

func (c *cloner) TraceRoots(push func(core.Value)) {
	for _, v := range c.seen {
		push(v)
	}
}

func (c *cloner) clone(v core.Value) core.Value {
	if !markable(v) {
		// Int, SubrFn, static symbol: identity across blocks.
		return v
	}
	if w, ok := c.seen[v]; ok {
		return w
	}
	switch o := c.src.Untag(v).(type) {
	case *Float:
		w := c.dst.Float(o.val)
		c.seen[v] = w
		return w
	case *Str:
		w := c.dst.ByteString(o.data)
		c.seen[v] = w
		return w
	case *Cons:
		// Allocate first and record the mapping before descending,
		// so cyclic cars and cdrs resolve to the new cell.
		w := c.dst.Cons(core.Value{}, core.Value{})
		c.seen[v] = w
		nc := c.dst.Untag(w).(*Cons)
		nc.car = c.clone(o.car)
		nc.cdr = c.clone(o.cdr)
		return w
	case *Record:
		nr, w := c.dst.allocRecord(o.Len())
		c.seen[v] = w
		for i, e := range o.elems {
			nr.elems[i] = c.clone(e)
		}
		return w
	case *Vector:
		nv, w := c.dst.allocVec(o.Len())
		c.seen[v] = w
		for i, e := range o.elems {
			nv.elems[i] = c.clone(e)
		}
		return w
	case *HashTable:
		w := c.dst.HashTable()
		c.seen[v] = w
		nh := c.dst.Untag(w).(*HashTable)
		o.ForEach(func(k, val core.Value) bool {
			nh.put(c.clone(k), c.clone(val))
			return true
		})
		return w
	case *ByteFn:
		w := c.dst.ByteFunc(o.ops, nil, o.args, o.depth)
		c.seen[v] = w
		nf := c.dst.Untag(w).(*ByteFn)
		nf.consts = make([]core.Value, len(o.consts))
		for i, e := range o.consts {
			nf.consts[i] = c.clone(e)
		}
		return w
	case *Symbol:
		var w core.Value
		if o.interned {
			w = c.dst.Intern(o.name)
		} else {
			w = c.dst.Uninterned(o.name)
		}
		c.seen[v] = w
		ns := c.dst.Untag(w).(*Symbol)
		if o.hasVal && !ns.hasVal {
			ns.val, ns.hasVal = c.clone(o.val), true
		}
		if o.hasFn && !ns.hasFn {
			ns.fn, ns.hasFn = c.clone(o.fn), true
		}
		return w
	}
	fatalf("clone of unexpected value %v", v)
	return core.Value{}
}
