// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// A RootProvider contributes additional roots to every collection,
// beyond the individually pushed values. The environment and the
// during-copy map of CloneIn are providers.
type RootProvider interface {
	TraceRoots(push func(core.Value))
}

// A RootSet is the set of values the collector treats as live. Any
// value that must survive an allocating call has to be registered
// here first; the allocation contract on Block assumes it.
type RootSet struct {
	vals      []core.Value
	free      []int
	providers []RootProvider
}

func NewRootSet() *RootSet { return &RootSet{} }

// Push registers v and returns a handle pinning it.
func (rs *RootSet) Push(v core.Value) *Root {
	var idx int
	if n := len(rs.free); n > 0 {
		idx = rs.free[n-1]
		rs.free = rs.free[:n-1]
		rs.vals[idx] = v
	} else {
		idx = len(rs.vals)
		rs.vals = append(rs.vals, v)
	}
	return &Root{set: rs, idx: idx}
}

// AddProvider registers p for enumeration during collection.
func (rs *RootSet) AddProvider(p RootProvider) {
	rs.providers = append(rs.providers, p)
}

// RemoveProvider unregisters p.
func (rs *RootSet) RemoveProvider(p RootProvider) {
	for i, q := range rs.providers {
		if q == p {
			rs.providers = append(rs.providers[:i], rs.providers[i+1:]...)
			return
		}
	}
}

func (rs *RootSet) trace(push func(core.Value)) {
	for _, v := range rs.vals {
		push(v)
	}
	for _, p := range rs.providers {
		p.TraceRoots(push)
	}
}

// A Root pins one value in a RootSet. Reads go through Bind, which
// demands the owning block as evidence, so a raw tagged value cannot
// be carried across an allocating call by accident: code re-binds
// after every potential collection point.
type Root struct {
	set *RootSet
	idx int
}

// Bind returns the pinned value. The block must be the one built over
// this root set; anything else is an invariant violation.
func (r *Root) Bind(b *Block) core.Value {
	if r.idx < 0 {
		fatalf("use of released root")
	}
	if b == nil || b.roots != r.set {
		fatalf("root bound against a foreign block")
	}
	return r.set.vals[r.idx]
}

// Set replaces the pinned value.
func (r *Root) Set(v core.Value) {
	if r.idx < 0 {
		fatalf("use of released root")
	}
	r.set.vals[r.idx] = v
}

// Release drops the pin and recycles the slot. The handle must not be
// used afterwards.
func (r *Root) Release() {
	if r.idx < 0 {
		return
	}
	r.set.vals[r.idx] = core.Value{}
	r.set.free = append(r.set.free, r.idx)
	r.idx = -1
}
