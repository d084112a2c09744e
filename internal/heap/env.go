// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/hesampakdaman/rune/internal/core"

// An Env holds dynamic variable bindings, symbol value to value. It
// registers itself as a root provider so everything it binds survives
// collection.
type Env struct {
	vars map[core.Value]core.Value
}

// NewEnv returns an environment whose bindings are rooted in rs.
func NewEnv(rs *RootSet) *Env {
	e := &Env{vars: map[core.Value]core.Value{}}
	rs.AddProvider(e)
	return e
}

// Get looks up the binding of sym.
func (e *Env) Get(sym core.Value) (core.Value, bool) {
	v, ok := e.vars[sym]
	return v, ok
}

// Set binds sym to val.
func (e *Env) Set(sym, val core.Value) {
	e.vars[sym] = val
}

// TraceRoots implements RootProvider.
func (e *Env) TraceRoots(push func(core.Value)) {
	for k, v := range e.vars {
		push(k)
		push(v)
	}
}
