// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"math"

	"github.com/hesampakdaman/rune/internal/core"
)

// FnArgs describes the argument shape of a function.
type FnArgs struct {
	// Rest marks a &rest parameter collecting surplus arguments.
	Rest bool
	// Required is the minimum argument count.
	Required uint16
	// Optional counts the &optional parameters.
	Optional uint16
	// Advice marks an advised function.
	Advice bool
}

// NumOfFillArgs returns how many nil arguments must be appended so a
// call with n actual arguments presents exactly Required+Optional
// slots to the callee. Calls below Required, or above the total
// without Rest, fail with an ArgCountError naming the function.
func (a FnArgs) NumOfFillArgs(n uint16, name string) (uint16, error) {
	if n < a.Required {
		return 0, &ArgCountError{Expected: a.Required, Actual: n, Name: name}
	}
	total := a.Required + a.Optional
	if !a.Rest && n > total {
		return 0, &ArgCountError{Expected: total, Actual: n, Name: name}
	}
	if n > total {
		return 0, nil
	}
	return total - n, nil
}

// A BuiltInFn is the native code behind a subr. It receives the
// normalized argument slots, the environment, and the block the call
// runs against; the returned value is bound to that block.
type BuiltInFn func(args []core.Value, env *Env, b *Block) (core.Value, error)

// A SubrFn is a built-in function: a native function pointer, an
// arity descriptor and a static name. Subrs are statically allocated
// in a process-wide registry and are never swept. Two subr values are
// equal exactly when they share a registry slot, which matches
// function-pointer identity.
type SubrFn struct {
	name string
	args FnArgs
	fn   BuiltInFn
	ref  core.Value
}

func (s *SubrFn) Name() string    { return s.name }
func (s *SubrFn) Args() FnArgs    { return s.args }
func (s *SubrFn) Ref() core.Value { return s.ref }

func (*SubrFn) variant()  {}
func (*SubrFn) callable() {}

var (
	subrs       []*SubrFn
	subrsByName = map[string]*SubrFn{}
)

// RegisterSubr installs a built-in function under a static name and
// returns its tagged value. Registration happens once per name,
// before any Lisp runs; duplicate names are a programming error.
func RegisterSubr(name string, required, optional uint16, rest bool, fn BuiltInFn) core.Value {
	if _, ok := subrsByName[name]; ok {
		fatalf("subr %q registered twice", name)
	}
	s := &SubrFn{
		name: name,
		args: FnArgs{Required: required, Optional: optional, Rest: rest},
		fn:   fn,
		ref:  core.MakeRef(core.SubrFn, uint64(len(subrs))),
	}
	subrs = append(subrs, s)
	subrsByName[name] = s
	return s.ref
}

// LookupSubr resolves a registered subr by name.
func LookupSubr(name string) (core.Value, bool) {
	s, ok := subrsByName[name]
	if !ok {
		return core.Value{}, false
	}
	return s.ref, true
}

// Subrs returns the registered subrs in registration order.
func Subrs() []*SubrFn {
	return append([]*SubrFn(nil), subrs...)
}

func subrAt(idx uint64) *SubrFn {
	if idx >= uint64(len(subrs)) {
		fatalf("reference to unknown subr %d", idx)
	}
	return subrs[idx]
}

// Call invokes s: the argument count is normalized against the arity
// descriptor, nil is appended up to Required+Optional, surplus
// arguments are collected into a fresh list when Rest is set, and the
// native function runs with the resulting slots. The rest list is
// allocated from b, so the caller must hold args rooted.
func (s *SubrFn) Call(args []core.Value, env *Env, b *Block) (core.Value, error) {
	n := len(args)
	if n > math.MaxUint16 {
		return core.Value{}, &ArgCountError{Expected: math.MaxUint16, Actual: math.MaxUint16, Name: s.name}
	}
	fill, err := s.args.NumOfFillArgs(uint16(n), s.name)
	if err != nil {
		return core.Value{}, err
	}
	total := int(s.args.Required) + int(s.args.Optional)
	slots := make([]core.Value, 0, total+1)
	slots = append(slots, args[:min(n, total)]...)
	for i := 0; i < int(fill); i++ {
		slots = append(slots, Nil())
	}
	if s.args.Rest {
		rest := Nil()
		if n > total {
			rest = b.List(args[total:]...)
		}
		slots = append(slots, rest)
	}
	return s.fn(slots, env, b)
}

// Execute, when set, runs byte-compiled functions. The byte-code
// interpreter lives outside the core and installs itself here; the
// core only guarantees arity normalization and constant tracing.
var Execute func(fn *ByteFn, args []core.Value, env *Env, b *Block) (core.Value, error)

// Symbol function cells may indirect to other symbols; chains longer
// than this fail instead of looping.
const maxIndirection = 16

// Call dispatches a call to any callable value: subrs run natively,
// byte functions go through Execute, symbols follow their function
// slot. A cons is an interpreted function body, which the core cannot
// run without an evaluator.
func Call(fn core.Value, args []core.Value, env *Env, b *Block) (core.Value, error) {
	for hop := 0; hop < maxIndirection; hop++ {
		c, err := b.TryCallable(fn)
		if err != nil {
			return core.Value{}, err
		}
		switch f := c.(type) {
		case *SubrFn:
			return f.Call(args, env, b)
		case *ByteFn:
			if Execute == nil {
				return core.Value{}, &UserError{Message: "byte-code execution is not available"}
			}
			return Execute(f, args, env, b)
		case *Cons:
			return core.Value{}, &UserError{Message: "invalid-function: interpreted bodies need an evaluator"}
		case *Symbol:
			next, ok := f.Func()
			if !ok {
				if v, found := LookupSubr(f.Name()); found {
					fn = v
					continue
				}
				return core.Value{}, &UserError{Message: "void-function: " + f.Name()}
			}
			fn = next
		}
	}
	return core.Value{}, &UserError{Message: "function indirection chain too deep"}
}
