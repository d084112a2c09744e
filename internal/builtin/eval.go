// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"github.com/hesampakdaman/rune/internal/core"
	"github.com/hesampakdaman/rune/internal/heap"
)

// Eval evaluates one form: self-evaluating objects, variable lookup,
// a handful of special forms, and calls into the subr registry
// through the function-call convention. It exists to drive the core
// from the eval surface; it is not a byte-code interpreter.
func Eval(b *heap.Block, env *heap.Env, form core.Value) (core.Value, error) {
	switch o := b.Untag(form).(type) {
	case *heap.Symbol:
		if form == heap.Nil() || form == heap.True() {
			return form, nil
		}
		if v, ok := env.Get(form); ok {
			return v, nil
		}
		if v, ok := o.Value(); ok {
			return v, nil
		}
		return core.Value{}, &heap.UserError{Message: "void-variable: " + o.Name()}
	case *heap.Cons:
		return evalCall(b, env, o)
	default:
		// Everything else is self-evaluating.
		return form, nil
	}
}

func evalCall(b *heap.Block, env *heap.Env, c *heap.Cons) (core.Value, error) {
	head, err := b.TrySymbol(c.Car())
	if err != nil {
		return core.Value{}, err
	}

	switch head.Name() {
	case "quote":
		rest, err := b.TryCons(c.Cdr())
		if err != nil {
			return core.Value{}, err
		}
		return rest.Car(), nil
	case "setq":
		return evalSetq(b, env, c.Cdr())
	case "if":
		return evalIf(b, env, c.Cdr())
	case "progn":
		return evalProgn(b, env, c.Cdr())
	}

	args, release, err := evalArgs(b, env, c.Cdr())
	if err != nil {
		return core.Value{}, err
	}
	defer release()
	return heap.Call(head.Ref(), args, env, b)
}

// evalArgs evaluates an argument list, rooting every result until
// release is called, so the call itself may allocate freely.
func evalArgs(b *heap.Block, env *heap.Env, list core.Value) ([]core.Value, func(), error) {
	var args []core.Value
	var pins []*heap.Root
	release := func() {
		for _, p := range pins {
			p.Release()
		}
	}
	for !heap.IsNil(list) {
		c, err := b.TryCons(list)
		if err != nil {
			release()
			return nil, nil, err
		}
		v, err := Eval(b, env, c.Car())
		if err != nil {
			release()
			return nil, nil, err
		}
		if rs := b.Roots(); rs != nil {
			pins = append(pins, rs.Push(v))
		}
		args = append(args, v)
		list = c.Cdr()
	}
	return args, release, nil
}

func evalSetq(b *heap.Block, env *heap.Env, pairs core.Value) (core.Value, error) {
	last := heap.Nil()
	for !heap.IsNil(pairs) {
		c, err := b.TryCons(pairs)
		if err != nil {
			return core.Value{}, err
		}
		sym, err := b.TrySymbol(c.Car())
		if err != nil {
			return core.Value{}, err
		}
		rest, err := b.TryCons(c.Cdr())
		if err != nil {
			return core.Value{}, &heap.UserError{Message: "setq: odd number of arguments"}
		}
		v, err := Eval(b, env, rest.Car())
		if err != nil {
			return core.Value{}, err
		}
		env.Set(sym.Ref(), v)
		last = v
		pairs = rest.Cdr()
	}
	return last, nil
}

func evalIf(b *heap.Block, env *heap.Env, forms core.Value) (core.Value, error) {
	c, err := b.TryCons(forms)
	if err != nil {
		return core.Value{}, &heap.UserError{Message: "if: missing condition"}
	}
	cond, err := Eval(b, env, c.Car())
	if err != nil {
		return core.Value{}, err
	}
	body, err := b.TryCons(c.Cdr())
	if err != nil {
		return core.Value{}, &heap.UserError{Message: "if: missing then branch"}
	}
	if !heap.IsNil(cond) {
		return Eval(b, env, body.Car())
	}
	return evalProgn(b, env, body.Cdr())
}

func evalProgn(b *heap.Block, env *heap.Env, forms core.Value) (core.Value, error) {
	last := heap.Nil()
	for !heap.IsNil(forms) {
		c, err := b.TryCons(forms)
		if err != nil {
			return core.Value{}, err
		}
		v, err := Eval(b, env, c.Car())
		if err != nil {
			return core.Value{}, err
		}
		last = v
		forms = c.Cdr()
	}
	return last, nil
}
