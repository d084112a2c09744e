// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtin registers the built-in function library. Importing
// it installs every subr into the process-wide registry; the
// functions themselves go through the same projection and call paths
// as any other caller of the heap.
package builtin

import (
	"strings"

	"github.com/hesampakdaman/rune/internal/casefiddle"
	"github.com/hesampakdaman/rune/internal/core"
	"github.com/hesampakdaman/rune/internal/heap"
)

func init() {
	reg := func(name string, required, optional uint16, rest bool, fn heap.BuiltInFn) {
		heap.RegisterSubr(name, required, optional, rest, fn)
	}

	reg("car", 1, 0, false, car)
	reg("cdr", 1, 0, false, cdr)
	reg("cons", 2, 0, false, consFn)
	reg("list", 0, 0, true, listFn)
	reg("length", 1, 0, false, length)
	reg("nth", 2, 0, false, nth)
	reg("eq", 2, 0, false, eqFn)
	reg("eql", 2, 0, false, eqlFn)
	reg("equal", 2, 0, false, equalFn)
	reg("null", 1, 0, false, nullFn)
	reg("not", 1, 0, false, nullFn)
	reg("+", 0, 0, true, plus)
	reg("-", 0, 1, true, minus)
	reg("*", 0, 0, true, times)
	reg("1+", 1, 0, false, add1)
	reg("vector", 0, 0, true, vectorFn)
	reg("aref", 2, 0, false, aref)
	reg("make-hash-table", 0, 0, true, makeHashTable)
	reg("puthash", 3, 0, false, puthash)
	reg("gethash", 2, 1, false, gethash)
	reg("upcase", 1, 0, false, upcase)
	reg("downcase", 1, 0, false, downcase)
	reg("capitalize", 1, 0, false, capitalize)
	reg("concat", 0, 0, true, concat)
	reg("symbol-name", 1, 0, false, symbolName)
	reg("intern", 1, 0, false, intern)
	reg("error", 1, 0, true, errorFn)
}

func car(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	l, err := b.TryList(args[0])
	if err != nil {
		return core.Value{}, err
	}
	if c, ok := l.(*heap.Cons); ok {
		return c.Car(), nil
	}
	return heap.Nil(), nil
}

func cdr(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	l, err := b.TryList(args[0])
	if err != nil {
		return core.Value{}, err
	}
	if c, ok := l.(*heap.Cons); ok {
		return c.Cdr(), nil
	}
	return heap.Nil(), nil
}

func consFn(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	return b.Cons(args[0], args[1]), nil
}

func listFn(args []core.Value, _ *heap.Env, _ *heap.Block) (core.Value, error) {
	// The call convention already built the rest list.
	return args[0], nil
}

func length(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	switch o := b.Untag(args[0]).(type) {
	case *heap.Str:
		return core.MakeInt(int64(o.Len())), nil
	case *heap.Vector:
		return core.MakeInt(int64(o.Len())), nil
	case *heap.Record:
		return core.MakeInt(int64(o.Len())), nil
	}
	n := int64(0)
	v := args[0]
	for !heap.IsNil(v) {
		c, err := b.TryCons(v)
		if err != nil {
			return core.Value{}, &heap.TypeError{Expected: "list", Actual: b.Untag(args[0])}
		}
		n++
		v = c.Cdr()
	}
	return core.MakeInt(n), nil
}

func nth(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	n, err := b.TryInt(args[0])
	if err != nil {
		return core.Value{}, err
	}
	v := args[1]
	for ; n > 0; n-- {
		l, err := b.TryList(v)
		if err != nil {
			return core.Value{}, err
		}
		c, ok := l.(*heap.Cons)
		if !ok {
			return heap.Nil(), nil
		}
		v = c.Cdr()
	}
	l, err := b.TryList(v)
	if err != nil {
		return core.Value{}, err
	}
	if c, ok := l.(*heap.Cons); ok {
		return c.Car(), nil
	}
	return heap.Nil(), nil
}

func eqFn(args []core.Value, _ *heap.Env, _ *heap.Block) (core.Value, error) {
	return heap.FromBool(heap.Eq(args[0], args[1])), nil
}

func eqlFn(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	return heap.FromBool(b.Eql(args[0], args[1])), nil
}

func equalFn(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	return heap.FromBool(b.Equal(args[0], args[1])), nil
}

func nullFn(args []core.Value, _ *heap.Env, _ *heap.Block) (core.Value, error) {
	return heap.FromBool(heap.IsNil(args[0])), nil
}

// number accumulates int/float arithmetic, promoting to float as soon
// as one operand is a float.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func (n number) value(b *heap.Block) core.Value {
	if n.isFloat {
		return b.Float(n.f)
	}
	return core.MakeInt(n.i)
}

func toNumber(b *heap.Block, v core.Value) (number, error) {
	nv, err := b.TryNumber(v)
	if err != nil {
		return number{}, err
	}
	switch x := nv.(type) {
	case heap.Int:
		return number{i: int64(x)}, nil
	case *heap.Float:
		return number{f: x.Val(), isFloat: true}, nil
	}
	return number{}, nil
}

func (n number) combine(m number, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) number {
	if n.isFloat || m.isFloat {
		a, c := n.f, m.f
		if !n.isFloat {
			a = float64(n.i)
		}
		if !m.isFloat {
			c = float64(m.i)
		}
		return number{f: floatOp(a, c), isFloat: true}
	}
	return number{i: intOp(n.i, m.i)}
}

func reduceRest(b *heap.Block, acc number, rest core.Value,
	intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (core.Value, error) {
	for !heap.IsNil(rest) {
		c, err := b.TryCons(rest)
		if err != nil {
			return core.Value{}, err
		}
		m, err := toNumber(b, c.Car())
		if err != nil {
			return core.Value{}, err
		}
		acc = acc.combine(m, intOp, floatOp)
		rest = c.Cdr()
	}
	return acc.value(b), nil
}

func addInt(a, b int64) int64       { return a + b }
func addFloat(a, b float64) float64 { return a + b }
func subInt(a, b int64) int64       { return a - b }
func subFloat(a, b float64) float64 { return a - b }
func mulInt(a, b int64) int64       { return a * b }
func mulFloat(a, b float64) float64 { return a * b }

func plus(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	return reduceRest(b, number{}, args[0], addInt, addFloat)
}

func minus(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	if heap.IsNil(args[0]) {
		return core.MakeInt(0), nil
	}
	acc, err := toNumber(b, args[0])
	if err != nil {
		return core.Value{}, err
	}
	if heap.IsNil(args[1]) {
		// Unary minus negates.
		return acc.combine(acc, func(a, _ int64) int64 { return -a },
			func(a, _ float64) float64 { return -a }).value(b), nil
	}
	return reduceRest(b, acc, args[1], subInt, subFloat)
}

func times(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	return reduceRest(b, number{i: 1}, args[0], mulInt, mulFloat)
}

func add1(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	n, err := toNumber(b, args[0])
	if err != nil {
		return core.Value{}, err
	}
	return n.combine(number{i: 1}, addInt, addFloat).value(b), nil
}

func vectorFn(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	var elems []core.Value
	rest := args[0]
	for !heap.IsNil(rest) {
		c, err := b.TryCons(rest)
		if err != nil {
			return core.Value{}, err
		}
		elems = append(elems, c.Car())
		rest = c.Cdr()
	}
	return b.Vec(elems...), nil
}

func aref(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	idx, err := b.TryInt(args[1])
	if err != nil {
		return core.Value{}, err
	}
	switch o := b.Untag(args[0]).(type) {
	case *heap.Vector:
		if idx < 0 || idx >= int64(o.Len()) {
			return core.Value{}, &heap.UserError{Message: "args out of range"}
		}
		return o.At(int(idx)), nil
	case *heap.Record:
		if idx < 0 || idx >= int64(o.Len()) {
			return core.Value{}, &heap.UserError{Message: "args out of range"}
		}
		return o.At(int(idx)), nil
	case *heap.Str:
		if idx < 0 || idx >= int64(o.Len()) {
			return core.Value{}, &heap.UserError{Message: "args out of range"}
		}
		return core.MakeInt(int64(o.Bytes()[idx])), nil
	}
	return core.Value{}, &heap.TypeError{Expected: "vector", Actual: b.Untag(args[0])}
}

func makeHashTable(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	// Keyword arguments (:test, :size, ...) are accepted and ignored:
	// tables key by value identity.
	return b.HashTable(), nil
}

func puthash(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	ht, err := b.TryHashTable(args[2])
	if err != nil {
		return core.Value{}, err
	}
	ht.Put(b, args[0], args[1])
	return args[1], nil
}

func gethash(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	ht, err := b.TryHashTable(args[1])
	if err != nil {
		return core.Value{}, err
	}
	if v, ok := ht.Get(args[0]); ok {
		return v, nil
	}
	return args[2], nil // default, nil when omitted
}

func caseFn(conv func(string) string, convChar func(rune) rune) heap.BuiltInFn {
	return func(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
		switch o := b.Untag(args[0]).(type) {
		case *heap.Str:
			return b.String(conv(o.String())), nil
		case heap.Int:
			return core.MakeInt(int64(convChar(rune(o)))), nil
		}
		return core.Value{}, &heap.TypeError{Expected: "string", Actual: b.Untag(args[0])}
	}
}

var (
	upcase     = caseFn(casefiddle.Upcase, casefiddle.UpcaseChar)
	downcase   = caseFn(casefiddle.Downcase, casefiddle.DowncaseChar)
	capitalize = caseFn(casefiddle.Capitalize, casefiddle.CapitalizeChar)
)

func concat(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	var sb strings.Builder
	rest := args[0]
	for !heap.IsNil(rest) {
		c, err := b.TryCons(rest)
		if err != nil {
			return core.Value{}, err
		}
		if !heap.IsNil(c.Car()) {
			s, err := b.TryString(c.Car())
			if err != nil {
				return core.Value{}, err
			}
			sb.Write(s.Bytes())
		}
		rest = c.Cdr()
	}
	return b.String(sb.String()), nil
}

func symbolName(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	s, err := b.TrySymbol(args[0])
	if err != nil {
		return core.Value{}, err
	}
	return b.String(s.Name()), nil
}

func intern(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	s, err := b.TryString(args[0])
	if err != nil {
		return core.Value{}, err
	}
	return b.Intern(s.String()), nil
}

func errorFn(args []core.Value, _ *heap.Env, b *heap.Block) (core.Value, error) {
	s, err := b.TryString(args[0])
	if err != nil {
		return core.Value{}, err
	}
	return core.Value{}, &heap.UserError{Message: s.String()}
}
