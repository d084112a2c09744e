// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrReadOnly is the panic value raised when a mutating operation is
// attempted on a read-only block.
var ErrReadOnly = errors.New("heap: mutation of read-only block")

// A TypeError reports a failed projection: the value's tag was not in
// the accepted set. It carries the offending object so the caller can
// render it.
type TypeError struct {
	Expected string // name of the accepted subset, e.g. "number"
	Actual   Object
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("wrong type argument: expected %s, got %s", e.Expected, describe(e.Actual))
}

// describe renders an object without access to its block, so it stays
// shallow: scalars print their payload, aggregates their type name.
func describe(o Object) string {
	switch x := o.(type) {
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case *Float:
		return formatFloat(x.Val())
	case *Symbol:
		return x.Name()
	case *SubrFn:
		return "#<subr " + x.Name() + ">"
	case nil:
		return "<nil>"
	default:
		return "a " + o.Ref().Tag().String()
	}
}

// An ArgCountError reports a call with too few or too many arguments.
type ArgCountError struct {
	Expected uint16
	Actual   uint16
	Name     string
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("wrong number of arguments: %s expects %d, got %d", e.Name, e.Expected, e.Actual)
}

// A UserError is a domain-specific failure raised by a built-in
// function body.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// fatalf panics. Corrupted tags, references to dead cells and
// exhausted memory are invariant violations the runtime does not try
// to recover from.
func fatalf(format string, args ...any) {
	panic(fmt.Sprintf("heap: "+format, args...))
}
