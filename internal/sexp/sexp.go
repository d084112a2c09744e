// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sexp reads textual s-expressions into heap values. It is
// the input half of the runtime's eval surface; printing lives with
// the heap, next to the objects it renders.
package sexp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hesampakdaman/rune/internal/core"
	"github.com/hesampakdaman/rune/internal/heap"
)

// A SyntaxError reports malformed input and where it starts.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at offset %d: %s", e.Pos, e.Msg)
}

// Read parses exactly one expression from src into values allocated
// from b. Everything built along the way is rooted until Read
// returns, so parsing arbitrarily deep input is safe across
// collections.
func Read(b *heap.Block, src string) (core.Value, error) {
	r := &reader{b: b, rs: b.Roots(), src: src}
	defer r.unpin()
	v, err := r.parse()
	if err != nil {
		return core.Value{}, err
	}
	r.skipSpace()
	if r.pos != len(r.src) {
		return core.Value{}, r.errorf("trailing characters after expression")
	}
	return v, nil
}

type reader struct {
	b    *heap.Block
	rs   *heap.RootSet
	src  string
	pos  int
	pins []*heap.Root
}

// pin roots v for the duration of the read.
func (r *reader) pin(v core.Value) {
	if r.rs != nil {
		r.pins = append(r.pins, r.rs.Push(v))
	}
}

func (r *reader) unpin() {
	for _, p := range r.pins {
		p.Release()
	}
}

func (r *reader) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: r.pos, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) skipSpace() {
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			r.pos++
		case ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

func (r *reader) parse() (core.Value, error) {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return core.Value{}, r.errorf("unexpected end of input")
	}
	switch c := r.src[r.pos]; c {
	case '(':
		r.pos++
		return r.parseList()
	case '[':
		r.pos++
		return r.parseVector()
	case '\'':
		r.pos++
		v, err := r.parse()
		if err != nil {
			return core.Value{}, err
		}
		r.pin(v)
		q := r.b.Intern("quote")
		r.pin(q)
		return r.b.List(q, v), nil
	case '"':
		r.pos++
		return r.parseString()
	case ')', ']':
		return core.Value{}, r.errorf("unexpected %q", c)
	default:
		return r.parseAtom()
	}
}

func (r *reader) parseList() (core.Value, error) {
	var elems []core.Value
	tail := heap.Nil()
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return core.Value{}, r.errorf("unterminated list")
		}
		if r.src[r.pos] == ')' {
			r.pos++
			break
		}
		if r.src[r.pos] == '.' && r.isDelimited(r.pos+1) && len(elems) > 0 {
			r.pos++
			t, err := r.parse()
			if err != nil {
				return core.Value{}, err
			}
			r.pin(t)
			tail = t
			r.skipSpace()
			if r.pos >= len(r.src) || r.src[r.pos] != ')' {
				return core.Value{}, r.errorf("expected ) after dotted tail")
			}
			r.pos++
			break
		}
		v, err := r.parse()
		if err != nil {
			return core.Value{}, err
		}
		r.pin(v)
		elems = append(elems, v)
	}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = r.b.Cons(elems[i], tail)
		r.pin(tail)
	}
	return tail, nil
}

func (r *reader) parseVector() (core.Value, error) {
	var elems []core.Value
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return core.Value{}, r.errorf("unterminated vector")
		}
		if r.src[r.pos] == ']' {
			r.pos++
			return r.b.Vec(elems...), nil
		}
		v, err := r.parse()
		if err != nil {
			return core.Value{}, err
		}
		r.pin(v)
		elems = append(elems, v)
	}
}

func (r *reader) parseString() (core.Value, error) {
	var sb strings.Builder
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		r.pos++
		switch c {
		case '"':
			return r.b.String(sb.String()), nil
		case '\\':
			if r.pos >= len(r.src) {
				return core.Value{}, r.errorf("unterminated escape")
			}
			e := r.src[r.pos]
			r.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return core.Value{}, r.errorf("unterminated string")
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '(', ')', '[', ']', '"', ';', '\'':
		return true
	}
	return false
}

func (r *reader) isDelimited(pos int) bool {
	return pos >= len(r.src) || isDelimiter(r.src[pos])
}

func (r *reader) parseAtom() (core.Value, error) {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	tok := r.src[start:r.pos]
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return core.MakeInt(n), nil
	}
	if strings.ContainsAny(tok, ".eE0123456789") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return r.b.Float(f), nil
		}
	}
	return r.b.Intern(tok), nil
}
