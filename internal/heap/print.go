// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hesampakdaman/rune/internal/core"
)

// Print renders v in Emacs read syntax. Shared structure is printed
// repeatedly; a cell encountered again while still being printed
// (a cycle) renders as "...".
func Print(b *Block, v core.Value) string {
	var sb strings.Builder
	p := &printer{b: b, open: map[core.Value]bool{}}
	p.print(&sb, v)
	return sb.String()
}

type printer struct {
	b    *Block
	open map[core.Value]bool
}

func (p *printer) print(sb *strings.Builder, v core.Value) {
	switch v.Tag() {
	case core.Cons, core.Vec, core.Record, core.HashTable, core.ByteFn:
		if p.open[v] {
			sb.WriteString("...")
			return
		}
		p.open[v] = true
		defer delete(p.open, v)
	}

	switch o := p.b.Untag(v).(type) {
	case Int:
		sb.WriteString(strconv.FormatInt(int64(o), 10))
	case *Float:
		sb.WriteString(formatFloat(o.val))
	case *Symbol:
		sb.WriteString(o.name)
	case *Str:
		sb.WriteByte('"')
		for _, c := range o.data {
			switch c {
			case '"', '\\':
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('"')
	case *Cons:
		p.printList(sb, o)
	case *Record:
		sb.WriteString("#s(")
		for i, e := range o.elems {
			if i > 0 {
				sb.WriteByte(' ')
			}
			p.print(sb, e)
		}
		sb.WriteByte(')')
	case *Vector:
		sb.WriteByte('[')
		for i, e := range o.elems {
			if i > 0 {
				sb.WriteByte(' ')
			}
			p.print(sb, e)
		}
		sb.WriteByte(']')
	case *HashTable:
		sb.WriteString("#s(hash-table data (")
		first := true
		o.ForEach(func(k, val core.Value) bool {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			p.print(sb, k)
			sb.WriteByte(' ')
			p.print(sb, val)
			return true
		})
		sb.WriteString("))")
	case *ByteFn:
		fmt.Fprintf(sb, "#[%d %d", o.args.Required, o.args.Optional)
		for _, c := range o.consts {
			sb.WriteByte(' ')
			p.print(sb, c)
		}
		sb.WriteByte(']')
	case *SubrFn:
		sb.WriteString("#<subr " + o.name + ">")
	}
}

func (p *printer) printList(sb *strings.Builder, c *Cons) {
	// 'x sugar for (quote x).
	if car, ok := p.b.Untag(c.car).(*Symbol); ok && car.name == "quote" {
		if cdr, ok := p.b.Untag(c.cdr).(*Cons); ok && IsNil(cdr.cdr) {
			sb.WriteByte('\'')
			p.print(sb, cdr.car)
			return
		}
	}
	sb.WriteByte('(')
	p.print(sb, c.car)
	rest := c.cdr
	for {
		if IsNil(rest) {
			break
		}
		next, ok := p.b.Untag(rest).(*Cons)
		if !ok {
			sb.WriteString(" . ")
			p.print(sb, rest)
			break
		}
		if p.open[rest] {
			sb.WriteString(" ...")
			break
		}
		p.open[rest] = true
		defer delete(p.open, rest)
		sb.WriteByte(' ')
		p.print(sb, next.car)
		rest = next.cdr
	}
	sb.WriteByte(')')
}

// formatFloat prints floats the way the Lisp reader accepts them
// back: integral values below 1e16 in magnitude keep a trailing ".0";
// larger ones use exponent notation.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "0.0e+NaN"
	case math.IsInf(f, 1):
		return "1.0e+INF"
	case math.IsInf(f, -1):
		return "-1.0e+INF"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
