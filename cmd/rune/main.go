// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The rune command hosts the rune Lisp runtime core. With a terminal
// on stdin it starts an interactive prompt; on a pipe it speaks the
// framed eval protocol used by the differential-testing driver.
// Run "rune help" for a list of commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hesampakdaman/rune/internal/builtin"
	"github.com/hesampakdaman/rune/internal/heap"
	"github.com/hesampakdaman/rune/internal/sexp"
)

var rootCmd = &cobra.Command{
	Use:   "rune",
	Short: "host for the rune Lisp runtime core",
	Long: `rune hosts the rune Lisp runtime core: a tagged-value heap with a
mark/sweep collector and a built-in function library.

Without arguments it starts a REPL when stdin is a terminal and
otherwise reads the framed eval-stdin protocol.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stdinIsTerminal() {
			return runRepl()
		}
		return runEvalStdin()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitf("%v\n", err)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// A session is one heap with its roots and global bindings.
type session struct {
	rs  *heap.RootSet
	b   *heap.Block
	env *heap.Env
}

func newSession() *session {
	rs := heap.NewRootSet()
	return &session{
		rs:  rs,
		b:   heap.New(rs),
		env: heap.NewEnv(rs),
	}
}

// evalString reads, evaluates and prints one expression.
func (s *session) evalString(src string) (string, error) {
	form, err := sexp.Read(s.b, src)
	if err != nil {
		return "", err
	}
	pin := s.rs.Push(form)
	defer pin.Release()
	v, err := builtin.Eval(s.b, s.env, form)
	if err != nil {
		return "", err
	}
	return heap.Print(s.b, v), nil
}
