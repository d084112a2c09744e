// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hesampakdaman/rune/internal/elprop"
)

var evalStdinCmd = &cobra.Command{
	Use:   "eval-stdin",
	Short: "evaluate framed expressions from stdin in order",
	Long: `eval-stdin reads ";; ELPROP_START"-framed expressions from standard
input and answers each with an identically framed result carrying the
matching counter. Evaluation errors are reported in-band with an
"Error: " prefix so the driver can flag them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvalStdin()
	},
}

func init() {
	rootCmd.AddCommand(evalStdinCmd)
}

func runEvalStdin() error {
	return evalLoop(os.Stdin, os.Stdout)
}

func evalLoop(r io.Reader, w io.Writer) error {
	s := newSession()
	in := elprop.NewScanner(r)
	out := elprop.NewWriter(w)
	for {
		f, err := in.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		body, err := s.evalString(f.Body)
		if err != nil {
			body = "Error: " + err.Error()
		}
		if err := out.Write(body); err != nil {
			return err
		}
	}
}
