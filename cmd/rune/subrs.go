// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hesampakdaman/rune/internal/heap"
)

var subrsCmd = &cobra.Command{
	Use:   "subrs",
	Short: "list registered built-in functions",
	Run: func(cmd *cobra.Command, args []string) {
		t := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
		fmt.Fprintf(t, "name\trequired\toptional\trest\t\n")
		for _, s := range heap.Subrs() {
			a := s.Args()
			rest := ""
			if a.Rest {
				rest = "&rest"
			}
			fmt.Fprintf(t, "%s\t%d\t%d\t%s\t\n", s.Name(), a.Required, a.Optional, rest)
		}
		t.Flush()
	},
}

func init() {
	rootCmd.AddCommand(subrsCmd)
}
