// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

// This file is home to TestOpt, a data-driven test of the textual form of
// comparisons and operators.
//
// Each testfile contains testcases of the form
//   <command> [arg | arg=val]...
//   <input>
//   ----
//   <expected results>
//
// The supported commands are:
//
//  - parse
//
//    Parses each input line as a comparison and prints its parts, or the
//    parse error.
//
//  - round-trip
//
//    Parses each input line as a comparison and prints it back.
//
//  - operator
//
//    Looks up each input line as an operator name and prints the operator
//    and whether it is an intersection.

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

func TestOpt(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			var buf strings.Builder
			for _, line := range strings.Split(d.Input, "\n") {
				switch d.Cmd {
				case "parse":
					c, err := ParseComparison(line)
					if err != nil {
						fmt.Fprintf(&buf, "error: %v\n", err)
						continue
					}
					fmt.Fprintf(&buf, "column=%s type=%s operand=%q\n", c.Column, c.Type, c.Operand)

				case "round-trip":
					c, err := ParseComparison(line)
					if err != nil {
						d.Fatalf(t, "%v", err)
					}
					fmt.Fprintf(&buf, "%s\n", c)

				case "operator":
					op, ok := OperatorByName(line)
					if !ok {
						fmt.Fprintf(&buf, "%s: unknown\n", line)
						continue
					}
					fmt.Fprintf(&buf, "%s: intersection=%t\n", op, IsIntersectionOp(op))

				default:
					d.Fatalf(t, "unsupported command: %s", d.Cmd)
				}
			}
			return buf.String()
		})
	})
}
