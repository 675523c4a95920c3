// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package applied_test

// TestAppliedDataDriven runs the test files under testdata. Each file holds
// plan definitions followed by commands that print derived comparisons:
//
//  - define
//
//    Parses the input as a YAML plan definition (see the plandag package)
//    and makes it the current plan.
//
//  - memo
//
//    Prints the groups of the current plan reachable from its root.
//
//  - applied [root=<group>] [check-integrity]
//
//    Derives the applied comparisons of every group reachable from the root
//    of the current plan, or from the given group, and prints them under each
//    group.

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/optprops/pkg/sql/opt/applied"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"github.com/cockroachdb/optprops/pkg/sql/opt/plandag"
	"github.com/cockroachdb/optprops/pkg/sql/opt/props"
)

func TestAppliedDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var def *plandag.Definition
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "define":
				var err error
				def, err = plandag.Parse([]byte(d.Input))
				if err != nil {
					return fmt.Sprintf("error: %v\n", err)
				}
				return "ok\n"

			case "memo", "applied":
				if def == nil {
					d.Fatalf(t, "no plan defined")
				}
				root := def.Root
				if d.HasArg("root") {
					var name string
					d.ScanArgs(t, "root", &name)
					grp, ok := def.Group(name)
					if !ok {
						d.Fatalf(t, "unknown group %s", name)
					}
					root = grp.ID()
				}
				if d.Cmd == "memo" {
					return memo.FormatMemo(def.Memo, root, def.Name, nil)
				}

				var opts applied.Options
				opts.Derive.CheckIntegrity = d.HasArg("check-integrity")
				all, err := applied.AllComparisons(context.Background(), def.Memo, root, opts)
				if err != nil {
					return fmt.Sprintf("error: %v\n", err)
				}
				return memo.FormatMemo(def.Memo, root, def.Name, func(id memo.GroupID) string {
					return formatSet(all[id])
				})

			default:
				d.Fatalf(t, "unsupported command: %s", d.Cmd)
				return ""
			}
		})
	})
}

func formatSet(s props.ComparisonSet) string {
	return "applied: " + s.String()
}
