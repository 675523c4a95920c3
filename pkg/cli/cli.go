// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"os"

	"github.com/cockroachdb/optprops/pkg/util/log"
	"github.com/spf13/cobra"
)

// Proxy to allow overrides in tests.
var osStderr = os.Stderr

var planpropsCmd = &cobra.Command{
	Use:   "planprops [command] (flags)",
	Short: "derive logical properties of query plan DAGs",
	Long: `
Derive logical properties of query plans described by YAML plan definitions.
Each definition lists the groups of a plan DAG; see the plandag package for
the format.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false

	planpropsCmd.AddCommand(
		appliedCmd,
		checkCmd,
	)
}

// Main is the entry point for the planprops binary.
func Main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain runs the command with the given arguments, logs the error if it
// fails, and returns the exit code.
func runMain(args []string) int {
	if err := Run(args); err != nil {
		log.Errorf(context.Background(), "%v", err)
		return 1
	}
	return 0
}

// Run runs the command with the given arguments.
func Run(args []string) error {
	planpropsCmd.SetArgs(args)
	return planpropsCmd.Execute()
}
