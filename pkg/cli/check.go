// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <plan.yaml>",
	Short: "verify a plan definition",
	Long: `
Load a plan definition and check that the plan reachable from its root is
acyclic and well formed.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logtags.AddTag(context.Background(), "plan", args[0])
		def, err := loadPlan(ctx, args[0])
		if err != nil {
			return err
		}
		if err := def.Memo.Verify(def.Root); err != nil {
			return errors.Wrapf(err, "%s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d groups\n", def.Memo.GroupCount())
		return nil
	},
}
