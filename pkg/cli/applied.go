// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/optprops/pkg/sql/opt/applied"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"github.com/cockroachdb/optprops/pkg/sql/opt/plandag"
	"github.com/cockroachdb/optprops/pkg/sql/opt/props"
	"github.com/cockroachdb/optprops/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var appliedCmd = &cobra.Command{
	Use:   "applied <plan.yaml>",
	Short: "show the comparisons applied by each group of a plan",
	Long: `
Derive the comparisons applied by the root group of the plan and by every
group reachable from it, and print them.
`,
	Args: cobra.ExactArgs(1),
	RunE: runApplied,
}

func runApplied(cmd *cobra.Command, args []string) error {
	ctx := logtags.AddTag(context.Background(), "plan", args[0])
	def, err := loadPlan(ctx, args[0])
	if err != nil {
		return err
	}

	opts := applied.Options{Derive: memo.DeriveOptions{CheckIntegrity: cliCtx.checkIntegrity}}
	var reg *prometheus.Registry
	if cliCtx.metrics {
		reg = prometheus.NewRegistry()
		if opts.Derive.Metrics, err = memo.NewDeriveMetrics(reg); err != nil {
			return err
		}
	}

	res, err := applied.AllComparisons(ctx, def.Memo, def.Root, opts)
	if err != nil {
		return errors.Wrap(err, log.FormatWithContextTags(ctx, "deriving applied comparisons"))
	}
	log.VEventf(ctx, 1, "derived applied comparisons for %d groups", len(res))
	if n := def.Memo.GroupCount() - len(res); n > 0 {
		log.Warningf(ctx, "groups not reachable from root %s: %d", def.Name(def.Root), n)
	}

	w := cmd.OutOrStdout()
	annotate := func(id memo.GroupID) string {
		if s, ok := res[id]; ok {
			return "applied: " + s.String()
		}
		return ""
	}
	switch cliCtx.format {
	case displayFormatText:
		fmt.Fprint(w, memo.FormatMemo(def.Memo, def.Root, def.Name, annotate))

	case displayFormatTable:
		printTable(w, []string{"group", "members", "applied"}, appliedRows(def, res))

	case displayFormatDot:
		fmt.Fprintln(w, memo.DotGraph(def.Memo, def.Root, def.Name, annotate))
	}

	if reg != nil {
		return writeMetrics(w, reg)
	}
	return nil
}

// loadPlan loads the plan definition in the given file.
func loadPlan(ctx context.Context, path string) (*plandag.Definition, error) {
	def, err := plandag.Load(path)
	if err != nil {
		return nil, err
	}
	log.Infof(ctx, "loaded %d groups", def.Memo.GroupCount())
	return def, nil
}

// appliedRows returns one row per derived group, in group order.
func appliedRows(def *plandag.Definition, res map[memo.GroupID]props.ComparisonSet) [][]string {
	rows := make([][]string, 0, len(res))
	for id := memo.GroupID(1); int(id) <= def.Memo.GroupCount(); id++ {
		s, ok := res[id]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			def.Name(id),
			strconv.Itoa(def.Memo.Group(id).MemberCount()),
			s.String(),
		})
	}
	return rows
}

// writeMetrics writes the metrics gathered by reg in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "encoding metrics")
		}
	}
	return nil
}
