// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package applied

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"github.com/cockroachdb/optprops/pkg/sql/opt/props"
)

// scoreForRankComparisons returns the rank boundaries translated by a
// score-for-rank expression. The comparisons applied by its input are not
// included.
func scoreForRankComparisons(e memo.RelExpr, _ memo.RuleInput[props.ComparisonSet]) Value {
	rank := e.(*memo.ScoreForRankExpr)
	var res props.ComparisonSet
	for i := range rank.Ranks {
		res.AddAll(rank.Ranks[i].Comparisons)
	}
	return memo.MakeValue(res)
}

// textIndexScanComparisons returns the comparisons applied by a text index
// scan: the equality and inequality comparisons on the grouping columns, if
// the scan is restricted to some groups, and the text predicate.
func textIndexScanComparisons(e memo.RelExpr, _ memo.RuleInput[props.ComparisonSet]) Value {
	scan := e.(*memo.TextIndexScanExpr)
	if scan.Text.IsZero() {
		panic(errors.AssertionFailedf("%s on index %q has no text comparison", e.Op(), scan.Index))
	}
	var res props.ComparisonSet
	if scan.Grouping != nil {
		res.AddAll(scan.Grouping.Equality)
		res.AddAll(scan.Grouping.Inequality)
	}
	res.Add(scan.Text)
	return memo.MakeValue(res)
}
