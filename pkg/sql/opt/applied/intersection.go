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

// intersectionComparisons returns the comparisons applied by all inputs of an
// intersection. A row returned by an intersection was returned by every
// input, so it satisfies what each input applies; but a comparison applied by
// only some inputs says nothing about rows that came through the others.
//
// An input without a value is treated as applying nothing, which makes the
// result empty.
func intersectionComparisons(e memo.RelExpr, in memo.RuleInput[props.ComparisonSet]) Value {
	if len(in.Children) == 0 {
		panic(errors.AssertionFailedf("%s must have at least one input", e.Op()))
	}
	var res props.ComparisonSet
	first, _ := in.Children[0].Get()
	res.UnionWith(first)
	for _, child := range in.Children[1:] {
		s, _ := child.Get()
		res.IntersectionWith(s)
	}
	return memo.MakeValue(res)
}
