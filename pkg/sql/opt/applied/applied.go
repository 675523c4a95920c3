// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package applied derives the set of comparisons already applied by a plan.
//
// A comparison is applied by a plan if every row the plan returns is known to
// satisfy it because some scan in the plan used it to bound the scanned range.
// The planner uses the property to avoid evaluating the same predicate again
// in a filter above the plan.
//
// The property is derived bottom-up over a memo. By default an expression
// applies the union of what its inputs apply, plus the comparisons it applies
// itself if it is a scan. A few operators override the default:
//
//   - intersections apply only what all of their inputs apply;
//   - score-for-rank applies the rank boundaries it translates, and nothing
//     from its input;
//   - text index scans apply their grouping comparisons and text predicate.
//
// A group applies the union of what its members apply.
package applied

import (
	"context"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"github.com/cockroachdb/optprops/pkg/sql/opt/props"
	"github.com/cockroachdb/optprops/pkg/util/log"
)

// Value is the derived value of the applied comparisons property.
type Value = memo.Value[props.ComparisonSet]

// Options configures derivation of the property.
type Options struct {
	Derive memo.DeriveOptions
}

// Comparisons returns the comparisons applied by the group with the given ID.
// It panics with an assertion failure if the memo violates a contract of the
// derivation, for example if it contains a cycle or an intersection without
// inputs. Use TryComparisons to get an error instead.
func Comparisons(ctx context.Context, m *memo.Memo, root memo.GroupID) props.ComparisonSet {
	return comparisons(ctx, m, root, Options{})
}

// ExprComparisons returns the comparisons applied by a single expression,
// which does not need to be a member of a group. Its inputs must belong to m.
func ExprComparisons(ctx context.Context, m *memo.Memo, e memo.RelExpr) props.ComparisonSet {
	return exprComparisons(ctx, m, e, Options{})
}

// TryComparisons is like Comparisons, but returns contract violations as
// errors.
func TryComparisons(
	ctx context.Context, m *memo.Memo, root memo.GroupID, opts Options,
) (_ props.ComparisonSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	return comparisons(ctx, m, root, opts), nil
}

// TryExprComparisons is like ExprComparisons, but returns contract violations
// as errors.
func TryExprComparisons(
	ctx context.Context, m *memo.Memo, e memo.RelExpr, opts Options,
) (_ props.ComparisonSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	return exprComparisons(ctx, m, e, opts), nil
}

// AllComparisons derives the property for root and returns the comparisons
// applied by root and by every group reachable from it, keyed by group ID.
func AllComparisons(
	ctx context.Context, m *memo.Memo, root memo.GroupID, opts Options,
) (_ map[memo.GroupID]props.ComparisonSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = opt.CatchOptimizerError(r)
		}
	}()
	ctx = logtags.AddTag(ctx, "applied", nil)
	d := NewDeriver(m, opts)
	d.Group(ctx, m.Group(root))

	res := make(map[memo.GroupID]props.ComparisonSet)
	for id := 1; id <= m.GroupCount(); id++ {
		if v, ok := d.Lookup(m.Group(memo.GroupID(id))); ok {
			s, _ := v.Get()
			res[memo.GroupID(id)] = s
		}
	}
	return res, nil
}

// NewDeriver returns a Deriver for the property over m. A Deriver memoizes the
// value of every group it derives, so it is the cheapest way to query several
// groups of the same memo.
func NewDeriver(m *memo.Memo, opts Options) *memo.Deriver[props.ComparisonSet] {
	return memo.NewDeriver[props.ComparisonSet](m, property{}, &ruleSet, opts.Derive)
}

func comparisons(
	ctx context.Context, m *memo.Memo, root memo.GroupID, opts Options,
) props.ComparisonSet {
	ctx = logtags.AddTag(ctx, "applied", nil)
	v := memo.Derive[props.ComparisonSet](ctx, m, root, property{}, &ruleSet, opts.Derive)
	s, _ := v.Get()
	log.VEventf(ctx, 2, "group %d applies %s", root, s)
	return s
}

func exprComparisons(
	ctx context.Context, m *memo.Memo, e memo.RelExpr, opts Options,
) props.ComparisonSet {
	ctx = logtags.AddTag(ctx, "applied", nil)
	v := memo.DeriveExpr[props.ComparisonSet](ctx, m, e, property{}, &ruleSet, opts.Derive)
	// An absent result means nothing is known to be applied.
	s, _ := v.Get()
	log.VEventf(ctx, 2, "%s applies %s", e.Op(), s)
	return s
}

// property implements memo.Property for applied comparisons.
type property struct{}

var _ memo.Property[props.ComparisonSet] = property{}

// Combine is the default rule: the union of the available input values plus
// the comparisons applied by the expression itself. A covering index plan
// applies what the index plan it wraps applies.
func (property) Combine(e memo.RelExpr, children []Value) Value {
	var res props.ComparisonSet
	for _, child := range children {
		if s, ok := child.Get(); ok {
			res.UnionWith(s)
		}
	}
	if wc, ok := memo.Unwrap(e).(memo.WithComparisons); ok && wc.HasComparisons() {
		res.AddAll(wc.Comparisons())
	}
	return memo.MakeValue(res)
}

// Aggregate returns the union of the available member values. A group with no
// members applies nothing.
func (property) Aggregate(_ *memo.Group, members []Value) Value {
	var res props.ComparisonSet
	for _, member := range members {
		if s, ok := member.Get(); ok {
			res.UnionWith(s)
		}
	}
	return memo.MakeValue(res)
}

// ruleSet holds the operators that override the default rule.
var ruleSet memo.RuleSet[props.ComparisonSet]

func init() {
	ruleSet.Set(opt.IntersectionOnKeysOp, intersectionComparisons)
	ruleSet.Set(opt.IntersectionOnValuesOp, intersectionComparisons)
	ruleSet.Set(opt.ScoreForRankOp, scoreForRankComparisons)
	ruleSet.Set(opt.TextIndexScanOp, textIndexScanComparisons)
}
