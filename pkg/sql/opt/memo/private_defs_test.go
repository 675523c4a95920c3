// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo_test

import (
	"testing"

	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"github.com/stretchr/testify/require"
)

func TestScanPrivate(t *testing.T) {
	a1 := opt.MakeComparison(opt.EqualsComparison, "a", "1")

	scan := &memo.ScanExpr{}
	require.False(t, scan.HasComparisons())
	require.Empty(t, scan.Comparisons())

	idx := &memo.IndexScanExpr{ScanPrivate: memo.ScanPrivate{
		Index:           "idx_a",
		ScanComparisons: []opt.Comparison{a1},
	}}
	require.True(t, idx.HasComparisons())
	require.Equal(t, []opt.Comparison{a1}, idx.Comparisons())

	var wc memo.WithComparisons = idx
	require.Equal(t, opt.IndexScanOp, wc.Op())
}

func TestUnwrap(t *testing.T) {
	idx := &memo.IndexScanExpr{}
	require.Same(t, idx, memo.Unwrap(idx))
	require.Same(t, idx, memo.Unwrap(&memo.CoveringIndexExpr{Index: idx}))
	require.Same(t, idx, memo.Unwrap(&memo.CoveringIndexExpr{
		Index: &memo.CoveringIndexExpr{Index: idx},
	}))

	empty := &memo.CoveringIndexExpr{}
	require.Same(t, empty, memo.Unwrap(empty))
}

func TestExprChildren(t *testing.T) {
	m := memo.New()
	a := m.AddGroup(&memo.ScanExpr{})
	b := m.AddGroup(&memo.ScanExpr{})

	exprs := []memo.RelExpr{
		&memo.IntersectionOnKeysExpr{Inputs: []*memo.Group{a, b}},
		&memo.IntersectionOnValuesExpr{Inputs: []*memo.Group{a, b}},
		memo.NewUnion(a, b),
		&memo.SetExpr{Operator: opt.UnorderedUnionOp, Inputs: []*memo.Group{a, b}},
	}
	for _, e := range exprs {
		require.Equal(t, 2, e.ChildCount(), "%s", e.Op())
		require.Same(t, a, e.Child(0))
		require.Same(t, b, e.Child(1))
	}

	unary := []memo.RelExpr{
		memo.NewFilter(a),
		memo.NewUnary(opt.SortOp, a),
		&memo.ScoreForRankExpr{Input: a},
	}
	for _, e := range unary {
		require.Equal(t, 1, e.ChildCount(), "%s", e.Op())
		require.Same(t, a, e.Child(0))
		require.Panics(t, func() { e.Child(1) })
	}

	leaves := []memo.RelExpr{
		&memo.ScanExpr{},
		&memo.IndexScanExpr{},
		&memo.CoveringIndexExpr{Index: &memo.IndexScanExpr{}},
		&memo.TextIndexScanExpr{},
	}
	for _, e := range leaves {
		require.Equal(t, 0, e.ChildCount(), "%s", e.Op())
		require.Panics(t, func() { e.Child(0) })
	}
}
