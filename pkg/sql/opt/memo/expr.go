// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
)

// RelExpr is a plan expression: one alternative realization stored in a memo
// group. An expression never owns another expression directly; its inputs are
// groups, which may be shared with any number of other expressions. This is
// what turns the memo into a DAG.
//
// The operators defined in the opt package are implemented by the expression
// types in this file, but any type implementing RelExpr can be added to a
// memo. Property derivation treats unknown operators with its default rule.
type RelExpr interface {
	// Op returns the operator of the expression.
	Op() opt.Operator

	// ChildCount returns the number of input groups of the expression.
	ChildCount() int

	// Child returns the nth input group of the expression.
	Child(nth int) *Group
}

// WithComparisons is implemented by expressions that apply comparisons while
// scanning, such as primary key and index scans.
type WithComparisons interface {
	RelExpr

	// HasComparisons returns true if the expression applies any comparisons.
	HasComparisons() bool

	// Comparisons returns the comparisons applied by the expression.
	Comparisons() []opt.Comparison
}

// ScanExpr scans records by primary key.
type ScanExpr struct {
	ScanPrivate
}

var _ WithComparisons = &ScanExpr{}

// Op is part of the RelExpr interface.
func (e *ScanExpr) Op() opt.Operator { return opt.ScanOp }

// ChildCount is part of the RelExpr interface.
func (e *ScanExpr) ChildCount() int { return 0 }

// Child is part of the RelExpr interface.
func (e *ScanExpr) Child(nth int) *Group { panic(errors.AssertionFailedf("scan has no children")) }

// IndexScanExpr scans a secondary index.
type IndexScanExpr struct {
	ScanPrivate
}

var _ WithComparisons = &IndexScanExpr{}

// Op is part of the RelExpr interface.
func (e *IndexScanExpr) Op() opt.Operator { return opt.IndexScanOp }

// ChildCount is part of the RelExpr interface.
func (e *IndexScanExpr) ChildCount() int { return 0 }

// Child is part of the RelExpr interface.
func (e *IndexScanExpr) Child(nth int) *Group {
	panic(errors.AssertionFailedf("index scan has no children"))
}

// CoveringIndexExpr answers a query using only data stored in an index. It
// wraps the index plan it covers; the wrapped plan is not an input group but
// part of the expression itself. The children of the wrapper are the children
// of the wrapped plan.
type CoveringIndexExpr struct {
	// Index is the wrapped index plan, usually an *IndexScanExpr.
	Index RelExpr
}

// Op is part of the RelExpr interface.
func (e *CoveringIndexExpr) Op() opt.Operator { return opt.CoveringIndexOp }

// ChildCount is part of the RelExpr interface.
func (e *CoveringIndexExpr) ChildCount() int {
	if e.Index == nil {
		return 0
	}
	return e.Index.ChildCount()
}

// Child is part of the RelExpr interface.
func (e *CoveringIndexExpr) Child(nth int) *Group {
	if e.Index == nil {
		panic(errors.AssertionFailedf("covering index has no index plan"))
	}
	return e.Index.Child(nth)
}

// Unwrap returns the innermost plan wrapped by a chain of covering index
// expressions, or e itself if it is not a covering index expression.
func Unwrap(e RelExpr) RelExpr {
	for {
		c, ok := e.(*CoveringIndexExpr)
		if !ok || c.Index == nil {
			return e
		}
		e = c.Index
	}
}

// IntersectionOnKeysExpr intersects the rows of its inputs by comparing a key
// expression.
type IntersectionOnKeysExpr struct {
	Inputs []*Group
}

// Op is part of the RelExpr interface.
func (e *IntersectionOnKeysExpr) Op() opt.Operator { return opt.IntersectionOnKeysOp }

// ChildCount is part of the RelExpr interface.
func (e *IntersectionOnKeysExpr) ChildCount() int { return len(e.Inputs) }

// Child is part of the RelExpr interface.
func (e *IntersectionOnKeysExpr) Child(nth int) *Group { return e.Inputs[nth] }

// IntersectionOnValuesExpr intersects the rows of its inputs by comparing
// computed values.
type IntersectionOnValuesExpr struct {
	Inputs []*Group
}

// Op is part of the RelExpr interface.
func (e *IntersectionOnValuesExpr) Op() opt.Operator { return opt.IntersectionOnValuesOp }

// ChildCount is part of the RelExpr interface.
func (e *IntersectionOnValuesExpr) ChildCount() int { return len(e.Inputs) }

// Child is part of the RelExpr interface.
func (e *IntersectionOnValuesExpr) Child(nth int) *Group { return e.Inputs[nth] }

// ScoreForRankExpr converts rank boundaries to score boundaries and passes
// the rows of its input through.
type ScoreForRankExpr struct {
	Input *Group
	Ranks []RankSpec
}

// Op is part of the RelExpr interface.
func (e *ScoreForRankExpr) Op() opt.Operator { return opt.ScoreForRankOp }

// ChildCount is part of the RelExpr interface.
func (e *ScoreForRankExpr) ChildCount() int { return 1 }

// Child is part of the RelExpr interface.
func (e *ScoreForRankExpr) Child(nth int) *Group {
	if nth != 0 {
		panic(errors.AssertionFailedf("child index %d out of range", nth))
	}
	return e.Input
}

// TextIndexScanExpr scans a full-text index.
type TextIndexScanExpr struct {
	TextScanPrivate
}

// Op is part of the RelExpr interface.
func (e *TextIndexScanExpr) Op() opt.Operator { return opt.TextIndexScanOp }

// ChildCount is part of the RelExpr interface.
func (e *TextIndexScanExpr) ChildCount() int { return 0 }

// Child is part of the RelExpr interface.
func (e *TextIndexScanExpr) Child(nth int) *Group {
	panic(errors.AssertionFailedf("text index scan has no children"))
}

// UnaryExpr is an expression with a single input that has no metadata
// relevant to property derivation: filter, fetch, type filter, map and sort.
type UnaryExpr struct {
	Operator opt.Operator
	Input    *Group

	// Residual holds the predicates evaluated on each row by a filter. They are
	// not scan comparisons.
	Residual []opt.Comparison
}

// Op is part of the RelExpr interface.
func (e *UnaryExpr) Op() opt.Operator { return e.Operator }

// ChildCount is part of the RelExpr interface.
func (e *UnaryExpr) ChildCount() int { return 1 }

// Child is part of the RelExpr interface.
func (e *UnaryExpr) Child(nth int) *Group {
	if nth != 0 {
		panic(errors.AssertionFailedf("child index %d out of range", nth))
	}
	return e.Input
}

// SetExpr is an expression that combines any number of inputs without
// metadata relevant to property derivation, such as a union.
type SetExpr struct {
	Operator opt.Operator
	Inputs   []*Group
}

// Op is part of the RelExpr interface.
func (e *SetExpr) Op() opt.Operator { return e.Operator }

// ChildCount is part of the RelExpr interface.
func (e *SetExpr) ChildCount() int { return len(e.Inputs) }

// Child is part of the RelExpr interface.
func (e *SetExpr) Child(nth int) *Group { return e.Inputs[nth] }

// NewFilter returns a filter expression over the given input.
func NewFilter(input *Group, residual ...opt.Comparison) *UnaryExpr {
	return &UnaryExpr{Operator: opt.FilterOp, Input: input, Residual: residual}
}

// NewUnary returns a single-input expression with the given operator.
func NewUnary(op opt.Operator, input *Group) *UnaryExpr {
	return &UnaryExpr{Operator: op, Input: input}
}

// NewUnion returns a union expression over the given inputs.
func NewUnion(inputs ...*Group) *SetExpr {
	return &SetExpr{Operator: opt.UnionOp, Inputs: inputs}
}
