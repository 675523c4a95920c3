// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"fmt"

	"github.com/cockroachdb/redact"
)

// Operator describes the type of operation that a plan expression performs.
// Some operators carry comparisons (scans), some combine the row sets of
// their inputs (intersections, unions), and others only transform rows.
type Operator uint16

const (
	// UnknownOp is the zero value; it is never a valid operator.
	UnknownOp Operator = iota

	// ScanOp scans records by primary key, optionally bounded by scan
	// comparisons.
	ScanOp

	// IndexScanOp scans an index, bounded by scan comparisons.
	IndexScanOp

	// CoveringIndexOp answers a query from index entries alone. It wraps the
	// index scan that it covers.
	CoveringIndexOp

	// IntersectionOnKeysOp intersects its inputs on a key expression.
	IntersectionOnKeysOp

	// IntersectionOnValuesOp intersects its inputs on computed values.
	IntersectionOnValuesOp

	// ScoreForRankOp translates rank boundaries into score boundaries before
	// passing through the rows of its input.
	ScoreForRankOp

	// TextIndexScanOp scans a full-text index.
	TextIndexScanOp

	// FilterOp applies residual predicates to the rows of its input.
	FilterOp

	// FetchOp fetches full records for the index entries of its input.
	FetchOp

	// TypeFilterOp keeps only records of the given record types.
	TypeFilterOp

	// MapOp computes new values for each row of its input.
	MapOp

	// SortOp sorts its input.
	SortOp

	// UnionOp merges ordered inputs and removes duplicates.
	UnionOp

	// UnorderedUnionOp concatenates its inputs.
	UnorderedUnionOp

	// NumOperators tracks the total count of operators. This should be last.
	NumOperators
)

// operatorInfo stores static information about an operator.
type operatorInfo struct {
	// name of the operator, used when printing expressions.
	name string

	// intersection is true for operators that only return rows produced by
	// every one of their inputs.
	intersection bool
}

var operatorTab = [NumOperators]operatorInfo{
	UnknownOp:              {name: "unknown"},
	ScanOp:                 {name: "scan"},
	IndexScanOp:            {name: "index-scan"},
	CoveringIndexOp:        {name: "covering-index"},
	IntersectionOnKeysOp:   {name: "intersection-on-keys", intersection: true},
	IntersectionOnValuesOp: {name: "intersection-on-values", intersection: true},
	ScoreForRankOp:         {name: "score-for-rank"},
	TextIndexScanOp:        {name: "text-index-scan"},
	FilterOp:               {name: "filter"},
	FetchOp:                {name: "fetch"},
	TypeFilterOp:           {name: "type-filter"},
	MapOp:                  {name: "map"},
	SortOp:                 {name: "sort"},
	UnionOp:                {name: "union"},
	UnorderedUnionOp:       {name: "unordered-union"},
}

func (op Operator) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return operatorTab[op].name
}

// SafeValue implements the redact.SafeValue interface.
func (Operator) SafeValue() {}

var _ redact.SafeValue = Operator(0)

// IsIntersectionOp returns true if the operator intersects the row sets of
// its inputs.
func IsIntersectionOp(op Operator) bool {
	return op < NumOperators && operatorTab[op].intersection
}

// OperatorByName returns the operator with the given name, as printed by
// Operator.String. The second return value is false if there is no such
// operator.
func OperatorByName(name string) (Operator, bool) {
	for op := UnknownOp + 1; op < NumOperators; op++ {
		if operatorTab[op].name == name {
			return op, true
		}
	}
	return UnknownOp, false
}
