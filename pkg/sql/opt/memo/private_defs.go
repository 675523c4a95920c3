// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import "github.com/cockroachdb/optprops/pkg/sql/opt"

// ScanPrivate holds the fields shared by primary key and index scans.
type ScanPrivate struct {
	// Index is the name of the scanned index. It is empty for primary key
	// scans.
	Index string

	// ScanComparisons bound the scanned range. They are applied by the scan
	// itself, so no parent needs to evaluate them again.
	ScanComparisons []opt.Comparison
}

// HasComparisons is part of the WithComparisons interface.
func (p *ScanPrivate) HasComparisons() bool {
	return len(p.ScanComparisons) > 0
}

// Comparisons is part of the WithComparisons interface.
func (p *ScanPrivate) Comparisons() []opt.Comparison {
	return p.ScanComparisons
}

// RankSpec describes one rank translated by a ScoreForRank expression. Its
// comparisons are the rank boundaries, for example "rank < 10".
type RankSpec struct {
	Name        string
	Comparisons []opt.Comparison
}

// GroupingComparisons are the comparisons on the grouping columns of a
// grouped index. Equality and inequality comparisons are kept apart; the
// equality comparisons form a prefix of the grouping key.
type GroupingComparisons struct {
	Equality   []opt.Comparison
	Inequality []opt.Comparison
}

// TextScanPrivate holds the metadata of a text index scan.
type TextScanPrivate struct {
	// Index is the name of the text index.
	Index string

	// Grouping restricts the scan to some groups of a grouped text index. It is
	// nil if the index is not grouped or the scan spans all groups.
	Grouping *GroupingComparisons

	// Text is the full-text predicate. Every text index scan has one.
	Text opt.Comparison
}
