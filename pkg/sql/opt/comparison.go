// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ComparisonType is the operator of a Comparison.
type ComparisonType uint8

const (
	// UnknownComparison is the zero value and marks a missing comparison.
	UnknownComparison ComparisonType = iota
	EqualsComparison
	NotEqualsComparison
	LessThanComparison
	LessThanOrEqualsComparison
	GreaterThanComparison
	GreaterThanOrEqualsComparison
	StartsWithComparison
	IsNullComparison
	NotNullComparison
	TextContainsAllComparison
	TextContainsAnyComparison
	TextContainsPhraseComparison
	TextContainsPrefixComparison

	numComparisonTypes
)

type comparisonTypeInfo struct {
	symbol string
	unary  bool
	text   bool
}

var comparisonTypeTab = [numComparisonTypes]comparisonTypeInfo{
	UnknownComparison:             {symbol: "?"},
	EqualsComparison:              {symbol: "="},
	NotEqualsComparison:           {symbol: "!="},
	LessThanComparison:            {symbol: "<"},
	LessThanOrEqualsComparison:    {symbol: "<="},
	GreaterThanComparison:         {symbol: ">"},
	GreaterThanOrEqualsComparison: {symbol: ">="},
	StartsWithComparison:          {symbol: "STARTS_WITH"},
	IsNullComparison:              {symbol: "IS_NULL", unary: true},
	NotNullComparison:             {symbol: "NOT_NULL", unary: true},
	TextContainsAllComparison:     {symbol: "~", text: true},
	TextContainsAnyComparison:     {symbol: "~any", text: true},
	TextContainsPhraseComparison:  {symbol: "~phrase", text: true},
	TextContainsPrefixComparison:  {symbol: "~prefix", text: true},
}

func (t ComparisonType) String() string {
	if t >= numComparisonTypes {
		return "?"
	}
	return comparisonTypeTab[t].symbol
}

// SafeValue implements the redact.SafeValue interface.
func (ComparisonType) SafeValue() {}

// IsUnary returns true if comparisons of this type have no operand.
func (t ComparisonType) IsUnary() bool {
	return t < numComparisonTypes && comparisonTypeTab[t].unary
}

// IsText returns true for full-text predicates.
func (t ComparisonType) IsText() bool {
	return t < numComparisonTypes && comparisonTypeTab[t].text
}

// IsEquality returns true if the comparison type pins its column to a single
// value.
func (t ComparisonType) IsEquality() bool {
	return t == EqualsComparison || t == IsNullComparison
}

// Comparison is an atomic predicate applied to a record field while scanning
// or filtering. Comparisons are immutable values; two comparisons are the same
// predicate if and only if they compare equal with ==, so they can be used as
// map keys and set members.
//
// The optimizer treats comparisons as opaque: it never evaluates them, it
// only tracks which of them have been applied by a plan.
type Comparison struct {
	Type    ComparisonType
	Column  string
	Operand string
}

// MakeComparison constructs a new comparison.
func MakeComparison(typ ComparisonType, column, operand string) Comparison {
	return Comparison{Type: typ, Column: column, Operand: operand}
}

// IsZero returns true for the zero Comparison, which stands for a missing
// comparison.
func (c Comparison) IsZero() bool {
	return c == Comparison{}
}

// Less orders comparisons by column, then type, then operand.
func (c Comparison) Less(other Comparison) bool {
	if c.Column != other.Column {
		return c.Column < other.Column
	}
	if c.Type != other.Type {
		return c.Type < other.Type
	}
	return c.Operand < other.Operand
}

// SafeFormat implements the redact.SafeFormatter interface. Only the operand
// is considered unsafe.
func (c Comparison) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(c.Column))
	w.SafeRune(' ')
	w.Print(c.Type)
	if !c.Type.IsUnary() {
		w.SafeRune(' ')
		w.Print(c.Operand)
	}
}

func (c Comparison) String() string {
	return redact.StringWithoutMarkers(c)
}

// ParseComparison parses the textual form of a comparison as printed by
// Comparison.String, for example "a = 1", "b STARTS_WITH foo" or
// "c IS_NULL". The operand is everything after the operator, with
// surrounding whitespace removed.
func ParseComparison(s string) (Comparison, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Comparison{}, errors.Newf("malformed comparison %q", s)
	}
	var typ ComparisonType
	for t := UnknownComparison + 1; t < numComparisonTypes; t++ {
		if comparisonTypeTab[t].symbol == fields[1] {
			typ = t
			break
		}
	}
	if typ == UnknownComparison {
		return Comparison{}, errors.Newf("unknown comparison operator %q in %q", fields[1], s)
	}
	if typ.IsUnary() {
		if len(fields) != 2 {
			return Comparison{}, errors.Newf("%s takes no operand: %q", typ, s)
		}
		return MakeComparison(typ, fields[0], ""), nil
	}
	if len(fields) < 3 {
		return Comparison{}, errors.Newf("missing operand in %q", s)
	}
	// Keep internal whitespace of the operand (phrases).
	rest := strings.TrimSpace(s)
	rest = strings.TrimSpace(rest[len(fields[0]):])
	rest = strings.TrimSpace(rest[len(fields[1]):])
	return MakeComparison(typ, fields[0], rest), nil
}

// ParseComparisons parses each of the given strings with ParseComparison.
func ParseComparisons(strs []string) ([]Comparison, error) {
	if len(strs) == 0 {
		return nil, nil
	}
	res := make([]Comparison, len(strs))
	for i, s := range strs {
		c, err := ParseComparison(s)
		if err != nil {
			return nil, err
		}
		res[i] = c
	}
	return res, nil
}
