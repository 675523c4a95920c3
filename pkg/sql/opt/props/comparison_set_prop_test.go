// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package props

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// numTestComparisons is the number of distinct comparisons drawn from by
// generated sets. It is kept small so that generated sets overlap.
const numTestComparisons = 12

// testComparison maps an ordinal to a comparison. Ordinals that differ only in
// the column or only in the operator produce distinct comparisons.
func testComparison(i int) opt.Comparison {
	typ := opt.EqualsComparison
	if i%3 == 1 {
		typ = opt.LessThanComparison
	}
	return opt.MakeComparison(typ, fmt.Sprintf("c%d", i%4), fmt.Sprint(i/4))
}

func makeTestSet(ordinals []int) ComparisonSet {
	var s ComparisonSet
	for _, i := range ordinals {
		s.Add(testComparison(i))
	}
	return s
}

func genOrdinals() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, numTestComparisons-1))
}

func TestComparisonSetProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("union contains both operands", prop.ForAll(
		func(a, b []int) bool {
			l, r := makeTestSet(a), makeTestSet(b)
			u := l.Union(r)
			return l.SubsetOf(u) && r.SubsetOf(u) && u.Len() <= l.Len()+r.Len()
		},
		genOrdinals(), genOrdinals(),
	))

	properties.Property("union is commutative", prop.ForAll(
		func(a, b []int) bool {
			l, r := makeTestSet(a), makeTestSet(b)
			return l.Union(r).Equals(r.Union(l))
		},
		genOrdinals(), genOrdinals(),
	))

	properties.Property("intersection is contained in both operands", prop.ForAll(
		func(a, b []int) bool {
			l, r := makeTestSet(a), makeTestSet(b)
			in := l.Intersection(r)
			ok := in.SubsetOf(l) && in.SubsetOf(r)
			l.ForEach(func(c opt.Comparison) {
				if r.Contains(c) && !in.Contains(c) {
					ok = false
				}
			})
			return ok
		},
		genOrdinals(), genOrdinals(),
	))

	properties.Property("set operations do not modify their operands", prop.ForAll(
		func(a, b []int) bool {
			l, r := makeTestSet(a), makeTestSet(b)
			before := l.String() + r.String()
			_ = l.Union(r)
			_ = l.Intersection(r)
			return l.String()+r.String() == before
		},
		genOrdinals(), genOrdinals(),
	))

	properties.Property("iteration order is sorted and deterministic", prop.ForAll(
		func(a []int) bool {
			s := makeTestSet(a)
			ordered := s.Ordered()
			for i := 1; i < len(ordered); i++ {
				if !ordered[i-1].Less(ordered[i]) {
					return false
				}
			}
			reversed := make([]int, len(a))
			for i := range a {
				reversed[len(a)-1-i] = a[i]
			}
			return makeTestSet(reversed).String() == s.String()
		},
		genOrdinals(),
	))

	properties.TestingRun(t)
}
