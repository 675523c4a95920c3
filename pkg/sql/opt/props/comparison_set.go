// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package props

import (
	"strings"

	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/google/btree"
)

// comparisonSetDegree is the btree degree used by ComparisonSet. Sets are
// typically small, so a low degree keeps nodes compact.
const comparisonSetDegree = 8

func comparisonLess(a, b opt.Comparison) bool {
	return a.Less(b)
}

// ComparisonSet is an ordered set of comparisons. The zero value is an empty
// set that is ready to use.
//
// Assigning a ComparisonSet shares its storage. Use Copy
// before mutating a set that may be referenced elsewhere; Copy is cheap since
// the underlying tree is copy-on-write.
type ComparisonSet struct {
	tree *btree.BTreeG[opt.Comparison]
}

// MakeComparisonSet returns a set initialized with the given comparisons.
func MakeComparisonSet(cmps ...opt.Comparison) ComparisonSet {
	var s ComparisonSet
	for _, c := range cmps {
		s.Add(c)
	}
	return s
}

// Add adds a comparison to the set. Adding a comparison that is already in the
// set is a no-op.
func (s *ComparisonSet) Add(c opt.Comparison) {
	if s.tree == nil {
		s.tree = btree.NewG[opt.Comparison](comparisonSetDegree, comparisonLess)
	}
	s.tree.ReplaceOrInsert(c)
}

// AddAll adds all of the given comparisons to the set.
func (s *ComparisonSet) AddAll(cmps []opt.Comparison) {
	for _, c := range cmps {
		s.Add(c)
	}
}

// Remove removes a comparison from the set, if present.
func (s *ComparisonSet) Remove(c opt.Comparison) {
	if s.tree != nil {
		s.tree.Delete(c)
	}
}

// Contains returns true if the set contains the given comparison.
func (s ComparisonSet) Contains(c opt.Comparison) bool {
	return s.tree != nil && s.tree.Has(c)
}

// Len returns the number of comparisons in the set.
func (s ComparisonSet) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Empty returns true if the set has no comparisons.
func (s ComparisonSet) Empty() bool {
	return s.Len() == 0
}

// Copy returns a copy of the set which can be modified independently.
func (s ComparisonSet) Copy() ComparisonSet {
	if s.tree == nil {
		return ComparisonSet{}
	}
	return ComparisonSet{tree: s.tree.Clone()}
}

// ForEach calls fn for each comparison in the set, in ascending order.
func (s ComparisonSet) ForEach(fn func(c opt.Comparison)) {
	if s.tree == nil {
		return
	}
	s.tree.Ascend(func(c opt.Comparison) bool {
		fn(c)
		return true
	})
}

// Ordered returns the comparisons of the set in ascending order.
func (s ComparisonSet) Ordered() []opt.Comparison {
	if s.Empty() {
		return nil
	}
	res := make([]opt.Comparison, 0, s.Len())
	s.ForEach(func(c opt.Comparison) {
		res = append(res, c)
	})
	return res
}

// UnionWith adds all comparisons of rhs to the set.
func (s *ComparisonSet) UnionWith(rhs ComparisonSet) {
	rhs.ForEach(func(c opt.Comparison) {
		s.Add(c)
	})
}

// Union returns the union of s and rhs as a new set.
func (s ComparisonSet) Union(rhs ComparisonSet) ComparisonSet {
	r := s.Copy()
	r.UnionWith(rhs)
	return r
}

// IntersectionWith removes all comparisons from the set that are not in rhs.
func (s *ComparisonSet) IntersectionWith(rhs ComparisonSet) {
	if s.Empty() {
		return
	}
	var toRemove []opt.Comparison
	s.ForEach(func(c opt.Comparison) {
		if !rhs.Contains(c) {
			toRemove = append(toRemove, c)
		}
	})
	for _, c := range toRemove {
		s.tree.Delete(c)
	}
}

// Intersection returns the intersection of s and rhs as a new set.
func (s ComparisonSet) Intersection(rhs ComparisonSet) ComparisonSet {
	r := s.Copy()
	r.IntersectionWith(rhs)
	return r
}

// SubsetOf returns true if every comparison in s is also in rhs.
func (s ComparisonSet) SubsetOf(rhs ComparisonSet) bool {
	if s.Len() > rhs.Len() {
		return false
	}
	subset := true
	if s.tree != nil {
		s.tree.Ascend(func(c opt.Comparison) bool {
			subset = rhs.Contains(c)
			return subset
		})
	}
	return subset
}

// Equals returns true if the two sets contain the same comparisons.
func (s ComparisonSet) Equals(rhs ComparisonSet) bool {
	return s.Len() == rhs.Len() && s.SubsetOf(rhs)
}

// String returns the set in the form "{a = 1, b < 5}".
func (s ComparisonSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.ForEach(func(c opt.Comparison) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(c.String())
	})
	b.WriteByte('}')
	return b.String()
}
