// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package props

import (
	"testing"

	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func cmpEq(col, val string) opt.Comparison {
	return opt.MakeComparison(opt.EqualsComparison, col, val)
}

func cmpLt(col, val string) opt.Comparison {
	return opt.MakeComparison(opt.LessThanComparison, col, val)
}

func TestComparisonSet(t *testing.T) {
	var s ComparisonSet
	require.True(t, s.Empty())
	require.Equal(t, 0, s.Len())
	require.Equal(t, "{}", s.String())
	require.Nil(t, s.Ordered())
	require.False(t, s.Contains(cmpEq("a", "1")))

	s.Add(cmpLt("b", "5"))
	s.Add(cmpEq("a", "1"))
	s.Add(cmpEq("a", "1"))
	require.Equal(t, 2, s.Len())
	require.True(t, s.Contains(cmpEq("a", "1")))
	require.Equal(t, "{a = 1, b < 5}", s.String())

	s.Remove(cmpEq("a", "1"))
	require.Equal(t, "{b < 5}", s.String())
	s.Remove(cmpEq("zz", "1"))
	require.Equal(t, 1, s.Len())
}

func TestComparisonSetCopy(t *testing.T) {
	s := MakeComparisonSet(cmpEq("a", "1"), cmpEq("b", "2"))
	c := s.Copy()
	c.Add(cmpEq("c", "3"))
	c.Remove(cmpEq("a", "1"))
	require.Equal(t, "{a = 1, b = 2}", s.String())
	require.Equal(t, "{b = 2, c = 3}", c.String())

	var empty ComparisonSet
	e := empty.Copy()
	e.Add(cmpEq("a", "1"))
	require.True(t, empty.Empty())
}

func TestComparisonSetAlgebra(t *testing.T) {
	s1 := MakeComparisonSet(cmpEq("a", "1"), cmpLt("b", "5"))
	s2 := MakeComparisonSet(cmpEq("a", "1"), opt.MakeComparison(opt.GreaterThanComparison, "c", "2"))

	u := s1.Union(s2)
	require.Equal(t, "{a = 1, b < 5, c > 2}", u.String())
	require.Equal(t, "{a = 1, b < 5}", s1.String())

	i := s1.Intersection(s2)
	require.Equal(t, "{a = 1}", i.String())
	require.Equal(t, "{a = 1, b < 5}", s1.String())

	require.True(t, i.SubsetOf(s1))
	require.True(t, i.SubsetOf(s2))
	require.False(t, s1.SubsetOf(s2))
	require.True(t, ComparisonSet{}.SubsetOf(s1))

	require.True(t, s1.Equals(s1.Copy()))
	require.False(t, s1.Equals(s2))
	require.True(t, ComparisonSet{}.Equals(MakeComparisonSet()))

	var empty ComparisonSet
	empty.IntersectionWith(s1)
	require.True(t, empty.Empty())

	x := s1.Copy()
	x.IntersectionWith(ComparisonSet{})
	require.True(t, x.Empty())
}

func TestComparisonSetOrdered(t *testing.T) {
	s := MakeComparisonSet(cmpEq("c", "1"), cmpLt("a", "9"), cmpEq("a", "9"), cmpEq("b", "0"))
	expected := []opt.Comparison{cmpEq("a", "9"), cmpLt("a", "9"), cmpEq("b", "0"), cmpEq("c", "1")}
	if diff := cmp.Diff(expected, s.Ordered()); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}

	var visited []opt.Comparison
	s.ForEach(func(c opt.Comparison) {
		visited = append(visited, c)
	})
	require.Equal(t, expected, visited)
}
