// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import "github.com/cockroachdb/errors"

// GroupID identifies a group within its memo. IDs are assigned densely in the
// order groups are added, starting at 1; the zero GroupID is never valid.
type GroupID uint32

// Group stores a set of logically equivalent expressions. Every member of a
// group produces the same rows, so any of them can be chosen to implement the
// group. A group may be referenced as an input by many expressions; it is
// never copied.
type Group struct {
	// id is the index of this group within the memo, plus one.
	id GroupID

	// mem is the memo that owns the group.
	mem *Memo

	// exprs is the set of logically equivalent expressions that are part of
	// the group, in insertion order.
	exprs []RelExpr
}

// ID returns the identifier of the group within its memo.
func (g *Group) ID() GroupID {
	return g.id
}

// MemberCount returns the number of expressions in the group.
func (g *Group) MemberCount() int {
	return len(g.exprs)
}

// Member returns the nth expression in the group.
func (g *Group) Member(nth int) RelExpr {
	if nth < 0 || nth >= len(g.exprs) {
		panic(errors.AssertionFailedf("member %d out of range for group %d", nth, g.id))
	}
	return g.exprs[nth]
}

// ForEachMember calls fn for each expression in the group, in insertion order.
func (g *Group) ForEachMember(fn func(e RelExpr)) {
	for _, e := range g.exprs {
		fn(e)
	}
}

// groupAlloc allocates pages of Group structs. This is preferable to a slice
// of Group structs because pointers are not invalidated when a resize occurs.
type groupAlloc struct {
	page []Group
}

// allocate returns a pointer to a new, empty Group struct. The pointer is
// stable, meaning that its location won't change as other Group structs are
// allocated.
func (a *groupAlloc) allocate() *Group {
	if len(a.page) == 0 {
		a.page = make([]Group, 8)
	}
	grp := &a.page[0]
	a.page = a.page[1:]
	return grp
}
