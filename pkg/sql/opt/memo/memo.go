// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import "github.com/cockroachdb/errors"

// Memo is an arena of groups. Each group holds logically equivalent plan
// expressions, and each expression references its inputs by group. Since a
// group can be the input of many expressions, and since those expressions can
// live in different groups, the memo forms a directed acyclic graph rather
// than a tree. A typical memo is built once by the planner and then read by
// any number of property derivations.
//
// The memo does not enforce acyclicity while it is being built; that is
// checked by Verify, and by property derivation when it walks the graph.
//
// A Memo is not safe for concurrent mutation. Once fully built, it can be
// read concurrently, including by concurrent property derivations.
type Memo struct {
	groups []*Group
	alloc  groupAlloc
}

// New returns a new, empty memo.
func New() *Memo {
	return &Memo{}
}

// AddGroup adds a new group holding the given expressions to the memo and
// returns it. Groups may be created empty and populated later with AddMember,
// which is how mutually referencing plans are assembled.
func (m *Memo) AddGroup(exprs ...RelExpr) *Group {
	grp := m.alloc.allocate()
	grp.id = GroupID(len(m.groups) + 1)
	grp.mem = m
	if len(exprs) > 0 {
		grp.exprs = append(make([]RelExpr, 0, len(exprs)), exprs...)
	}
	m.groups = append(m.groups, grp)
	return grp
}

// AddMember adds an expression to an existing group of the memo.
func (m *Memo) AddMember(grp *Group, e RelExpr) {
	if !m.Owns(grp) {
		panic(errors.AssertionFailedf("group is not owned by this memo"))
	}
	if e == nil {
		panic(errors.AssertionFailedf("cannot add nil expression to group %d", grp.id))
	}
	grp.exprs = append(grp.exprs, e)
}

// Group returns the group with the given ID.
func (m *Memo) Group(id GroupID) *Group {
	if id == 0 || int(id) > len(m.groups) {
		panic(errors.AssertionFailedf("group %d does not exist", id))
	}
	return m.groups[id-1]
}

// GroupCount returns the number of groups in the memo.
func (m *Memo) GroupCount() int {
	return len(m.groups)
}

// Owns returns true if the given group belongs to this memo.
func (m *Memo) Owns(grp *Group) bool {
	return grp != nil && grp.mem == m
}
