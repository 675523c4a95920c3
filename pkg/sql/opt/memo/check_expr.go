// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"golang.org/x/tools/container/intsets"
)

// Verify does sanity checking on the part of the memo reachable from the given
// root group. It checks that:
//
//   - every referenced group belongs to the memo;
//   - the reachable graph is acyclic;
//   - every member expression is well formed (see CheckExpr).
//
// An intersection with a single input is tolerated: it applies whatever its
// input applies. One with no inputs is rejected.
//
// Derivation runs Verify before each pass when integrity checks are requested
// and in invariants builds, where the cost of the extra walk is acceptable.
func (m *Memo) Verify(root GroupID) error {
	if root == 0 || int(root) > len(m.groups) {
		return errors.Newf("root group %d does not exist", root)
	}

	// visited holds groups whose subgraph has been fully checked; onPath holds
	// the groups on the current DFS path.
	var visited, onPath intsets.Sparse
	type frame struct {
		grp  *Group
		exit bool
	}
	stack := []frame{{grp: m.groups[root-1]}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := int(f.grp.id)

		if f.exit {
			onPath.Remove(id)
			visited.Insert(id)
			continue
		}
		if visited.Has(id) {
			continue
		}
		if onPath.Has(id) {
			return errors.Newf("cycle detected at group %d", id)
		}
		onPath.Insert(id)
		stack = append(stack, frame{grp: f.grp, exit: true})

		for _, e := range f.grp.exprs {
			if err := m.CheckExpr(e); err != nil {
				return errors.Wrapf(err, "group %d", id)
			}
			for i, n := 0, e.ChildCount(); i < n; i++ {
				child := e.Child(i)
				if !m.Owns(child) {
					return errors.Newf("group %d: child %d of %s is not owned by the memo", id, i, e.Op())
				}
				if onPath.Has(int(child.id)) && !visited.Has(int(child.id)) {
					return errors.Newf("cycle detected at group %d", child.id)
				}
				stack = append(stack, frame{grp: child})
			}
		}
	}
	return nil
}

// CheckExpr checks operator-specific fields of a single expression.
func (m *Memo) CheckExpr(e RelExpr) error {
	if e == nil {
		return errors.New("nil expression")
	}
	switch t := e.(type) {
	case *IntersectionOnKeysExpr:
		if len(t.Inputs) == 0 {
			return errors.Newf("%s has no inputs", t.Op())
		}

	case *IntersectionOnValuesExpr:
		if len(t.Inputs) == 0 {
			return errors.Newf("%s has no inputs", t.Op())
		}

	case *TextIndexScanExpr:
		if t.Text.IsZero() {
			return errors.Newf("%s on index %q has no text comparison", t.Op(), t.Index)
		}
		if !t.Text.Type.IsText() {
			return errors.Newf("%s on index %q has non-text comparison %s", t.Op(), t.Index, t.Text)
		}

	case *CoveringIndexExpr:
		if t.Index == nil {
			return errors.Newf("%s has no index plan", t.Op())
		}
		return m.CheckExpr(t.Index)

	case *ScoreForRankExpr:
		for _, r := range t.Ranks {
			if r.Name == "" {
				return errors.Newf("%s has a rank without a name", t.Op())
			}
		}

	case *UnaryExpr:
		if len(t.Residual) > 0 && t.Operator != opt.FilterOp {
			return errors.Newf("%s cannot have residual predicates", t.Op())
		}
	}
	return nil
}
