// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
)

type memoFmtCtx struct {
	buf      *strings.Builder
	mem      *Memo
	ordering []GroupID
	labels   []string
}

// FormatMemo renders the groups reachable from root, one group per line, in
// topological order starting with the root. Groups are labeled with names(id)
// when names is not nil and returns a non-empty name; otherwise they are
// renumbered G1..Gn in printing order. If annotate is not nil, its result is
// printed under each group.
func FormatMemo(
	m *Memo, root GroupID, names func(GroupID) string, annotate func(GroupID) string,
) string {
	f := memoFmtCtx{buf: &strings.Builder{}, mem: m}
	f.ordering = m.sortGroups(root)

	f.labels = make([]string, len(m.groups)+1)
	for i, id := range f.ordering {
		if names != nil {
			f.labels[id] = names(id)
		}
		if f.labels[id] == "" {
			f.labels[id] = fmt.Sprintf("G%d", i+1)
		}
	}

	var out strings.Builder
	for _, id := range f.ordering {
		grp := m.Group(id)
		f.buf.Reset()
		if len(grp.exprs) == 0 {
			f.buf.WriteString("no members")
		}
		for i, e := range grp.exprs {
			if i != 0 {
				f.buf.WriteByte(' ')
			}
			f.formatExpr(e)
		}
		fmt.Fprintf(&out, "%s: %s\n", f.labels[id], f.buf.String())
		if annotate != nil {
			if a := annotate(id); a != "" {
				fmt.Fprintf(&out, " └── %s\n", a)
			}
		}
	}
	return out.String()
}

// FormatExpr renders a single expression with its children labeled by group
// name, or by group ID if names is nil.
func FormatExpr(m *Memo, e RelExpr, names func(GroupID) string) string {
	f := memoFmtCtx{buf: &strings.Builder{}, mem: m}
	f.labels = make([]string, len(m.groups)+1)
	for id := 1; id <= len(m.groups); id++ {
		if names != nil {
			f.labels[id] = names(GroupID(id))
		}
		if f.labels[id] == "" {
			f.labels[id] = fmt.Sprintf("G%d", id)
		}
	}
	f.formatExpr(e)
	return f.buf.String()
}

func (f *memoFmtCtx) childLabel(grp *Group) string {
	if !f.mem.Owns(grp) {
		return "<foreign>"
	}
	return f.labels[grp.id]
}

func (f *memoFmtCtx) formatExpr(e RelExpr) {
	fmt.Fprintf(f.buf, "(%s", e.Op())
	// The inputs of a covering index plan are printed with the plan it wraps.
	if _, ok := e.(*CoveringIndexExpr); ok {
		f.formatPrivate(e)
		f.buf.WriteByte(')')
		return
	}
	for i, n := 0, e.ChildCount(); i < n; i++ {
		fmt.Fprintf(f.buf, " %s", f.childLabel(e.Child(i)))
	}
	f.formatPrivate(e)
	f.buf.WriteByte(')')
}

func (f *memoFmtCtx) formatPrivate(e RelExpr) {
	switch t := e.(type) {
	case *ScanExpr:
		f.formatComparisons(" ", t.ScanComparisons)

	case *IndexScanExpr:
		fmt.Fprintf(f.buf, " %s", t.Index)
		f.formatComparisons(" ", t.ScanComparisons)

	case *CoveringIndexExpr:
		if t.Index != nil {
			f.buf.WriteByte(' ')
			f.formatExpr(t.Index)
		}

	case *ScoreForRankExpr:
		for _, r := range t.Ranks {
			fmt.Fprintf(f.buf, " %s", r.Name)
			f.formatComparisons("=", r.Comparisons)
		}

	case *TextIndexScanExpr:
		fmt.Fprintf(f.buf, " %s", t.Index)
		if t.Grouping != nil {
			f.formatComparisons(" eq=", t.Grouping.Equality)
			f.formatComparisons(" ineq=", t.Grouping.Inequality)
		}
		fmt.Fprintf(f.buf, " text=[%s]", t.Text)

	case *UnaryExpr:
		f.formatComparisons(" residual=", t.Residual)
	}
}

func (f *memoFmtCtx) formatComparisons(prefix string, cmps []opt.Comparison) {
	if len(cmps) == 0 {
		return
	}
	f.buf.WriteString(prefix)
	f.buf.WriteByte('[')
	for i, c := range cmps {
		if i != 0 {
			f.buf.WriteString(", ")
		}
		f.buf.WriteString(c.String())
	}
	f.buf.WriteByte(']')
}

// sortGroups sorts groups reachable from the root by doing a BFS topological
// sort.
func (m *Memo) sortGroups(root GroupID) (groups []GroupID) {
	indegrees := m.getIndegrees(root)

	res := make([]GroupID, 0, len(m.groups))
	queue := []GroupID{root}

	for len(queue) > 0 {
		var next GroupID
		next, queue = queue[0], queue[1:]
		res = append(res, next)

		// When we visit a group, we conceptually remove it from the dependency
		// graph, so all of its dependencies have their indegree reduced by one.
		// Any dependencies which have no more dependents can now be visited and
		// are added to the queue.
		m.forEachDependency(m.Group(next), func(dep GroupID) {
			indegrees[dep]--
			if indegrees[dep] == 0 {
				queue = append(queue, dep)
			}
		})
	}

	// If there remains any group with nonzero indegree, we had a cycle.
	for i := range indegrees {
		if indegrees[i] != 0 {
			panic(errors.AssertionFailedf("memo has a cycle through group %d", i))
		}
	}

	return res
}

// forEachDependency runs fn for each child group of g, skipping groups that
// are not owned by the memo.
func (m *Memo) forEachDependency(g *Group, fn func(GroupID)) {
	for _, e := range g.exprs {
		for c, n := 0, e.ChildCount(); c < n; c++ {
			if child := e.Child(c); m.Owns(child) {
				fn(child.id)
			}
		}
	}
}

// getIndegrees returns the indegree of each group reachable from the root.
func (m *Memo) getIndegrees(root GroupID) (indegrees []int) {
	indegrees = make([]int, len(m.groups)+1)
	reachable := make([]bool, len(m.groups)+1)
	stack := []GroupID{root}
	reachable[root] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.forEachDependency(m.Group(id), func(dep GroupID) {
			indegrees[dep]++
			if !reachable[dep] {
				reachable[dep] = true
				stack = append(stack, dep)
			}
		})
	}
	return indegrees
}
