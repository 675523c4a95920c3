// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"
)

// DotGraph renders the groups reachable from root as a Graphviz digraph. Each
// group is a node listing its members and, if annotate is not nil, the
// annotation of the group. Each edge goes from a group to a child group and
// is labeled with the ordinal of the member that references the child.
func DotGraph(
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

	g := dot.NewGraph(dot.Directed)
	nodes := make(map[GroupID]dot.Node, len(f.ordering))
	for _, id := range f.ordering {
		grp := m.Group(id)
		lines := []string{f.labels[id]}
		for _, e := range grp.exprs {
			f.buf.Reset()
			f.formatExpr(e)
			lines = append(lines, f.buf.String())
		}
		if annotate != nil {
			if a := annotate(id); a != "" {
				lines = append(lines, a)
			}
		}
		n := g.Node(f.labels[id]).Label(strings.Join(lines, "\n")).Attr("shape", "box")
		if id == root {
			n.Attr("style", "bold")
		}
		nodes[id] = n
	}
	for _, id := range f.ordering {
		grp := m.Group(id)
		for ord, e := range grp.exprs {
			for c, n := 0, e.ChildCount(); c < n; c++ {
				child := e.Child(c)
				if !m.Owns(child) {
					continue
				}
				g.Edge(nodes[id], nodes[child.id], fmt.Sprintf("%d", ord))
			}
		}
	}
	return g.String()
}
