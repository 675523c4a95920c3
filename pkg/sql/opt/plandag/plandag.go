// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package plandag builds memos from YAML plan definitions. Definitions are
// used by tests and by the planprops tool to describe plan DAGs by hand:
//
//	root: q
//	groups:
//	  q:
//	    - op: intersection-on-keys
//	      inputs: [a, b]
//	  a:
//	    - op: index-scan
//	      index: idx_a
//	      comparisons: ["a = 1", "b = 2"]
//	  b:
//	    - op: scan
//	      comparisons: ["b = 2"]
//
// Each group is a list of member expressions. Expressions reference their
// inputs by group name, so a group can be shared by any number of
// expressions. Groups are numbered in the order they appear in the document.
package plandag

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/cockroachdb/optprops/pkg/sql/opt/memo"
	"gopkg.in/yaml.v3"
)

// Definition is a memo built from a plan definition.
type Definition struct {
	Memo *memo.Memo
	Root memo.GroupID

	// Names maps group IDs to the names used in the definition.
	Names map[memo.GroupID]string

	ids map[string]memo.GroupID
}

// Name returns the name of the group with the given ID, or the empty string
// if the group was not defined by name.
func (d *Definition) Name(id memo.GroupID) string {
	return d.Names[id]
}

// Group returns the group with the given name.
func (d *Definition) Group(name string) (*memo.Group, bool) {
	id, ok := d.ids[name]
	if !ok {
		return nil, false
	}
	return d.Memo.Group(id), true
}

type document struct {
	Root   string    `yaml:"root"`
	Groups yaml.Node `yaml:"groups"`
}

type exprDef struct {
	Op          string       `yaml:"op"`
	Inputs      []string     `yaml:"inputs"`
	Index       string       `yaml:"index"`
	Comparisons []string     `yaml:"comparisons"`
	Covers      *exprDef     `yaml:"covers"`
	Ranks       []rankDef    `yaml:"ranks"`
	Grouping    *groupingDef `yaml:"grouping"`
	Text        string       `yaml:"text"`
	Residual    []string     `yaml:"residual"`
}

type rankDef struct {
	Name        string   `yaml:"name"`
	Comparisons []string `yaml:"comparisons"`
}

type groupingDef struct {
	Equality   []string `yaml:"equality"`
	Inequality []string `yaml:"inequality"`
}

// Load reads and parses the plan definition in the given file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading plan definition")
	}
	def, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return def, nil
}

// decodeStrict decodes node into out, rejecting unknown fields. Node.Decode
// does not carry over the KnownFields setting of the decoder that produced
// the node, so the node is encoded again and decoded by a strict decoder.
func decodeStrict(node *yaml.Node, out interface{}) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// Parse parses a plan definition. Groups may reference groups defined later
// in the document. The resulting memo is not verified; use Memo.Verify to
// check it.
func Parse(data []byte) (*Definition, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parsing plan definition")
	}
	if doc.Groups.Kind != yaml.MappingNode {
		return nil, errors.New("plan definition must have a groups mapping")
	}

	def := &Definition{
		Memo:  memo.New(),
		Names: make(map[memo.GroupID]string),
		ids:   make(map[string]memo.GroupID),
	}

	// Create every group up front so that expressions can reference groups in
	// any order.
	content := doc.Groups.Content
	members := make([][]exprDef, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		if _, ok := def.ids[name]; ok {
			return nil, errors.Newf("line %d: group %q defined twice", content[i].Line, name)
		}
		var exprs []exprDef
		if err := decodeStrict(content[i+1], &exprs); err != nil {
			return nil, errors.Wrapf(err, "group %q", name)
		}
		grp := def.Memo.AddGroup()
		def.ids[name] = grp.ID()
		def.Names[grp.ID()] = name
		members = append(members, exprs)
	}

	for i := range members {
		grp := def.Memo.Group(memo.GroupID(i + 1))
		for j := range members[i] {
			e, err := def.buildExpr(&members[i][j])
			if err != nil {
				return nil, errors.Wrapf(err, "group %q, member %d", def.Names[grp.ID()], j)
			}
			def.Memo.AddMember(grp, e)
		}
	}

	if doc.Root == "" {
		return nil, errors.New("plan definition has no root")
	}
	root, ok := def.ids[doc.Root]
	if !ok {
		return nil, errors.Newf("root group %q is not defined", doc.Root)
	}
	def.Root = root
	return def, nil
}

func (d *Definition) buildExpr(ed *exprDef) (memo.RelExpr, error) {
	op, ok := opt.OperatorByName(ed.Op)
	if !ok {
		return nil, errors.Newf("unknown operator %q", ed.Op)
	}
	inputs, err := d.inputs(ed.Inputs)
	if err != nil {
		return nil, err
	}
	cmps, err := opt.ParseComparisons(ed.Comparisons)
	if err != nil {
		return nil, err
	}
	if len(cmps) > 0 && op != opt.ScanOp && op != opt.IndexScanOp {
		return nil, errors.Newf("%s cannot have scan comparisons", op)
	}

	switch op {
	case opt.ScanOp, opt.IndexScanOp:
		if err := expectInputs(op, inputs, 0); err != nil {
			return nil, err
		}
		private := memo.ScanPrivate{Index: ed.Index, ScanComparisons: cmps}
		if op == opt.ScanOp {
			return &memo.ScanExpr{ScanPrivate: private}, nil
		}
		return &memo.IndexScanExpr{ScanPrivate: private}, nil

	case opt.CoveringIndexOp:
		if err := expectInputs(op, inputs, 0); err != nil {
			return nil, err
		}
		if ed.Covers == nil {
			return nil, errors.Newf("%s requires a covered index plan", op)
		}
		inner, err := d.buildExpr(ed.Covers)
		if err != nil {
			return nil, errors.Wrapf(err, "covered plan")
		}
		return &memo.CoveringIndexExpr{Index: inner}, nil

	case opt.IntersectionOnKeysOp:
		return &memo.IntersectionOnKeysExpr{Inputs: inputs}, nil

	case opt.IntersectionOnValuesOp:
		return &memo.IntersectionOnValuesExpr{Inputs: inputs}, nil

	case opt.ScoreForRankOp:
		if err := expectInputs(op, inputs, 1); err != nil {
			return nil, err
		}
		ranks := make([]memo.RankSpec, len(ed.Ranks))
		for i, r := range ed.Ranks {
			ranks[i].Name = r.Name
			if ranks[i].Comparisons, err = opt.ParseComparisons(r.Comparisons); err != nil {
				return nil, errors.Wrapf(err, "rank %q", r.Name)
			}
		}
		return &memo.ScoreForRankExpr{Input: inputs[0], Ranks: ranks}, nil

	case opt.TextIndexScanOp:
		if err := expectInputs(op, inputs, 0); err != nil {
			return nil, err
		}
		e := &memo.TextIndexScanExpr{TextScanPrivate: memo.TextScanPrivate{Index: ed.Index}}
		if ed.Text != "" {
			if e.Text, err = opt.ParseComparison(ed.Text); err != nil {
				return nil, err
			}
		}
		if ed.Grouping != nil {
			e.Grouping = &memo.GroupingComparisons{}
			if e.Grouping.Equality, err = opt.ParseComparisons(ed.Grouping.Equality); err != nil {
				return nil, err
			}
			if e.Grouping.Inequality, err = opt.ParseComparisons(ed.Grouping.Inequality); err != nil {
				return nil, err
			}
		}
		return e, nil

	case opt.FilterOp, opt.FetchOp, opt.TypeFilterOp, opt.MapOp, opt.SortOp:
		if err := expectInputs(op, inputs, 1); err != nil {
			return nil, err
		}
		residual, err := opt.ParseComparisons(ed.Residual)
		if err != nil {
			return nil, err
		}
		if len(residual) > 0 && op != opt.FilterOp {
			return nil, errors.Newf("%s cannot have residual predicates", op)
		}
		return &memo.UnaryExpr{Operator: op, Input: inputs[0], Residual: residual}, nil

	case opt.UnionOp, opt.UnorderedUnionOp:
		return &memo.SetExpr{Operator: op, Inputs: inputs}, nil
	}
	return nil, errors.AssertionFailedf("unhandled operator %s", op)
}

func (d *Definition) inputs(names []string) ([]*memo.Group, error) {
	if len(names) == 0 {
		return nil, nil
	}
	res := make([]*memo.Group, len(names))
	for i, name := range names {
		grp, ok := d.Group(name)
		if !ok {
			return nil, errors.Newf("unknown input group %q", name)
		}
		res[i] = grp
	}
	return res, nil
}

func expectInputs(op opt.Operator, inputs []*memo.Group, n int) error {
	if len(inputs) != n {
		return errors.Newf("%s takes %d inputs, found %d", op, n, len(inputs))
	}
	return nil
}
