// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package memo

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/sql/opt"
	"github.com/cockroachdb/optprops/pkg/util/buildutil"
	"github.com/cockroachdb/optprops/pkg/util/log"
)

// Value is the result of deriving a property for an expression or a group. A
// derivation may produce no result at all, which is different from producing
// an empty result: absent values are skipped when results are combined.
type Value[T any] struct {
	v  T
	ok bool
}

// MakeValue returns an available value.
func MakeValue[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// Absent returns a value that carries no result.
func Absent[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the result and true, or the zero T and false if the value is
// absent.
func (v Value[T]) Get() (T, bool) {
	return v.v, v.ok
}

// Available returns true if the value carries a result.
func (v Value[T]) Available() bool {
	return v.ok
}

// Property describes how a property is derived bottom-up over a memo. Combine
// is the default rule, used for every operator that has no rule of its own.
// Aggregate folds the results of the members of a group into the result of
// the group.
//
// Implementations must not mutate the child or member values they are passed,
// since the same value can be shared by many parents.
type Property[T any] interface {
	// Combine derives the property for e from the values of its children, in
	// declared child order.
	Combine(e RelExpr, children []Value[T]) Value[T]

	// Aggregate derives the property for g from the values of its members, in
	// insertion order. members is empty if the group has no members.
	Aggregate(g *Group, members []Value[T]) Value[T]
}

// RuleInput is passed to a Rule.
type RuleInput[T any] struct {
	// Children holds the values of the child groups of the expression, in
	// declared child order.
	Children []Value[T]

	expr RelExpr
	prop Property[T]
}

// Default returns the result of the default rule for the expression. It is
// computed on demand.
func (in RuleInput[T]) Default() Value[T] {
	return in.prop.Combine(in.expr, in.Children)
}

// Rule derives the property for an expression with a specific operator.
type Rule[T any] func(e RelExpr, in RuleInput[T]) Value[T]

// RuleSet maps operators to the rules that override the default rule for
// them. The zero RuleSet has no overrides.
type RuleSet[T any] struct {
	rules [opt.NumOperators]Rule[T]
}

// Set installs the rule for the given operator, replacing any previous rule.
func (rs *RuleSet[T]) Set(op opt.Operator, rule Rule[T]) {
	if op == opt.UnknownOp || op >= opt.NumOperators {
		panic(errors.AssertionFailedf("cannot set rule for operator %s", op))
	}
	rs.rules[op] = rule
}

// Lookup returns the rule for the given operator, or nil if the operator uses
// the default rule.
func (rs *RuleSet[T]) Lookup(op opt.Operator) Rule[T] {
	if rs == nil || op >= opt.NumOperators {
		return nil
	}
	return rs.rules[op]
}

// DeriveOptions configures a derivation pass.
type DeriveOptions struct {
	// CheckIntegrity verifies the part of the memo reachable from the root
	// before deriving. It is always done in invariants builds.
	CheckIntegrity bool

	// Metrics, if set, is updated at the end of each pass.
	Metrics *DeriveMetrics
}

// DeriveStats counts the work done by a Deriver.
type DeriveStats struct {
	// Groups is the number of groups whose value was computed.
	Groups int
	// Exprs is the number of member expressions whose value was computed.
	Exprs int
	// MemoHits is the number of times a group was reached again after its
	// value had been computed.
	MemoHits int
}

type groupState uint8

const (
	groupNotStarted groupState = iota
	groupInProgress
	groupDone
)

// deriveFrame is an entry of the explicit traversal stack. A group is pushed
// once to be entered, at which point its children are pushed, and once more
// to be exited, at which point the values of all its children are known.
type deriveFrame struct {
	grp  *Group
	exit bool
}

// Deriver derives a property over a memo. Each group is evaluated at most
// once, however many parents reference it and however many times it is
// requested, so a Deriver can be used to query several roots of the same memo
// cheaply. A Deriver is not safe for concurrent use; concurrent derivations
// over the same memo must use separate Derivers.
type Deriver[T any] struct {
	mem   *Memo
	prop  Property[T]
	rules *RuleSet[T]
	opts  DeriveOptions

	// states and values are indexed by GroupID.
	states []groupState
	values []Value[T]

	stack []deriveFrame
	stats DeriveStats
}

// NewDeriver returns a Deriver for the given property over m. rules may be
// nil, in which case every operator uses the default rule.
func NewDeriver[T any](
	m *Memo, prop Property[T], rules *RuleSet[T], opts DeriveOptions,
) *Deriver[T] {
	return &Deriver[T]{mem: m, prop: prop, rules: rules, opts: opts}
}

// Derive evaluates the property for the group with the given ID. A memo that
// contains a cycle reachable from root causes a panic with an assertion
// failure, as does a reference to a group that is not owned by m.
func Derive[T any](
	ctx context.Context,
	m *Memo,
	root GroupID,
	prop Property[T],
	rules *RuleSet[T],
	opts DeriveOptions,
) Value[T] {
	return NewDeriver(m, prop, rules, opts).Group(ctx, m.Group(root))
}

// DeriveExpr evaluates the property for a single expression which does not
// need to be a member of any group. Its children must belong to m.
func DeriveExpr[T any](
	ctx context.Context,
	m *Memo,
	e RelExpr,
	prop Property[T],
	rules *RuleSet[T],
	opts DeriveOptions,
) Value[T] {
	return NewDeriver(m, prop, rules, opts).Expr(ctx, e)
}

// Group returns the value of the property for grp, deriving it and all the
// groups it depends on if needed.
func (d *Deriver[T]) Group(ctx context.Context, grp *Group) Value[T] {
	d.checkOwned(grp)
	d.verify(grp)
	before := d.stats
	d.derive(grp)
	d.finishPass(ctx, before)
	return d.values[grp.id]
}

// Expr returns the value of the property for e, deriving the groups it
// depends on if needed. The value of e itself is not memoized.
func (d *Deriver[T]) Expr(ctx context.Context, e RelExpr) Value[T] {
	if e == nil {
		panic(errors.AssertionFailedf("cannot derive property of nil expression"))
	}
	before := d.stats
	for i, n := 0, e.ChildCount(); i < n; i++ {
		child := e.Child(i)
		d.checkOwned(child)
		d.verify(child)
		d.derive(child)
	}
	res := d.evalExpr(e)
	d.finishPass(ctx, before)
	return res
}

// Lookup returns the value of the property for grp if it has already been
// derived by this Deriver.
func (d *Deriver[T]) Lookup(grp *Group) (Value[T], bool) {
	if !d.mem.Owns(grp) || int(grp.id) >= len(d.states) || d.states[grp.id] != groupDone {
		return Value[T]{}, false
	}
	return d.values[grp.id], true
}

// Stats returns the work done by the Deriver so far.
func (d *Deriver[T]) Stats() DeriveStats {
	return d.stats
}

func (d *Deriver[T]) checkOwned(grp *Group) {
	if !d.mem.Owns(grp) {
		panic(errors.AssertionFailedf("group is not owned by the memo being derived"))
	}
}

func (d *Deriver[T]) verify(grp *Group) {
	if !d.opts.CheckIntegrity && !buildutil.Invariants {
		return
	}
	if err := d.mem.Verify(grp.id); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "memo failed integrity check"))
	}
}

// ensureCapacity grows the per-group tables to cover every group of the memo,
// which may have grown since the last pass.
func (d *Deriver[T]) ensureCapacity() {
	n := d.mem.GroupCount() + 1
	if len(d.states) >= n {
		return
	}
	states := make([]groupState, n)
	copy(states, d.states)
	values := make([]Value[T], n)
	copy(values, d.values)
	d.states, d.values = states, values
}

// derive computes the value of root and of every group reachable from it that
// has not been computed yet. It walks the graph in post-order with an explicit
// stack, so arbitrarily deep plans do not exhaust the goroutine stack.
func (d *Deriver[T]) derive(root *Group) {
	d.ensureCapacity()
	defer func() {
		if r := recover(); r != nil {
			d.abandon()
			panic(r)
		}
	}()
	d.stack = append(d.stack[:0], deriveFrame{grp: root})
	for len(d.stack) > 0 {
		f := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		grp := f.grp

		if f.exit {
			d.values[grp.id] = d.evalGroup(grp)
			d.states[grp.id] = groupDone
			d.stats.Groups++
			continue
		}

		switch d.states[grp.id] {
		case groupDone:
			d.stats.MemoHits++
			continue
		case groupInProgress:
			panic(errors.AssertionFailedf("cycle detected at group %d", grp.id))
		}

		d.states[grp.id] = groupInProgress
		d.stack = append(d.stack, deriveFrame{grp: grp, exit: true})

		// Push children in reverse so that they are visited in declared order.
		for i := len(grp.exprs) - 1; i >= 0; i-- {
			e := grp.exprs[i]
			for j := e.ChildCount() - 1; j >= 0; j-- {
				child := e.Child(j)
				if !d.mem.Owns(child) {
					panic(errors.AssertionFailedf(
						"child %d of %s in group %d is not owned by the memo", j, e.Op(), grp.id,
					))
				}
				d.stack = append(d.stack, deriveFrame{grp: child})
			}
		}
	}
}

// abandon forgets the groups of a pass that failed partway through, so that
// the Deriver can be used again. Values that were completed are kept.
func (d *Deriver[T]) abandon() {
	for i := range d.states {
		if d.states[i] == groupInProgress {
			d.states[i] = groupNotStarted
		}
	}
	d.stack = d.stack[:0]
}

// evalGroup evaluates every member of grp and aggregates the results. The
// values of all child groups must already be known.
func (d *Deriver[T]) evalGroup(grp *Group) Value[T] {
	members := make([]Value[T], len(grp.exprs))
	for i, e := range grp.exprs {
		members[i] = d.evalExpr(e)
	}
	return d.prop.Aggregate(grp, members)
}

// evalExpr evaluates a single expression. The values of its child groups must
// already be known. Covering index wrappers are replaced by the plan they wrap
// before any rule is consulted.
func (d *Deriver[T]) evalExpr(e RelExpr) Value[T] {
	e = Unwrap(e)
	n := e.ChildCount()
	var children []Value[T]
	if n > 0 {
		children = make([]Value[T], n)
		for i := range children {
			child := e.Child(i)
			if d.states[child.id] != groupDone {
				panic(errors.AssertionFailedf("group %d used before it was derived", child.id))
			}
			children[i] = d.values[child.id]
		}
	}
	d.stats.Exprs++
	if rule := d.rules.Lookup(e.Op()); rule != nil {
		return rule(e, RuleInput[T]{Children: children, expr: e, prop: d.prop})
	}
	return d.prop.Combine(e, children)
}

func (d *Deriver[T]) finishPass(ctx context.Context, before DeriveStats) {
	delta := DeriveStats{
		Groups:   d.stats.Groups - before.Groups,
		Exprs:    d.stats.Exprs - before.Exprs,
		MemoHits: d.stats.MemoHits - before.MemoHits,
	}
	if d.opts.Metrics != nil {
		d.opts.Metrics.record(delta)
	}
	log.VEventf(ctx, 1, "derived %d groups, %d exprs, %d memo hits",
		delta.Groups, delta.Exprs, delta.MemoHits)
}
