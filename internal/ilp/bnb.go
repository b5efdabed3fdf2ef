package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// BranchAndBound solves integer programs by depth-first branch and bound
// over simplex relaxations. Aggregates are branched before variables.
type BranchAndBound struct {
	Tol      float64 // simplex zero tolerance
	IntTol   float64 // distance from an integer still treated as integral
	MaxNodes int
}

// NewBranchAndBound returns a solver with default tolerances
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{Tol: 1e-10, IntTol: 1e-6, MaxNodes: 100_000}
}

// node carries the branch rows added below the root
type node struct {
	rows  []Constraint
	depth int
}

// Solve implements Solver
func (b *BranchAndBound) Solve(ctx context.Context, m *Model) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	r, err := presolve(m)
	if err != nil {
		return nil, err
	}
	red := r.model

	if len(red.Vars) == 0 {
		x := make([]float64, len(m.Vars))
		if !m.Feasible(x, b.IntTol) {
			return nil, ErrInfeasible
		}
		return &Result{Values: x, Optimal: true}, nil
	}

	integral := integralObjective(red)
	bound := func(obj float64) float64 {
		if integral {
			return math.Ceil(obj - b.IntTol)
		}
		return obj
	}

	var (
		best    []float64
		bestObj = math.Inf(1)
		nodes   int
		rootObj float64
	)
	accept := func(x []float64) {
		if !red.Feasible(x, b.IntTol) {
			return
		}
		if obj := red.Objective(x); obj < bestObj-b.IntTol {
			best, bestObj = x, obj
		}
	}

	stack := []node{{}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if nodes >= b.MaxNodes {
			if best == nil {
				return nil, ErrNodeLimit
			}
			return b.result(r, best, bestObj, rootObj, nodes, false), ErrNodeLimit
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, x, err := b.relax(red, nd.rows)
		nodes++
		if err != nil {
			if nd.depth == 0 {
				return nil, err
			}
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			return nil, err
		}
		if nd.depth == 0 {
			rootObj = obj
		}
		if best != nil && bound(obj) >= bestObj-b.IntTol {
			continue
		}

		expr, val, fractional := b.pickBranch(red, x)
		if fractional {
			accept(b.roundUp(red, x))
		} else {
			accept(b.snap(red, x))
		}
		if best != nil && bound(rootObj) >= bestObj-b.IntTol {
			break
		}
		if !fractional {
			continue
		}

		down := Constraint{Name: "branch", Terms: expr, Sense: LessEq, RHS: math.Floor(val)}
		up := Constraint{Name: "branch", Terms: expr, Sense: GreaterEq, RHS: math.Ceil(val)}
		stack = append(stack,
			node{rows: extend(nd.rows, up), depth: nd.depth + 1},
			node{rows: extend(nd.rows, down), depth: nd.depth + 1},
		)
	}

	if best == nil {
		return nil, ErrInfeasible
	}
	return b.result(r, best, bestObj, rootObj, nodes, true), nil
}

func (b *BranchAndBound) result(r *reduced, x []float64, obj, root float64, nodes int, optimal bool) *Result {
	return &Result{
		Objective: obj,
		Values:    r.expand(x),
		Bound:     root,
		Nodes:     nodes,
		Optimal:   optimal,
	}
}

func extend(rows []Constraint, c Constraint) []Constraint {
	out := make([]Constraint, len(rows), len(rows)+1)
	copy(out, rows)
	return append(out, c)
}

// pickBranch returns the first fractional aggregate (by priority), else the
// most fractional integer variable of the highest priority
func (b *BranchAndBound) pickBranch(m *Model, x []float64) ([]Term, float64, bool) {
	var (
		aggTerms []Term
		aggVal   float64
		aggPrio  = math.MinInt
	)
	for _, a := range m.Aggregates {
		v := eval(a.Terms, x)
		if b.fractional(v) && a.Priority > aggPrio {
			aggTerms, aggVal, aggPrio = a.Terms, v, a.Priority
		}
	}
	if aggTerms != nil {
		return aggTerms, aggVal, true
	}

	bestVar, bestPrio, bestFrac := -1, math.MinInt, 0.0
	for j, v := range m.Vars {
		if !v.Integer || !b.fractional(x[j]) {
			continue
		}
		f := x[j] - math.Floor(x[j])
		dist := math.Min(f, 1-f)
		if v.Priority > bestPrio || (v.Priority == bestPrio && dist > bestFrac) {
			bestVar, bestPrio, bestFrac = j, v.Priority, dist
		}
	}
	if bestVar < 0 {
		return nil, 0, false
	}
	return []Term{{Var: bestVar, Coef: 1}}, x[bestVar], true
}

func (b *BranchAndBound) fractional(v float64) bool {
	return math.Abs(v-math.Round(v)) > b.IntTol
}

// snap rounds integer variables that are already integral within tolerance
func (b *BranchAndBound) snap(m *Model, x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range m.Vars {
		out[j] = x[j]
		if v.Integer {
			out[j] = math.Round(x[j])
		}
	}
	return out
}

// roundUp is the incumbent heuristic: ceil every integer variable. It is
// always feasible for covering models.
func (b *BranchAndBound) roundUp(m *Model, x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range m.Vars {
		out[j] = x[j]
		if v.Integer {
			out[j] = math.Ceil(x[j] - b.IntTol)
		}
	}
	return out
}

// relax solves the LP relaxation with the extra branch rows using gonum's
// simplex on the standard form  min c'x  s.t.  Ax = b, x >= 0.
// Every inequality row gets its own slack column.
func (b *BranchAndBound) relax(m *Model, extra []Constraint) (float64, []float64, error) {
	n := len(m.Vars)
	rows := make([]Constraint, 0, len(m.Constraints)+len(extra))
	for _, c := range append(append([]Constraint(nil), m.Constraints...), extra...) {
		c = normalize(c)
		if len(c.Terms) == 0 || allZeroTerms(c.Terms) {
			if !trivially(c) {
				return 0, nil, ErrInfeasible
			}
			continue
		}
		rows = append(rows, c)
	}
	if len(rows) == 0 {
		// every cost is non-negative after presolve or the model is unbounded
		for _, v := range m.Vars {
			if v.Cost < 0 {
				return 0, nil, ErrUnbounded
			}
		}
		return 0, make([]float64, n), nil
	}

	slacks := 0
	for _, c := range rows {
		if c.Sense != Equal {
			slacks++
		}
	}
	cols := n + slacks
	a := mat.NewDense(len(rows), cols, nil)
	rhs := make([]float64, len(rows))
	s := n
	for i, c := range rows {
		for _, t := range c.Terms {
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coef)
		}
		switch c.Sense {
		case GreaterEq:
			a.Set(i, s, -1)
			s++
		case LessEq:
			a.Set(i, s, 1)
			s++
		}
		rhs[i] = c.RHS
	}
	cost := make([]float64, cols)
	for j, v := range m.Vars {
		cost[j] = v.Cost
	}

	obj, x, err := lp.Simplex(cost, a, rhs, b.Tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return 0, nil, ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return 0, nil, ErrUnbounded
	case err != nil:
		return 0, nil, fmt.Errorf("ilp: simplex: %w", err)
	}
	return obj, x[:n], nil
}

// normalize flips a row so its right-hand side is non-negative
func normalize(c Constraint) Constraint {
	if c.RHS >= 0 {
		return c
	}
	terms := make([]Term, len(c.Terms))
	for i, t := range c.Terms {
		terms[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	sense := c.Sense
	switch sense {
	case GreaterEq:
		sense = LessEq
	case LessEq:
		sense = GreaterEq
	}
	return Constraint{Name: c.Name, Terms: terms, Sense: sense, RHS: -c.RHS}
}

func allZeroTerms(terms []Term) bool {
	for _, t := range terms {
		if t.Coef != 0 {
			return false
		}
	}
	return true
}

// trivially reports whether 0 <sense> RHS holds
func trivially(c Constraint) bool {
	switch c.Sense {
	case GreaterEq:
		return c.RHS <= 0
	case LessEq:
		return c.RHS >= 0
	}
	return c.RHS == 0
}

// integralObjective reports whether every objective value at an integer
// point is an integer
func integralObjective(m *Model) bool {
	for _, v := range m.Vars {
		if v.Cost == 0 {
			continue
		}
		if !v.Integer || v.Cost != math.Trunc(v.Cost) {
			return false
		}
	}
	return true
}
