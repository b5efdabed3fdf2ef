// Package lowerbound computes the minimum number of items needed to reach
// the targets when the player may request any draw freely. Draw
// probabilities are ignored, so the optimum is a lower bound for every
// strategy played against the real sampler.
package lowerbound

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/ilp"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
)

// Pair is one (draw, legal subset) decision of the integer program
type Pair struct {
	Draw   draw.Draw
	Action draw.Action
	Yield  models.Resources // bonus-scaled
	Weight int              // summed draw weights of the subset
}

// Efficiency is total scaled yield per unit of item weight
func (p Pair) Efficiency() float64 {
	if p.Weight == 0 {
		return 0
	}
	return float64(p.Yield.Total()) / float64(p.Weight)
}

// Usage is one subset used by the optimal assignment
type Usage struct {
	Pair
	Quantity int
}

// Solution is the optimal request plan
type Solution struct {
	Items    int // objective: total items used
	Bound    float64
	Achieved models.Resources
	Usages   []Usage // sorted by descending quantity
	Nodes    int
}

// Solver builds the model from a domain and hands it to an ilp.Solver
type Solver struct {
	Domain *models.Domain
	Engine ilp.Solver
}

// NewSolver uses the branch-and-bound engine
func NewSolver(domain *models.Domain) *Solver {
	return &Solver{Domain: domain, Engine: ilp.NewBranchAndBound()}
}

// Pairs enumerates every (draw, legal subset) over the catalog with its
// scaled yield. Ten item types give 220 draws and 1320 pairs.
func Pairs(c *models.Catalog) ([]Pair, error) {
	var pairs []Pair
	for _, d := range draw.AllDraws(c.IDs()) {
		for _, a := range d.Actions() {
			g, err := sim.Gain(c, a)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, Pair{Draw: d, Action: a, Yield: g, Weight: sim.WeightCost(c, a)})
		}
	}
	return pairs, nil
}

// BuildModel returns the integer program: one non-negative integer variable
// per pair, minimize sum(x * size), and for each resource
// sum(x * yield) >= target. Per-size subset counts are declared as
// branching aggregates.
func BuildModel(pairs []Pair, targets models.Resources) *ilp.Model {
	m := &ilp.Model{Name: "minimize_total_items"}
	bySize := make(map[int][]ilp.Term)
	for _, p := range pairs {
		j := m.AddVar(ilp.Variable{
			Name:    p.Draw.Key() + "/" + p.Action.Key(),
			Cost:    float64(p.Action.Size()),
			Integer: true,
		})
		bySize[p.Action.Size()] = append(bySize[p.Action.Size()], ilp.Term{Var: j, Coef: 1})
	}

	for _, rt := range models.AllResourceTypes() {
		terms := make([]ilp.Term, 0, len(pairs))
		for j, p := range pairs {
			if y := p.Yield.Get(rt); y != 0 {
				terms = append(terms, ilp.Term{Var: j, Coef: float64(y)})
			}
		}
		m.AddConstraint(ilp.Constraint{
			Name:  string(rt),
			Terms: terms,
			Sense: ilp.GreaterEq,
			RHS:   float64(targets.Get(rt)),
		})
	}

	for size := models.MaxSubsetSize; size >= 1; size-- {
		if terms := bySize[size]; len(terms) > 0 {
			m.AddAggregate(ilp.Aggregate{Name: fmt.Sprintf("size_%d", size), Terms: terms, Priority: size})
		}
	}
	return m
}

// Solve builds and solves the model. Infeasible or unbounded outcomes are
// reported as configuration errors.
func (s *Solver) Solve(ctx context.Context) (*Solution, error) {
	pairs, err := Pairs(s.Domain.Catalog)
	if err != nil {
		return nil, err
	}
	model := BuildModel(pairs, s.Domain.Targets)

	res, err := s.Engine.Solve(ctx, model)
	if err != nil {
		if errors.Is(err, ilp.ErrInfeasible) || errors.Is(err, ilp.ErrUnbounded) {
			return nil, fmt.Errorf("%w: lower-bound model: %w", models.ErrConfiguration, err)
		}
		return nil, err
	}

	sol := &Solution{Bound: res.Bound, Nodes: res.Nodes}
	for j, p := range pairs {
		q := res.Value(j)
		if q <= 0 {
			continue
		}
		sol.Usages = append(sol.Usages, Usage{Pair: p, Quantity: q})
		sol.Items += q * p.Action.Size()
		sol.Achieved = sol.Achieved.Add(p.Yield.Scale(q))
	}
	slices.SortFunc(sol.Usages, func(a, b Usage) int {
		if a.Quantity != b.Quantity {
			return b.Quantity - a.Quantity
		}
		return strings.Compare(a.Action.Key(), b.Action.Key())
	})
	return sol, nil
}
