package ilp

import (
	"fmt"
	"strings"
)

// reduced is a model with identical columns merged and empty columns fixed
// at zero. rep[k] is the original index standing for reduced variable k.
type reduced struct {
	model *Model
	rep   []int
	n     int // original variable count
}

// presolve merges variables whose cost, integrality, priority and every
// constraint and aggregate coefficient are identical. Any split of a merged
// value among its members is equivalent, so the representative takes it all.
func presolve(m *Model) (*reduced, error) {
	n := len(m.Vars)
	consCoef := make([][]float64, n)
	aggCoef := make([][]float64, n)
	for j := range n {
		consCoef[j] = make([]float64, len(m.Constraints))
		aggCoef[j] = make([]float64, len(m.Aggregates))
	}
	for i, c := range m.Constraints {
		for _, t := range c.Terms {
			consCoef[t.Var][i] += t.Coef
		}
	}
	for i, a := range m.Aggregates {
		for _, t := range a.Terms {
			aggCoef[t.Var][i] += t.Coef
		}
	}

	bySig := make(map[string]int)
	r := &reduced{model: &Model{Name: m.Name}, n: n}
	for j, v := range m.Vars {
		if allZero(consCoef[j]) {
			if v.Cost < 0 {
				return nil, fmt.Errorf("%w: variable %s has negative cost and no constraints", ErrUnbounded, v.Name)
			}
			continue
		}
		sig := signature(v, consCoef[j], aggCoef[j])
		if _, ok := bySig[sig]; !ok {
			bySig[sig] = r.model.AddVar(v)
			r.rep = append(r.rep, j)
		}
	}

	column := func(coef [][]float64, i int) []Term {
		var terms []Term
		for k, j := range r.rep {
			if c := coef[j][i]; c != 0 {
				terms = append(terms, Term{Var: k, Coef: c})
			}
		}
		return terms
	}
	for i, c := range m.Constraints {
		r.model.AddConstraint(Constraint{Name: c.Name, Terms: column(consCoef, i), Sense: c.Sense, RHS: c.RHS})
	}
	for i, a := range m.Aggregates {
		r.model.AddAggregate(Aggregate{Name: a.Name, Terms: column(aggCoef, i), Priority: a.Priority})
	}
	return r, nil
}

// expand maps reduced values back to the original variable space
func (r *reduced) expand(x []float64) []float64 {
	out := make([]float64, r.n)
	for k, j := range r.rep {
		out[j] = x[k]
	}
	return out
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func signature(v Variable, cons, agg []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v|%t|%d|", v.Cost, v.Integer, v.Priority)
	for _, x := range cons {
		fmt.Fprintf(&b, "%v,", x)
	}
	b.WriteByte('|')
	for _, x := range agg {
		fmt.Fprintf(&b, "%v,", x)
	}
	return b.String()
}
