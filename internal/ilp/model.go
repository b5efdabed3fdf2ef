// Package ilp is the boundary to the integer-program solve capability.
// Callers build a Model of non-negative variables, a linear objective to
// minimize and linear constraints; a Solver returns an optimal assignment
// or ErrInfeasible / ErrUnbounded.
package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInfeasible = errors.New("ilp: problem is infeasible")
	ErrUnbounded  = errors.New("ilp: problem is unbounded")
	ErrNodeLimit  = errors.New("ilp: node limit reached before optimality was proven")
)

// Sense is the direction of a constraint
type Sense int

const (
	GreaterEq Sense = iota
	LessEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case GreaterEq:
		return ">="
	case LessEq:
		return "<="
	case Equal:
		return "="
	}
	return "?"
}

// Variable is a non-negative decision variable
type Variable struct {
	Name     string
	Cost     float64 // objective coefficient (minimized)
	Integer  bool
	Priority int // higher branches first
}

// Term is one coefficient of a linear expression
type Term struct {
	Var  int
	Coef float64
}

// Constraint is sum(terms) <sense> RHS
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Aggregate is a linear expression that is integral whenever the integer
// variables are. Solvers may branch on it before single variables.
type Aggregate struct {
	Name     string
	Terms    []Term
	Priority int
}

// Model is a minimization problem over non-negative variables
type Model struct {
	Name        string
	Vars        []Variable
	Constraints []Constraint
	Aggregates  []Aggregate
}

// AddVar appends a variable and returns its index
func (m *Model) AddVar(v Variable) int {
	m.Vars = append(m.Vars, v)
	return len(m.Vars) - 1
}

// AddConstraint appends a constraint
func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// AddAggregate appends a branching aggregate
func (m *Model) AddAggregate(a Aggregate) {
	m.Aggregates = append(m.Aggregates, a)
}

// Validate checks term indices and finite coefficients
func (m *Model) Validate() error {
	check := func(owner string, terms []Term) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= len(m.Vars) {
				return fmt.Errorf("ilp: %s references unknown variable %d", owner, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("ilp: %s has non-finite coefficient", owner)
			}
		}
		return nil
	}
	for _, v := range m.Vars {
		if math.IsNaN(v.Cost) || math.IsInf(v.Cost, 0) {
			return fmt.Errorf("ilp: variable %s has non-finite cost", v.Name)
		}
	}
	for _, c := range m.Constraints {
		if err := check("constraint "+c.Name, c.Terms); err != nil {
			return err
		}
	}
	for _, a := range m.Aggregates {
		if err := check("aggregate "+a.Name, a.Terms); err != nil {
			return err
		}
	}
	return nil
}

// Objective evaluates the objective at x
func (m *Model) Objective(x []float64) float64 {
	total := 0.0
	for j, v := range m.Vars {
		total += v.Cost * x[j]
	}
	return total
}

// Feasible reports whether x satisfies every constraint within tol
func (m *Model) Feasible(x []float64, tol float64) bool {
	for _, c := range m.Constraints {
		lhs := eval(c.Terms, x)
		switch c.Sense {
		case GreaterEq:
			if lhs < c.RHS-tol {
				return false
			}
		case LessEq:
			if lhs > c.RHS+tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		}
	}
	return true
}

func eval(terms []Term, x []float64) float64 {
	total := 0.0
	for _, t := range terms {
		total += t.Coef * x[t.Var]
	}
	return total
}

// Result is an optimal (or best found) assignment
type Result struct {
	Objective float64
	Values    []float64 // indexed like Model.Vars
	Bound     float64   // objective of the root relaxation
	Nodes     int
	Optimal   bool
}

// Value returns the assignment of variable j rounded to the nearest integer
func (r *Result) Value(j int) int {
	return int(math.Round(r.Values[j]))
}

// Solver is the external solve capability
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Result, error)
}
