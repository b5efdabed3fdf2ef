package solver

import (
	"context"
	"fmt"
	"sort"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
	"github.com/napolitain/solver-mixology/internal/stats"
)

// GreedyStrategy builds a complete fixed strategy: for every draw, pick the
// subset with the best target-weighted scaled yield per item. Resources are
// weighted by their share of the total target so the scarcer-to-reach
// resource counts for more. Ties go to enumeration order.
func GreedyStrategy(domain *models.Domain) (sim.Strategy, error) {
	t := domain.Targets
	total := float64(t.Total())
	if total <= 0 {
		return sim.TemplateStrategy(domain.Catalog), nil
	}
	w := [3]float64{float64(t.Mox) / total, float64(t.Aga) / total, float64(t.Lye) / total}

	s := make(sim.Strategy)
	for _, d := range draw.AllDraws(domain.Catalog.IDs()) {
		var (
			best      draw.Action
			bestScore = -1.0
		)
		for _, a := range d.Actions() {
			g, err := sim.Gain(domain.Catalog, a)
			if err != nil {
				return nil, err
			}
			score := (w[0]*float64(g.Mox) + w[1]*float64(g.Aga) + w[2]*float64(g.Lye)) / float64(a.Size())
			if score > bestScore {
				best, bestScore = a, score
			}
		}
		s[d] = best
	}
	return s, nil
}

// StrategyResult holds the simulated summary of one named strategy
type StrategyResult struct {
	Name    string
	Summary *stats.Summary
}

// CompareStrategies simulates every strategy for the same number of runs and
// returns the one with the lowest average items used along with all results
// sorted by name
func CompareStrategies(
	ctx context.Context,
	domain *models.Domain,
	strategies map[string]sim.Strategy,
	runs int,
	opts stats.Options,
) (string, []StrategyResult, error) {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		bestName string
		bestAvg  float64
		results  []StrategyResult
	)
	for _, name := range names {
		_, summary, err := stats.Run(ctx, domain, strategies[name], runs, opts)
		if err != nil {
			return "", results, fmt.Errorf("strategy %s: %w", name, err)
		}
		results = append(results, StrategyResult{Name: name, Summary: summary})
		if bestName == "" || summary.AverageItems < bestAvg {
			bestName, bestAvg = name, summary.AverageItems
		}
	}
	return bestName, results, nil
}
