// Package stats runs many episodes under a fixed strategy and summarizes
// the distribution of items used, per-item usage and final resources.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
)

// ItemSummary aggregates one item id across runs
type ItemSummary struct {
	ID       string
	Average  float64
	Min, Max int
	Total    int
}

// ResourceSummary aggregates one resource across runs. MinRun and MaxRun are
// the full final triples of the runs with the extreme value.
type ResourceSummary struct {
	Type    models.ResourceType
	Average float64
	MinRun  models.Resources
	MaxRun  models.Resources
}

// Summary is the result of an aggregation
type Summary struct {
	Runs         int
	AverageItems float64
	MinItems     int
	MaxItems     int
	Items        []ItemSummary
	Resources    []ResourceSummary
}

// Options control an aggregation run
type Options struct {
	Workers  int
	Seed     uint64
	MaxSteps int
	// Progress is called once per finished run, possibly from several goroutines
	Progress func()
}

// Run plays n episodes under strategy and returns the per-run records and
// their summary. Records are ordered by run index; for a fixed seed and
// worker count the result is deterministic.
func Run(ctx context.Context, domain *models.Domain, strategy sim.Strategy, n int, opts Options) ([]*sim.EpisodeRecord, *Summary, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: runs must be positive, got %d", models.ErrConfiguration, n)
	}
	workers := max(1, min(opts.Workers, n))

	records := make([]*sim.EpisodeRecord, n)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := sim.NewSimulator(domain, draw.NewRand(opts.Seed, uint64(w)))
			if opts.MaxSteps > 0 {
				s.MaxSteps = opts.MaxSteps
			}
			for i := w; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				rec, err := s.Run(strategy, nil)
				if err != nil {
					errs[w] = fmt.Errorf("run %d: %w", i, err)
					return
				}
				records[i] = rec
				if opts.Progress != nil {
					opts.Progress()
				}
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return records, Summarize(records, domain.Catalog.IDs()), nil
}

// Summarize reduces records. ids fixes the order of the item summaries.
func Summarize(records []*sim.EpisodeRecord, ids []string) *Summary {
	n := len(records)
	s := &Summary{Runs: n}
	if n == 0 {
		return s
	}

	totals := make([]float64, n)
	s.MinItems, s.MaxItems = records[0].ItemsUsed, records[0].ItemsUsed
	for i, r := range records {
		totals[i] = float64(r.ItemsUsed)
		s.MinItems = min(s.MinItems, r.ItemsUsed)
		s.MaxItems = max(s.MaxItems, r.ItemsUsed)
	}
	s.AverageItems = stat.Mean(totals, nil)

	for _, id := range ids {
		is := ItemSummary{ID: id, Min: records[0].ItemCounts[id], Max: records[0].ItemCounts[id]}
		for _, r := range records {
			c := r.ItemCounts[id]
			is.Total += c
			is.Min = min(is.Min, c)
			is.Max = max(is.Max, c)
		}
		is.Average = float64(is.Total) / float64(n)
		s.Items = append(s.Items, is)
	}

	for _, rt := range models.AllResourceTypes() {
		vals := make([]float64, n)
		minRun, maxRun := records[0], records[0]
		for i, r := range records {
			v := r.Final.Get(rt)
			vals[i] = float64(v)
			if v < minRun.Final.Get(rt) {
				minRun = r
			}
			if v > maxRun.Final.Get(rt) {
				maxRun = r
			}
		}
		s.Resources = append(s.Resources, ResourceSummary{
			Type:    rt,
			Average: stat.Mean(vals, nil),
			MinRun:  minRun.Final,
			MaxRun:  maxRun.Final,
		})
	}
	return s
}
