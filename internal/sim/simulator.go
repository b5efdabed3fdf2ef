// Package sim runs episodes: sample a draw, enumerate its legal subsets, let
// the injected policy choose one, accumulate the gain, until every target
// is met.
package sim

import (
	"errors"
	"fmt"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

// DefaultMaxSteps bounds a single episode
const DefaultMaxSteps = 1_000_000

// ErrStepLimit is returned when an episode does not finish within MaxSteps
var ErrStepLimit = errors.New("episode exceeded step limit")

// ErrIllegalAction is returned when a policy picks a subset the draw cannot supply
var ErrIllegalAction = errors.New("action not contained in draw")

// Policy picks one of the legal actions for a draw
type Policy interface {
	Choose(state models.Resources, d draw.Draw, actions []draw.Action) (draw.Action, error)
}

// PolicyFunc adapts a function to Policy
type PolicyFunc func(state models.Resources, d draw.Draw, actions []draw.Action) (draw.Action, error)

func (f PolicyFunc) Choose(state models.Resources, d draw.Draw, actions []draw.Action) (draw.Action, error) {
	return f(state, d, actions)
}

// Step describes one transition of an episode
type Step struct {
	Index   int
	Before  models.Resources
	After   models.Resources
	Gain    models.Resources
	Draw    draw.Draw
	Actions []draw.Action
	Action  draw.Action
}

// Observer is called after every step; learners hook their updates here
type Observer func(Step)

// EpisodeRecord summarizes one completed episode
type EpisodeRecord struct {
	ItemsUsed    int
	Steps        int
	Final        models.Resources
	ItemCounts   map[string]int
	ActionCounts map[draw.Action]int
}

// UniqueActions returns the number of distinct actions used
func (r *EpisodeRecord) UniqueActions() int {
	return len(r.ActionCounts)
}

// Simulator drives episodes for one domain and one random source.
// It is not safe for concurrent use; give each worker its own.
type Simulator struct {
	Domain   *models.Domain
	MaxSteps int

	sampler *draw.Sampler
	gains   *gainCache
}

// NewSimulator creates a simulator sampling draws from rng
func NewSimulator(domain *models.Domain, rng draw.RandSource) *Simulator {
	return &Simulator{
		Domain:   domain,
		MaxSteps: DefaultMaxSteps,
		sampler:  draw.NewSampler(domain.Catalog, rng),
		gains:    newGainCache(domain.Catalog),
	}
}

// Run plays one episode under policy p. obs may be nil.
func (s *Simulator) Run(p Policy, obs Observer) (*EpisodeRecord, error) {
	rec := &EpisodeRecord{
		ItemCounts:   make(map[string]int),
		ActionCounts: make(map[draw.Action]int),
	}
	var current models.Resources

	for !s.Domain.Done(current) {
		if rec.Steps >= s.MaxSteps {
			return rec, fmt.Errorf("%w: %d steps, reached %s", ErrStepLimit, rec.Steps, current)
		}

		d := s.sampler.Next()
		actions := d.Actions()
		action, err := p.Choose(current, d, actions)
		if err != nil {
			return rec, err
		}
		if !d.Contains(action) {
			return rec, fmt.Errorf("%w: %s from %s", ErrIllegalAction, action, d)
		}

		gain, err := s.gains.get(action)
		if err != nil {
			return rec, err
		}
		next := current.Add(gain)

		for _, id := range action.IDs() {
			rec.ItemCounts[id]++
		}
		rec.ActionCounts[action]++
		rec.ItemsUsed += action.Size()

		if obs != nil {
			obs(Step{
				Index:   rec.Steps,
				Before:  current,
				After:   next,
				Gain:    gain,
				Draw:    d,
				Actions: actions,
				Action:  action,
			})
		}

		current = next
		rec.Steps++
	}

	rec.Final = current
	return rec, nil
}
