// Package qlearn implements the tabular epsilon-greedy Q-learner over
// binned resource states.
package qlearn

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
)

// EpisodeResult is reported after each training episode
type EpisodeResult struct {
	Episode   int
	Steps     int
	ItemsUsed int
	Final     models.Resources
	TableSize int
}

// Trainer owns the Q table and drives training episodes.
// Not safe for concurrent use.
type Trainer struct {
	Domain *models.Domain
	Config models.QLearningConfig
	Table  *Table

	rng draw.RandSource
	sim *sim.Simulator
}

// NewTrainer creates a trainer with an empty table
func NewTrainer(domain *models.Domain, cfg models.QLearningConfig, rng draw.RandSource) *Trainer {
	return &Trainer{
		Domain: domain,
		Config: cfg,
		Table:  NewTable(),
		rng:    rng,
		sim:    sim.NewSimulator(domain, rng),
	}
}

// SetMaxSteps bounds each training episode
func (t *Trainer) SetMaxSteps(n int) {
	t.sim.MaxSteps = n
}

// Choose implements sim.Policy with epsilon-greedy selection. Greedy ties go
// to the earliest action in enumeration order; unseen actions read as 0.
func (t *Trainer) Choose(state models.Resources, d draw.Draw, actions []draw.Action) (draw.Action, error) {
	if t.rng.Float64() < t.Config.Epsilon {
		return actions[t.rng.IntN(len(actions))], nil
	}
	return t.Greedy(state, d, actions), nil
}

// Greedy returns the highest-valued action without exploration
func (t *Trainer) Greedy(state models.Resources, d draw.Draw, actions []draw.Action) draw.Action {
	bin := BinState(state, t.Config.BinWidth)
	best := actions[0]
	bestQ := t.Table.Lookup(Key{State: bin, Draw: d, Action: best}, 0)
	for _, a := range actions[1:] {
		if q := t.Table.Lookup(Key{State: bin, Draw: d, Action: a}, 0); q > bestQ {
			best, bestQ = a, q
		}
	}
	return best
}

// Reward is the weighted reduction of distance to target minus the step penalty
func (t *Trainer) Reward(before, gain models.Resources) float64 {
	w := t.Config.Weights
	progress := func(rt models.ResourceType) float64 {
		target := float64(t.Domain.Targets.Get(rt))
		cur := float64(before.Get(rt))
		next := cur + float64(gain.Get(rt))
		return math.Abs(target-cur) - math.Abs(target-next)
	}
	r := w.Mox*progress(models.Mox) + w.Aga*progress(models.Aga) + w.Lye*progress(models.Lye)
	return r - t.Config.StepPenalty
}

// observe applies the TD update for one step. The bootstrap reads the next
// bin under the same draw as the current step.
func (t *Trainer) observe(s sim.Step) {
	width := t.Config.BinWidth
	cur := BinState(s.Before, width)
	next := BinState(s.After, width)

	reward := t.Reward(s.Before, s.Gain)
	nextMax := t.Table.MaxOver(next, s.Draw, s.Actions, 0)

	k := Key{State: cur, Draw: s.Draw, Action: s.Action}
	q := t.Table.Lookup(k, 0)
	t.Table.Store(k, UpdateQ(q, nextMax, reward, t.Config.Alpha, t.Config.Gamma))
}

// RunEpisode plays and learns from one episode
func (t *Trainer) RunEpisode() (*sim.EpisodeRecord, error) {
	return t.sim.Run(t, t.observe)
}

// Train runs episodes until done or ctx is cancelled, checking ctx between
// episodes. progress may be nil.
func (t *Trainer) Train(ctx context.Context, episodes int, progress func(EpisodeResult)) error {
	for ep := 1; ep <= episodes; ep++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := t.RunEpisode()
		if err != nil {
			return err
		}
		if progress != nil {
			progress(EpisodeResult{
				Episode:   ep,
				Steps:     rec.Steps,
				ItemsUsed: rec.ItemsUsed,
				Final:     rec.Final,
				TableSize: t.Table.Len(),
			})
		}
	}
	return nil
}

// PolicyEntry is the generalized choice for one draw
type PolicyEntry struct {
	Draw     draw.Draw
	Action   draw.Action
	AverageQ float64
	Bins     int // state bins observed for the chosen action
}

// Generalize averages Q across all observed state bins per (draw, action)
// and picks the highest average per draw. Ties go to enumeration order.
// Only draws seen during training are returned, sorted by draw key.
func (t *Trainer) Generalize() []PolicyEntry {
	type acc struct {
		sum float64
		n   int
	}
	byDraw := make(map[draw.Draw]map[draw.Action]*acc)
	t.Table.Each(func(k Key, v float64) {
		m, ok := byDraw[k.Draw]
		if !ok {
			m = make(map[draw.Action]*acc)
			byDraw[k.Draw] = m
		}
		a, ok := m[k.Action]
		if !ok {
			a = &acc{}
			m[k.Action] = a
		}
		a.sum += v
		a.n++
	})

	out := make([]PolicyEntry, 0, len(byDraw))
	for d, m := range byDraw {
		var best PolicyEntry
		found := false
		for _, a := range d.Actions() {
			v, ok := m[a]
			if !ok {
				continue
			}
			avg := v.sum / float64(v.n)
			if !found || avg > best.AverageQ {
				best = PolicyEntry{Draw: d, Action: a, AverageQ: avg, Bins: v.n}
				found = true
			}
		}
		if found {
			out = append(out, best)
		}
	}
	slices.SortFunc(out, func(a, b PolicyEntry) int {
		return strings.Compare(a.Draw.Key(), b.Draw.Key())
	})
	return out
}

// Strategy converts the generalized policy into a fixed strategy, filling
// draws never seen in training from fallback
func (t *Trainer) Strategy(fallback sim.Strategy) sim.Strategy {
	s := make(sim.Strategy, len(fallback))
	for d, a := range fallback {
		s[d] = a
	}
	for _, e := range t.Generalize() {
		s[e.Draw] = e.Action
	}
	return s
}
