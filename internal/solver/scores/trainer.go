package scores

import (
	"context"
	"math"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
)

// TrainingStat is one row of training progress
type TrainingStat struct {
	Episode       int
	ItemsUsed     int
	MovingAverage float64
	MinSoFar      int
	UniqueActions int
	Final         models.Resources
}

// Trainer owns the score table and the running baseline.
// Not safe for concurrent use.
type Trainer struct {
	Domain *models.Domain
	Config models.ScoreConfig
	Scores ComboScores

	rng draw.RandSource
	sim *sim.Simulator

	baseline float64
	returns  *window
	recent   *window
	minItems int
	episode  int
}

// NewTrainer creates a trainer. initial may be nil; it is not modified.
func NewTrainer(domain *models.Domain, cfg models.ScoreConfig, rng draw.RandSource, initial ComboScores) *Trainer {
	scores := make(ComboScores)
	if initial != nil {
		scores = initial.Clone()
	}
	return &Trainer{
		Domain:   domain,
		Config:   cfg,
		Scores:   scores,
		rng:      rng,
		sim:      sim.NewSimulator(domain, rng),
		returns:  newWindow(cfg.BaselineWindow),
		recent:   newWindow(cfg.ReportWindow),
		minItems: math.MaxInt,
	}
}

// SetMaxSteps bounds each training episode
func (t *Trainer) SetMaxSteps(n int) {
	t.sim.MaxSteps = n
}

// Baseline returns the mean of the most recent episode returns
func (t *Trainer) Baseline() float64 {
	return t.baseline
}

// Choose implements sim.Policy: uniform with probability epsilon, otherwise
// proportional to the positivity-shifted scores
func (t *Trainer) Choose(_ models.Resources, _ draw.Draw, actions []draw.Action) (draw.Action, error) {
	if t.rng.Float64() < t.Config.Epsilon {
		return actions[t.rng.IntN(len(actions))], nil
	}
	probs := Probabilities(t.Scores, actions, t.Config.ShiftEpsilon)
	r := t.rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return actions[i], nil
		}
	}
	return actions[len(actions)-1], nil
}

// Probabilities turns scores into a distribution over actions. All-zero
// scores give a uniform distribution; if any score is negative every score
// is shifted by |min| + shift before normalizing.
func Probabilities(s ComboScores, actions []draw.Action, shift float64) []float64 {
	n := len(actions)
	probs := make([]float64, n)
	vals := make([]float64, n)
	allZero := true
	minScore := math.Inf(1)
	for i, a := range actions {
		vals[i] = s.Score(a, 0)
		if vals[i] != 0 {
			allZero = false
		}
		minScore = math.Min(minScore, vals[i])
	}
	if allZero {
		for i := range probs {
			probs[i] = 1 / float64(n)
		}
		return probs
	}
	if minScore < 0 {
		for i := range vals {
			vals[i] += -minScore + shift
		}
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	for i, v := range vals {
		probs[i] = v / total
	}
	return probs
}

// RunEpisode plays one episode and credits every action used in it
func (t *Trainer) RunEpisode() (TrainingStat, error) {
	rec, err := t.sim.Run(t, nil)
	if err != nil {
		return TrainingStat{}, err
	}
	t.episode++

	ret := 1 / float64(rec.ItemsUsed)
	for a, count := range rec.ActionCounts {
		t.Scores[a] = t.Scores.Score(a, 0) + t.Config.Alpha*(ret-t.baseline)*float64(count)
	}

	t.returns.push(ret)
	t.baseline = t.returns.mean()

	t.recent.push(float64(rec.ItemsUsed))
	t.minItems = min(t.minItems, rec.ItemsUsed)

	return TrainingStat{
		Episode:       t.episode,
		ItemsUsed:     rec.ItemsUsed,
		MovingAverage: t.recent.mean(),
		MinSoFar:      t.minItems,
		UniqueActions: rec.UniqueActions(),
		Final:         rec.Final,
	}, nil
}

// Train runs episodes, checking ctx between them. progress may be nil.
func (t *Trainer) Train(ctx context.Context, episodes int, progress func(TrainingStat)) ([]TrainingStat, error) {
	stats := make([]TrainingStat, 0, episodes)
	for i := 0; i < episodes; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		st, err := t.RunEpisode()
		if err != nil {
			return stats, err
		}
		stats = append(stats, st)
		if progress != nil {
			progress(st)
		}
	}
	return stats, nil
}
