// Package scores implements the draw-independent combo-score learner:
// a stochastic policy sampling subsets in proportion to learned scores,
// credited once per episode with the Monte-Carlo return 1/items.
package scores

import (
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

// ComboScores maps an action to its learned score. Absent actions score 0.
type ComboScores map[draw.Action]float64

// Score returns the stored score or def when absent
func (s ComboScores) Score(a draw.Action, def float64) float64 {
	if v, ok := s[a]; ok {
		return v
	}
	return def
}

// Entry is one (action, score) row
type Entry struct {
	Action draw.Action
	Score  float64
}

// Sorted returns entries by descending score, then by action key
func (s ComboScores) Sorted() []Entry {
	out := make([]Entry, 0, len(s))
	for a, v := range s {
		out = append(out, Entry{Action: a, Score: v})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Action.Key(), b.Action.Key())
	})
	return out
}

// Clone returns an independent copy
func (s ComboScores) Clone() ComboScores {
	out := make(ComboScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// BestAction is the highest-scoring legal subset for one draw
type BestAction struct {
	Draw   draw.Draw
	Action draw.Action
	Score  float64
}

// BestActions picks, for every draw over the catalog, the legal subset with
// the highest score. Ties go to enumeration order.
func BestActions(c *models.Catalog, s ComboScores) []BestAction {
	draws := draw.AllDraws(c.IDs())
	out := make([]BestAction, 0, len(draws))
	for _, d := range draws {
		actions := d.Actions()
		best := BestAction{Draw: d, Action: actions[0], Score: s.Score(actions[0], 0)}
		for _, a := range actions[1:] {
			if v := s.Score(a, 0); v > best.Score {
				best.Action, best.Score = a, v
			}
		}
		out = append(out, best)
	}
	return out
}
