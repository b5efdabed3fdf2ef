package draw

import (
	"math/rand/v2"

	"github.com/napolitain/solver-mixology/internal/models"
)

// RandSource is the random source every stochastic component draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a seeded PCG source
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Sampler draws three ids independently with replacement, each slot
// weighted by the item's draw weight
type Sampler struct {
	ids        []string
	cumulative []int
	total      int
	rng        RandSource
}

// NewSampler builds a sampler over the catalog
func NewSampler(c *models.Catalog, rng RandSource) *Sampler {
	s := &Sampler{ids: c.IDs(), rng: rng}
	s.cumulative = make([]int, len(s.ids))
	for i, w := range c.Weights() {
		s.total += w
		s.cumulative[i] = s.total
	}
	return s
}

// Next returns one canonical draw
func (s *Sampler) Next() Draw {
	return NewDraw(s.pick(), s.pick(), s.pick())
}

func (s *Sampler) pick() string {
	r := s.rng.IntN(s.total)
	for i, c := range s.cumulative {
		if r < c {
			return s.ids[i]
		}
	}
	return s.ids[len(s.ids)-1]
}

// Probability returns the chance of drawing exactly d
func (s *Sampler) Probability(d Draw) float64 {
	p := func(id string) float64 {
		prev := 0
		for i, c := range s.cumulative {
			if s.ids[i] == id {
				return float64(c-prev) / float64(s.total)
			}
			prev = c
		}
		return 0
	}
	// ordered arrangements of the multiset: 1, 3 or 6
	perms := map[int]float64{1: 1, 2: 3, 3: 6}[d.Distinct()]
	return perms * p(d[0]) * p(d[1]) * p(d[2])
}
