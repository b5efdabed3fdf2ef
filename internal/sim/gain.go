package sim

import (
	"fmt"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

// Gain sums the yields of every element of the subset, scales each total by
// the bonus for the subset size and truncates to whole units
func Gain(c *models.Catalog, a draw.Action) (models.Resources, error) {
	var raw models.Resources
	for _, id := range a.IDs() {
		it, ok := c.Item(id)
		if !ok {
			return models.Resources{}, fmt.Errorf("unknown item %q in subset %s", id, a)
		}
		raw = raw.Add(it.Yield)
	}

	var gain models.Resources
	var err error
	raw.Each(func(rt models.ResourceType, v int) {
		if err != nil {
			return
		}
		var scaled int
		scaled, err = models.ScaleYield(v, a.Size())
		gain.Set(rt, scaled)
	})
	if err != nil {
		return models.Resources{}, err
	}
	return gain, nil
}

// WeightCost sums the draw weights of the subset's elements
func WeightCost(c *models.Catalog, a draw.Action) int {
	total := 0
	for _, id := range a.IDs() {
		if it, ok := c.Item(id); ok {
			total += it.Weight
		}
	}
	return total
}

// gainCache memoizes Gain per action; every simulator owns one
type gainCache struct {
	catalog *models.Catalog
	gains   map[draw.Action]models.Resources
}

func newGainCache(c *models.Catalog) *gainCache {
	return &gainCache{catalog: c, gains: make(map[draw.Action]models.Resources)}
}

func (g *gainCache) get(a draw.Action) (models.Resources, error) {
	if v, ok := g.gains[a]; ok {
		return v, nil
	}
	v, err := Gain(g.catalog, a)
	if err != nil {
		return models.Resources{}, err
	}
	g.gains[a] = v
	return v, nil
}
