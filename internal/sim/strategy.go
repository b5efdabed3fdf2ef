package sim

import (
	"fmt"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

// Strategy is a fixed policy: one chosen subset per draw
type Strategy map[draw.Draw]draw.Action

// Choose implements Policy. Unmapped draws yield *models.MissingStrategyError.
func (s Strategy) Choose(_ models.Resources, d draw.Draw, _ []draw.Action) (draw.Action, error) {
	a, ok := s[d]
	if !ok {
		return draw.Action{}, &models.MissingStrategyError{Draw: d.IDs()}
	}
	return a, nil
}

// Validate checks that every draw over the catalog is mapped to a legal subset
func (s Strategy) Validate(c *models.Catalog) error {
	for _, d := range draw.AllDraws(c.IDs()) {
		a, ok := s[d]
		if !ok {
			return &models.MissingStrategyError{Draw: d.IDs()}
		}
		if !d.Contains(a) {
			return fmt.Errorf("%w: %s from %s", ErrIllegalAction, a, d)
		}
	}
	return nil
}

// TemplateStrategy maps every draw to using the whole draw
func TemplateStrategy(c *models.Catalog) Strategy {
	s := make(Strategy)
	for _, d := range draw.AllDraws(c.IDs()) {
		s[d] = d.Whole()
	}
	return s
}
