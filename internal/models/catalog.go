package models

import (
	"fmt"
	"math"
)

// DefaultTargets are the resource thresholds an episode must reach
var DefaultTargets = Resources{Mox: 61050, Aga: 52550, Lye: 70500}

// MaxSubsetSize is the number of slots in a draw and the largest usable subset
const MaxSubsetSize = 3

// bonusPercent maps subset size to its yield multiplier in percent
var bonusPercent = [MaxSubsetSize + 1]int{0, 100, 120, 140}

// Catalog is the fixed, read-only list of item types
type Catalog struct {
	items []ItemType
	index map[string]int
}

// DefaultCatalog returns the ten item types in deterministic order.
// Weights: 5 for single-resource items, 4 for dual, 3 for the triple.
func DefaultCatalog() *Catalog {
	return NewCatalog([]ItemType{
		{ID: "AAA", Yield: Resources{Mox: 0, Aga: 20, Lye: 0}, Weight: 5},
		{ID: "MMM", Yield: Resources{Mox: 20, Aga: 0, Lye: 0}, Weight: 5},
		{ID: "LLL", Yield: Resources{Mox: 0, Aga: 0, Lye: 20}, Weight: 5},
		{ID: "MMA", Yield: Resources{Mox: 20, Aga: 10, Lye: 0}, Weight: 4},
		{ID: "MML", Yield: Resources{Mox: 20, Aga: 0, Lye: 10}, Weight: 4},
		{ID: "AAM", Yield: Resources{Mox: 10, Aga: 20, Lye: 0}, Weight: 4},
		{ID: "ALA", Yield: Resources{Mox: 0, Aga: 20, Lye: 10}, Weight: 4},
		{ID: "MLL", Yield: Resources{Mox: 10, Aga: 0, Lye: 20}, Weight: 4},
		{ID: "ALL", Yield: Resources{Mox: 0, Aga: 10, Lye: 20}, Weight: 4},
		{ID: "MAL", Yield: Resources{Mox: 20, Aga: 20, Lye: 20}, Weight: 3},
	})
}

// NewCatalog builds a catalog from the given items. The slice is copied.
func NewCatalog(items []ItemType) *Catalog {
	c := &Catalog{
		items: make([]ItemType, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, it := range c.items {
		c.index[it.ID] = i
	}
	return c
}

// Item looks up an item type by id
func (c *Catalog) Item(id string) (ItemType, bool) {
	i, ok := c.index[id]
	if !ok {
		return ItemType{}, false
	}
	return c.items[i], true
}

// Items returns a copy of all item types in catalog order
func (c *Catalog) Items() []ItemType {
	out := make([]ItemType, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns item ids in catalog order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

// Weights returns draw weights parallel to IDs
func (c *Catalog) Weights() []int {
	w := make([]int, len(c.items))
	for i, it := range c.items {
		w[i] = it.Weight
	}
	return w
}

// Len returns the number of item types
func (c *Catalog) Len() int {
	return len(c.items)
}

// Validate checks ids are unique and non-empty, yields non-negative and weights positive
func (c *Catalog) Validate() error {
	if len(c.items) == 0 {
		return fmt.Errorf("%w: empty catalog", ErrConfiguration)
	}
	if len(c.index) != len(c.items) {
		return fmt.Errorf("%w: duplicate item ids", ErrConfiguration)
	}
	for _, it := range c.items {
		if it.ID == "" {
			return fmt.Errorf("%w: item with empty id", ErrConfiguration)
		}
		if it.Weight <= 0 {
			return fmt.Errorf("%w: item %s has non-positive weight %d", ErrConfiguration, it.ID, it.Weight)
		}
		if it.Yield.Mox < 0 || it.Yield.Aga < 0 || it.Yield.Lye < 0 {
			return fmt.Errorf("%w: item %s has negative yield", ErrConfiguration, it.ID)
		}
	}
	return nil
}

// Bonus returns the yield multiplier for a subset of the given size
func Bonus(size int) (float64, error) {
	if size < 1 || size > MaxSubsetSize {
		return 0, &InvalidSubsetSizeError{Size: size}
	}
	return float64(bonusPercent[size]) / 100, nil
}

// ScaleYield multiplies a raw yield by the bonus for size and truncates
// toward zero
func ScaleYield(raw, size int) (int, error) {
	b, err := Bonus(size)
	if err != nil {
		return 0, err
	}
	return truncate(float64(raw) * b), nil
}

func truncate(v float64) int {
	return int(math.Trunc(v))
}

// Domain bundles the immutable catalog and targets shared by every solver
type Domain struct {
	Catalog *Catalog
	Targets Resources
}

// NewDomain returns the default catalog and targets
func NewDomain() *Domain {
	return &Domain{Catalog: DefaultCatalog(), Targets: DefaultTargets}
}

// NewDomainWithTargets returns the default catalog with custom targets
func NewDomainWithTargets(targets Resources) *Domain {
	return &Domain{Catalog: DefaultCatalog(), Targets: targets}
}

// Done reports whether the resources reached the domain targets
func (d *Domain) Done(r Resources) bool {
	return r.Meets(d.Targets)
}
