package models

import "fmt"

// ResourceType represents the three resources an episode accumulates
type ResourceType string

const (
	Mox ResourceType = "mox"
	Aga ResourceType = "aga"
	Lye ResourceType = "lye"
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Mox, Aga, Lye}
}

// Resources is a deterministic struct for the three resource counters
// (replaces map[ResourceType]int)
type Resources struct {
	Mox int `yaml:"mox"`
	Aga int `yaml:"aga"`
	Lye int `yaml:"lye"`
}

// Get returns the counter for a resource type
func (r Resources) Get(rt ResourceType) int {
	switch rt {
	case Mox:
		return r.Mox
	case Aga:
		return r.Aga
	case Lye:
		return r.Lye
	}
	return 0
}

// Set sets the counter for a resource type
func (r *Resources) Set(rt ResourceType, v int) {
	switch rt {
	case Mox:
		r.Mox = v
	case Aga:
		r.Aga = v
	case Lye:
		r.Lye = v
	}
}

// Each iterates over all resources in deterministic order
func (r Resources) Each(fn func(ResourceType, int)) {
	fn(Mox, r.Mox)
	fn(Aga, r.Aga)
	fn(Lye, r.Lye)
}

// Add returns the component-wise sum
func (r Resources) Add(o Resources) Resources {
	return Resources{Mox: r.Mox + o.Mox, Aga: r.Aga + o.Aga, Lye: r.Lye + o.Lye}
}

// Scale multiplies every counter by k
func (r Resources) Scale(k int) Resources {
	return Resources{Mox: r.Mox * k, Aga: r.Aga * k, Lye: r.Lye * k}
}

// Total returns the sum of all three counters
func (r Resources) Total() int {
	return r.Mox + r.Aga + r.Lye
}

// Meets reports whether every counter is at or above the target
func (r Resources) Meets(target Resources) bool {
	return r.Mox >= target.Mox && r.Aga >= target.Aga && r.Lye >= target.Lye
}

// IsZero reports whether no counter is positive
func (r Resources) IsZero() bool {
	return r.Mox <= 0 && r.Aga <= 0 && r.Lye <= 0
}

func (r Resources) String() string {
	return fmt.Sprintf("mox=%d aga=%d lye=%d", r.Mox, r.Aga, r.Lye)
}

// ItemType is one entry of the fixed catalog
type ItemType struct {
	ID     string
	Yield  Resources
	Weight int // relative draw weight, always positive
}

// TotalYield returns the unscaled yield summed over all resources
func (i ItemType) TotalYield() int {
	return i.Yield.Total()
}
