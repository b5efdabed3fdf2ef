package draw

import (
	"fmt"
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/models"
)

// Action is a canonical (sorted) non-empty sub-multiset of a draw.
// It is comparable and usable as a map key.
type Action struct {
	ids  [models.MaxSubsetSize]string
	size int
}

// NewAction sorts ids into canonical order. Sizes outside 1..3 yield an
// *models.InvalidSubsetSizeError.
func NewAction(ids ...string) (Action, error) {
	if len(ids) < 1 || len(ids) > models.MaxSubsetSize {
		return Action{}, &models.InvalidSubsetSizeError{Size: len(ids)}
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	var a Action
	copy(a.ids[:], sorted)
	a.size = len(sorted)
	return a, nil
}

// MustAction is NewAction for literal ids known to be valid
func MustAction(ids ...string) Action {
	a, err := NewAction(ids...)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAction parses a key such as "MAL-MAL"
func ParseAction(key string) (Action, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Action{}, &models.InvalidSubsetSizeError{Size: 0}
	}
	parts := strings.Split(key, KeySeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return Action{}, fmt.Errorf("action %q: empty id", key)
		}
	}
	return NewAction(parts...)
}

// Size returns the number of items used
func (a Action) Size() int {
	return a.size
}

// IDs returns the ids in canonical order
func (a Action) IDs() []string {
	return slices.Clone(a.ids[:a.size])
}

// Key returns the ids joined by KeySeparator
func (a Action) Key() string {
	return strings.Join(a.ids[:a.size], KeySeparator)
}

func (a Action) String() string {
	return a.Key()
}

// Count returns how many copies of id the action uses
func (a Action) Count(id string) int {
	n := 0
	for _, x := range a.ids[:a.size] {
		if x == id {
			n++
		}
	}
	return n
}
