// Package draw holds the three-slot offers of a turn, the legal subsets a
// turn can use, and the weighted sampler that produces offers.
package draw

import (
	"fmt"
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/models"
)

// KeySeparator joins item ids in draw and action keys
const KeySeparator = "-"

// Draw is the canonical (sorted) multiset of three item ids offered on a turn
type Draw [models.MaxSubsetSize]string

// NewDraw sorts the three ids into canonical order
func NewDraw(a, b, c string) Draw {
	d := Draw{a, b, c}
	slices.Sort(d[:])
	return d
}

// ParseDraw parses a key such as "AAA-MAL-MMM"
func ParseDraw(key string) (Draw, error) {
	parts := strings.Split(strings.TrimSpace(key), KeySeparator)
	if len(parts) != models.MaxSubsetSize {
		return Draw{}, fmt.Errorf("draw %q: want %d ids, got %d", key, models.MaxSubsetSize, len(parts))
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return Draw{}, fmt.Errorf("draw %q: empty id", key)
		}
	}
	return NewDraw(parts[0], parts[1], parts[2]), nil
}

// Key returns the ids joined by KeySeparator
func (d Draw) Key() string {
	return strings.Join(d[:], KeySeparator)
}

func (d Draw) String() string {
	return d.Key()
}

// IDs returns the ids as a slice
func (d Draw) IDs() []string {
	return []string{d[0], d[1], d[2]}
}

// Distinct returns the number of distinct ids in the draw
func (d Draw) Distinct() int {
	n := 1
	if d[1] != d[0] {
		n++
	}
	if d[2] != d[1] {
		n++
	}
	return n
}

// Contains reports whether a is a sub-multiset of the draw
func (d Draw) Contains(a Action) bool {
	if a.size < 1 {
		return false
	}
	used := [models.MaxSubsetSize]bool{}
	for _, id := range a.IDs() {
		found := false
		for i := range d {
			if !used[i] && d[i] == id {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Whole returns the action that uses every slot of the draw
func (d Draw) Whole() Action {
	return Action{ids: d, size: models.MaxSubsetSize}
}

// AllDraws returns every multiset of three ids drawn with repetition,
// sorted by key. For ten ids this is C(12,3) = 220 draws.
func AllDraws(ids []string) []Draw {
	var out []Draw
	for i := range ids {
		for j := i; j < len(ids); j++ {
			for k := j; k < len(ids); k++ {
				out = append(out, NewDraw(ids[i], ids[j], ids[k]))
			}
		}
	}
	slices.SortFunc(out, func(a, b Draw) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return out
}
