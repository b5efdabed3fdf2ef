package qlearn

import (
	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

// StateBin is the resource vector discretized into fixed-width bins
type StateBin [3]int

// BinState maps resources to their bin key
func BinState(r models.Resources, width int) StateBin {
	return StateBin{r.Mox / width, r.Aga / width, r.Lye / width}
}

// Key is the composite key of the flat Q table
type Key struct {
	State  StateBin
	Draw   draw.Draw
	Action draw.Action
}

// Table maps (state bin, draw, action) to an estimated value.
// Keys are only ever added.
type Table struct {
	values map[Key]float64
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{values: make(map[Key]float64)}
}

// Lookup returns the stored value or def when absent
func (t *Table) Lookup(k Key, def float64) float64 {
	if v, ok := t.values[k]; ok {
		return v
	}
	return def
}

// Store writes a value
func (t *Table) Store(k Key, v float64) {
	t.values[k] = v
}

// Len returns the number of stored keys
func (t *Table) Len() int {
	return len(t.values)
}

// Each visits every stored entry in unspecified order
func (t *Table) Each(fn func(Key, float64)) {
	for k, v := range t.values {
		fn(k, v)
	}
}

// MaxOver returns the largest value among actions at (state, draw), reading
// absent entries as def
func (t *Table) MaxOver(state StateBin, d draw.Draw, actions []draw.Action, def float64) float64 {
	best := 0.0
	for i, a := range actions {
		v := t.Lookup(Key{State: state, Draw: d, Action: a}, def)
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}

// UpdateQ moves q toward reward + discount*nextMaxQ by the learning rate
func UpdateQ(q, nextMaxQ, reward, lr, discount float64) float64 {
	return (1-lr)*q + lr*(reward+discount*nextMaxQ)
}
