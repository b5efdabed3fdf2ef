package scores

import "gonum.org/v1/gonum/stat"

// window keeps the most recent values up to a fixed size
type window struct {
	size   int
	values []float64
}

func newWindow(size int) *window {
	size = max(size, 1)
	return &window{size: size, values: make([]float64, 0, size)}
}

func (w *window) push(v float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
	}
	w.values = append(w.values, v)
}

func (w *window) mean() float64 {
	if len(w.values) == 0 {
		return 0
	}
	return stat.Mean(w.values, nil)
}
