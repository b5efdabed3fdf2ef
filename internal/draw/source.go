package draw

// SequenceSource replays fixed integer and float sequences, cycling when
// exhausted. Integers are reduced modulo n.
type SequenceSource struct {
	ints   []int
	floats []float64
	i, f   int
}

// NewSequenceSource returns a source replaying the given values. A nil
// slice replays zero.
func NewSequenceSource(ints []int, floats []float64) *SequenceSource {
	return &SequenceSource{ints: ints, floats: floats}
}

func (s *SequenceSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.i%len(s.ints)]
	s.i++
	return ((v % n) + n) % n
}

func (s *SequenceSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}
