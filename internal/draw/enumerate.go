package draw

// Actions returns the legal subsets of the draw in enumeration order:
// by size, then by slot combination order, duplicates removed.
//
//	A,A,A -> A | A,A | A,A,A
//	A,A,B -> A, B | A,A, A,B | A,A,B          (never B,B)
//	A,B,C -> A, B, C | A,B, A,C, B,C | A,B,C
func (d Draw) Actions() []Action {
	switch d.Distinct() {
	case 1:
		return []Action{
			{ids: [3]string{d[0]}, size: 1},
			{ids: [3]string{d[0], d[0]}, size: 2},
			{ids: d, size: 3},
		}
	default:
		return slotCombinations(d)
	}
}

// slotCombinations treats the draw as three concrete slot elements and
// collects every 1-3 element combination, deduplicated after sorting.
// d is canonical so every combination taken in slot order is sorted.
func slotCombinations(d Draw) []Action {
	out := make([]Action, 0, 7)
	seen := make(map[Action]struct{}, 7)
	add := func(a Action) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	for i := 0; i < 3; i++ {
		add(Action{ids: [3]string{d[i]}, size: 1})
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			add(Action{ids: [3]string{d[i], d[j]}, size: 2})
		}
	}
	add(Action{ids: d, size: 3})
	return out
}
