package loader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/sim"
)

// LoadStrategy reads a fixed strategy with header "draw,choice"; both
// columns are ids joined by "-"
func LoadStrategy(path string) (sim.Strategy, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty strategy file", path)
	}
	drawCol, choiceCol, err := columns(rows[0], "draw", "choice")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s := make(sim.Strategy, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) <= max(drawCol, choiceCol) {
			return nil, fmt.Errorf("%s line %d: missing columns", path, i+2)
		}
		d, err := draw.ParseDraw(row[drawCol])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		a, err := draw.ParseAction(row[choiceCol])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		s[d] = a
	}
	return s, nil
}

// WriteStrategy writes s sorted by draw key
func WriteStrategy(path string, s sim.Strategy) error {
	draws := make([]draw.Draw, 0, len(s))
	for d := range s {
		draws = append(draws, d)
	}
	slices.SortFunc(draws, func(a, b draw.Draw) int { return strings.Compare(a.Key(), b.Key()) })

	rows := make([][]string, 0, len(draws))
	for _, d := range draws {
		rows = append(rows, []string{d.Key(), s[d].Key()})
	}
	return writeRows(path, []string{"draw", "choice"}, rows)
}

// columns locates named header columns (case-insensitive)
func columns(header []string, names ...string) (int, int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = slices.IndexFunc(header, func(h string) bool {
			return strings.EqualFold(strings.TrimSpace(h), name)
		})
		if idx[i] < 0 {
			return 0, 0, fmt.Errorf("missing %q column", name)
		}
	}
	return idx[0], idx[1], nil
}
