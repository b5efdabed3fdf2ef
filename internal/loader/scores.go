package loader

import (
	"fmt"
	"strconv"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/solver/scores"
)

// WriteComboScores writes "Combo,Score" rows by descending score. Scores use
// the shortest representation that parses back to the same float64.
func WriteComboScores(path string, s scores.ComboScores) error {
	entries := s.Sorted()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Action.Key(), formatFloat(e.Score)})
	}
	return writeRows(path, []string{"Combo", "Score"}, rows)
}

// LoadComboScores reads a file written by WriteComboScores
func LoadComboScores(path string) (scores.ComboScores, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	out := make(scores.ComboScores)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%s line %d: want 2 columns, got %d", path, i+1, len(row))
		}
		a, err := draw.ParseAction(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		out[a] = v
	}
	return out, nil
}

// WriteBestActions writes "Draw,Best Subset,Score" for every draw
func WriteBestActions(path string, best []scores.BestAction) error {
	rows := make([][]string, 0, len(best))
	for _, b := range best {
		rows = append(rows, []string{b.Draw.Key(), b.Action.Key(), formatFloat(b.Score)})
	}
	return writeRows(path, []string{"Draw", "Best Subset", "Score"}, rows)
}

// WriteTrainingStats writes one progress row per episode
func WriteTrainingStats(path string, stats []scores.TrainingStat) error {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			strconv.Itoa(st.Episode),
			strconv.Itoa(st.ItemsUsed),
			formatFloat(st.MovingAverage),
			strconv.Itoa(st.MinSoFar),
			strconv.Itoa(st.UniqueActions),
			strconv.Itoa(st.Final.Mox),
			strconv.Itoa(st.Final.Aga),
			strconv.Itoa(st.Final.Lye),
		})
	}
	return writeRows(path, []string{
		"episode", "items_used", "moving_avg_items_used", "min_items_used_so_far",
		"unique_combos_used", "total_mox", "total_aga", "total_lye",
	}, rows)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
