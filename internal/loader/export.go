package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/napolitain/solver-mixology/internal/sim"
	"github.com/napolitain/solver-mixology/internal/solver/qlearn"
	"github.com/napolitain/solver-mixology/internal/stats"
)

// WriteRunData writes one row per run: total, final resources, then one
// count column per item id
func WriteRunData(path string, records []*sim.EpisodeRecord, ids []string) error {
	header := append([]string{"total_items", "mox", "aga", "lye"}, ids...)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ItemsUsed),
			strconv.Itoa(r.Final.Mox),
			strconv.Itoa(r.Final.Aga),
			strconv.Itoa(r.Final.Lye),
		}
		for _, id := range ids {
			row = append(row, strconv.Itoa(r.ItemCounts[id]))
		}
		rows = append(rows, row)
	}
	return writeRows(path, header, rows)
}

// WriteSummary writes the metric blocks of a summary, separated by blank rows
func WriteSummary(path string, s *stats.Summary) error {
	rows := [][]string{
		{"Average Items Used", fmt.Sprintf("%.2f", s.AverageItems)},
		{"Minimum Items Used", strconv.Itoa(s.MinItems)},
		{"Maximum Items Used", strconv.Itoa(s.MaxItems)},
		{},
		{"Item Type", "Average", "Minimum", "Maximum"},
	}
	for _, it := range s.Items {
		rows = append(rows, []string{it.ID, fmt.Sprintf("%.2f", it.Average), strconv.Itoa(it.Min), strconv.Itoa(it.Max)})
	}
	rows = append(rows, []string{}, []string{"Target Resource", "Average", "Minimum (MOX,AGA,LYE)", "Maximum (MOX,AGA,LYE)"})
	for _, r := range s.Resources {
		rows = append(rows, []string{
			strings.ToUpper(string(r.Type)),
			fmt.Sprintf("%.2f", r.Average),
			fmt.Sprintf("%d,%d,%d", r.MinRun.Mox, r.MinRun.Aga, r.MinRun.Lye),
			fmt.Sprintf("%d,%d,%d", r.MaxRun.Mox, r.MaxRun.Aga, r.MaxRun.Lye),
		})
	}
	return writeRows(path, []string{"Metric", "Value"}, rows)
}

// WriteQPolicy writes the generalized Q-learning choice per draw
func WriteQPolicy(path string, entries []qlearn.PolicyEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Draw.Key(), e.Action.Key(), formatFloat(e.AverageQ), strconv.Itoa(e.Bins)})
	}
	return writeRows(path, []string{"draw", "choice", "avg_q", "state_bins"}, rows)
}
