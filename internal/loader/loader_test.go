package loader

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
	"github.com/napolitain/solver-mixology/internal/solver/qlearn"
	"github.com/napolitain/solver-mixology/internal/solver/scores"
	"github.com/napolitain/solver-mixology/internal/stats"
)

func TestStrategyRoundTrip(t *testing.T) {
	c := models.DefaultCatalog()
	s := sim.TemplateStrategy(c)
	s[draw.NewDraw("AAA", "AAA", "MAL")] = draw.MustAction("AAA", "MAL")

	for _, name := range []string{"strategy.csv", "strategy.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := WriteStrategy(path, s); err != nil {
				t.Fatalf("WriteStrategy error: %v", err)
			}
			got, err := LoadStrategy(path)
			if err != nil {
				t.Fatalf("LoadStrategy error: %v", err)
			}
			if len(got) != len(s) {
				t.Fatalf("loaded %d draws, want %d", len(got), len(s))
			}
			for d, a := range s {
				if got[d] != a {
					t.Errorf("%s: got %s, want %s", d, got[d], a)
				}
			}
			if err := got.Validate(c); err != nil {
				t.Errorf("loaded strategy invalid: %v", err)
			}
		})
	}
}

func TestCompressedFileIsNotPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.csv.zst")
	if err := WriteStrategy(path, sim.TemplateStrategy(models.DefaultCatalog())); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(raw), "draw,choice") {
		t.Error("zst output should be compressed")
	}
}

func TestLoadStrategyHeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.csv")
	doc := "Choice, Draw\nMAL-MAL,MAL-MMM-MAL\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadStrategy(path)
	if err != nil {
		t.Fatalf("LoadStrategy error: %v", err)
	}
	if got := s[draw.NewDraw("MAL", "MAL", "MMM")]; got != draw.MustAction("MAL", "MAL") {
		t.Errorf("choice = %s, want MAL-MAL", got)
	}

	bad := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no choice column", "draw,other\nAAA-AAA-AAA,AAA\n"},
		{"bad draw", "draw,choice\nAAA-AAA,AAA\n"},
		{"bad choice", "draw,choice\nAAA-AAA-AAA,AAA-AAA-AAA-AAA\n"},
		{"short row", "draw,choice\nAAA-AAA-AAA\n"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".csv")
			if err := os.WriteFile(p, []byte(tt.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadStrategy(p); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := LoadStrategy(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestComboScoresRoundTripExact(t *testing.T) {
	s := scores.ComboScores{
		draw.MustAction("MAL"):               0.1 / 3,
		draw.MustAction("AAA", "MMM"):        -1.2345678901234567e-17,
		draw.MustAction("LLL", "LLL", "MAL"): 123456.78901234567,
		draw.MustAction("ALL"):               0,
	}
	path := filepath.Join(t.TempDir(), "final_combo_scores.csv")
	if err := WriteComboScores(path, s); err != nil {
		t.Fatalf("WriteComboScores error: %v", err)
	}
	got, err := LoadComboScores(path)
	if err != nil {
		t.Fatalf("LoadComboScores error: %v", err)
	}
	if len(got) != len(s) {
		t.Fatalf("loaded %d scores, want %d", len(got), len(s))
	}
	for a, v := range s {
		if got[a] != v {
			t.Errorf("%s: got %v, want exactly %v", a, got[a], v)
		}
	}

	rows, err := readRows(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rows[0], []string{"Combo", "Score"}) || rows[1][0] != "LLL-LLL-MAL" {
		t.Errorf("unexpected layout: %v", rows[:2])
	}
}

func TestLoadComboScoresErrors(t *testing.T) {
	dir := t.TempDir()
	for name, doc := range map[string]string{
		"short.csv":  "Combo,Score\nMAL\n",
		"nan.csv":    "Combo,Score\nMAL,abc\n",
		"action.csv": "Combo,Score\n,1\n",
	} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadComboScores(p); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestTrainingExports(t *testing.T) {
	dir := t.TempDir()
	domain := models.NewDomainWithTargets(models.Resources{Mox: 200, Aga: 200, Lye: 200})
	tr := scores.NewTrainer(domain, models.DefaultTrainingConfig().Scores, draw.NewRand(1, 0), nil)
	history, err := tr.Train(context.Background(), 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	statsPath := filepath.Join(dir, "training_stats.csv")
	if err := WriteTrainingStats(statsPath, history); err != nil {
		t.Fatalf("WriteTrainingStats error: %v", err)
	}
	rows, err := readRows(statsPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 11 || len(rows[0]) != 8 || rows[0][2] != "moving_avg_items_used" {
		t.Errorf("training stats layout: %d rows, header %v", len(rows), rows[0])
	}

	bestPath := filepath.Join(dir, "best_actions_per_draw.csv")
	if err := WriteBestActions(bestPath, scores.BestActions(domain.Catalog, tr.Scores)); err != nil {
		t.Fatalf("WriteBestActions error: %v", err)
	}
	if rows, err = readRows(bestPath); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 221 || !slices.Equal(rows[0], []string{"Draw", "Best Subset", "Score"}) {
		t.Errorf("best actions layout: %d rows, header %v", len(rows), rows[0])
	}
}

func TestRunExports(t *testing.T) {
	dir := t.TempDir()
	domain := models.NewDomainWithTargets(models.Resources{Mox: 100, Aga: 100, Lye: 100})
	records, summary, err := stats.Run(context.Background(), domain, sim.TemplateStrategy(domain.Catalog), 20, stats.Options{Workers: 2, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}

	runPath := filepath.Join(dir, "run_data.csv")
	if err := WriteRunData(runPath, records, domain.Catalog.IDs()); err != nil {
		t.Fatalf("WriteRunData error: %v", err)
	}
	rows, err := readRows(runPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 21 || len(rows[0]) != 4+domain.Catalog.Len() || rows[0][0] != "total_items" {
		t.Errorf("run data layout: %d rows, header %v", len(rows), rows[0])
	}

	summaryPath := filepath.Join(dir, "summary.csv")
	if err := WriteSummary(summaryPath, summary); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}
	if rows, err = readRows(summaryPath); err != nil {
		t.Fatal(err)
	}
	// header, 3 metrics, item block header + 10, resource block header + 3
	if len(rows) != 1+3+1+10+1+3 {
		t.Errorf("summary has %d rows", len(rows))
	}
}

func TestWriteQPolicy(t *testing.T) {
	d := draw.NewDraw("MAL", "MAL", "MAL")
	entries := []qlearn.PolicyEntry{{Draw: d, Action: d.Whole(), AverageQ: 1.5, Bins: 2}}
	path := filepath.Join(t.TempDir(), "q_policy.csv")
	if err := WriteQPolicy(path, entries); err != nil {
		t.Fatalf("WriteQPolicy error: %v", err)
	}
	rows, err := readRows(path)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"draw", "choice", "avg_q", "state_bins"}, {"MAL-MAL-MAL", "MAL-MAL-MAL", "1.5", "2"}}
	if len(rows) != 2 || !slices.Equal(rows[0], want[0]) || !slices.Equal(rows[1], want[1]) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	// the exported policy loads back as a strategy
	s, err := LoadStrategy(path)
	if err != nil {
		t.Fatalf("LoadStrategy error: %v", err)
	}
	if s[d] != d.Whole() {
		t.Errorf("loaded choice = %s", s[d])
	}
}
