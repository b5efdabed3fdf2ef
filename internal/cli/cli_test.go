package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/stats"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.Episodes != models.DefaultTrainingConfig().Episodes {
		t.Errorf("Episodes = %d", cfg.Episodes)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("workers: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	s := &stats.Summary{
		Runs:         2,
		AverageItems: 10.5,
		MinItems:     9,
		MaxItems:     12,
		Items:        []stats.ItemSummary{{ID: "MAL", Average: 10.5, Min: 9, Max: 12, Total: 21}},
		Resources: []stats.ResourceSummary{{
			Type:   models.Lye,
			MinRun: models.Resources{Mox: 1, Aga: 2, Lye: 3},
			MaxRun: models.Resources{Mox: 4, Aga: 5, Lye: 6},
		}},
	}
	var buf bytes.Buffer
	PrintSummary(&buf, s)
	out := buf.String()
	for _, want := range []string{"10.50", "MAL", "LYE", "1,2,3", "4,5,6"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuietProgress(t *testing.T) {
	p := NewProgress(10, true)
	p.Increment()
	p.Finish()
}
