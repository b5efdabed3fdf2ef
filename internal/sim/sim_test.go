package sim

import (
	"errors"
	"testing"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

func TestGain(t *testing.T) {
	c := models.DefaultCatalog()
	tests := []struct {
		action draw.Action
		want   models.Resources
	}{
		{draw.MustAction("AAA"), models.Resources{Aga: 20}},
		{draw.MustAction("AAA", "MMM"), models.Resources{Mox: 24, Aga: 24}},
		{draw.MustAction("MAL"), models.Resources{Mox: 20, Aga: 20, Lye: 20}},
		{draw.MustAction("MAL", "MAL", "MAL"), models.Resources{Mox: 84, Aga: 84, Lye: 84}},
		{draw.MustAction("AAA", "AAA", "MAL"), models.Resources{Mox: 28, Aga: 84, Lye: 28}},
		{draw.MustAction("MMA", "MML"), models.Resources{Mox: 48, Aga: 12, Lye: 12}},
	}
	for _, tt := range tests {
		got, err := Gain(c, tt.action)
		if err != nil {
			t.Fatalf("Gain(%s) error: %v", tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Gain(%s) = %v, want %v", tt.action, got, tt.want)
		}
	}

	if _, err := Gain(c, draw.MustAction("XYZ")); err == nil {
		t.Error("unknown item should fail")
	}
}

func TestWeightCost(t *testing.T) {
	c := models.DefaultCatalog()
	if got := WeightCost(c, draw.MustAction("AAA", "MMA", "MAL")); got != 12 {
		t.Errorf("WeightCost = %d, want 12", got)
	}
}

func TestRunAllMALWhole(t *testing.T) {
	domain := models.NewDomain()
	// every slot lands on MAL
	s := NewSimulator(domain, draw.NewSequenceSource([]int{41}, nil))

	var steps []Step
	rec, err := s.Run(TemplateStrategy(domain.Catalog), func(st Step) { steps = append(steps, st) })
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// 84 per resource per step; lye needs ceil(70500/84) = 840 steps
	if rec.Steps != 840 {
		t.Errorf("Steps = %d, want 840", rec.Steps)
	}
	if rec.ItemsUsed != 2520 {
		t.Errorf("ItemsUsed = %d, want 2520", rec.ItemsUsed)
	}
	if want := (models.Resources{Mox: 70560, Aga: 70560, Lye: 70560}); rec.Final != want {
		t.Errorf("Final = %v, want %v", rec.Final, want)
	}
	if rec.ItemCounts["MAL"] != 2520 || len(rec.ItemCounts) != 1 {
		t.Errorf("ItemCounts = %v", rec.ItemCounts)
	}
	if rec.UniqueActions() != 1 {
		t.Errorf("UniqueActions = %d, want 1", rec.UniqueActions())
	}

	if len(steps) != rec.Steps {
		t.Fatalf("observer saw %d steps, want %d", len(steps), rec.Steps)
	}
	for i, st := range steps {
		if st.Index != i {
			t.Fatalf("step %d has index %d", i, st.Index)
		}
		if st.After != st.Before.Add(st.Gain) {
			t.Fatalf("step %d: after %v != before %v + gain %v", i, st.After, st.Before, st.Gain)
		}
		if i > 0 && st.Before != steps[i-1].After {
			t.Fatalf("step %d does not continue from step %d", i, i-1)
		}
	}
}

func TestRunSingleMAL(t *testing.T) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewSequenceSource([]int{41}, nil))
	single := draw.MustAction("MAL")
	p := PolicyFunc(func(_ models.Resources, _ draw.Draw, _ []draw.Action) (draw.Action, error) {
		return single, nil
	})

	rec, err := s.Run(p, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// 20 per resource per step; lye needs 70500/20 = 3525 steps
	if rec.ItemsUsed != 3525 {
		t.Errorf("ItemsUsed = %d, want 3525", rec.ItemsUsed)
	}
	if !domain.Done(rec.Final) {
		t.Errorf("Final %v does not meet targets", rec.Final)
	}
}

func TestRunSingleMALReachesMox(t *testing.T) {
	domain := models.NewDomainWithTargets(models.Resources{Mox: models.DefaultTargets.Mox})
	s := NewSimulator(domain, draw.NewSequenceSource([]int{41}, nil))
	single := draw.MustAction("MAL")
	p := PolicyFunc(func(_ models.Resources, _ draw.Draw, _ []draw.Action) (draw.Action, error) {
		return single, nil
	})

	rec, err := s.Run(p, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rec.ItemsUsed != 3053 || rec.Final.Mox != 61060 {
		t.Errorf("ItemsUsed = %d, mox = %d, want 3053 and 61060", rec.ItemsUsed, rec.Final.Mox)
	}
}

func TestRunZeroTargets(t *testing.T) {
	domain := models.NewDomainWithTargets(models.Resources{})
	rec, err := NewSimulator(domain, draw.NewRand(1, 0)).Run(Strategy{}, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rec.ItemsUsed != 0 || rec.Steps != 0 {
		t.Errorf("expected an empty episode, got %+v", rec)
	}
}

func TestRunMissingStrategy(t *testing.T) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewSequenceSource([]int{0, 5, 41}, nil))

	_, err := s.Run(Strategy{}, nil)
	var missing *models.MissingStrategyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingStrategyError, got %v", err)
	}
	if got := missing.Error(); got != "no selection provided for draw: AAA-MAL-MMM" {
		t.Errorf("message = %q", got)
	}
}

func TestRunIllegalAction(t *testing.T) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewSequenceSource([]int{0}, nil))
	p := PolicyFunc(func(_ models.Resources, _ draw.Draw, _ []draw.Action) (draw.Action, error) {
		return draw.MustAction("MAL"), nil
	})
	if _, err := s.Run(p, nil); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("expected ErrIllegalAction, got %v", err)
	}
}

func TestRunStepLimit(t *testing.T) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewRand(3, 0))
	s.MaxSteps = 5

	rec, err := s.Run(TemplateStrategy(domain.Catalog), nil)
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	if rec.Steps != 5 {
		t.Errorf("Steps = %d, want 5", rec.Steps)
	}
}

func TestRunRandomTerminates(t *testing.T) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewRand(11, 0))
	s.MaxSteps = 100_000

	for i := 0; i < 5; i++ {
		rec, err := s.Run(TemplateStrategy(domain.Catalog), nil)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !domain.Done(rec.Final) {
			t.Fatalf("run %d ended short of targets: %v", i, rec.Final)
		}
		sum := 0
		for _, n := range rec.ItemCounts {
			sum += n
		}
		if sum != rec.ItemsUsed {
			t.Errorf("run %d: item counts sum to %d, ItemsUsed %d", i, sum, rec.ItemsUsed)
		}
		if rec.ItemsUsed != 3*rec.Steps {
			t.Errorf("run %d: whole-draw strategy used %d items in %d steps", i, rec.ItemsUsed, rec.Steps)
		}
	}
}

func TestStrategyValidate(t *testing.T) {
	c := models.DefaultCatalog()
	s := TemplateStrategy(c)
	if err := s.Validate(c); err != nil {
		t.Fatalf("template should validate: %v", err)
	}
	if len(s) != 220 {
		t.Errorf("template has %d draws, want 220", len(s))
	}

	d := draw.NewDraw("AAA", "AAA", "MMM")
	s[d] = draw.MustAction("MMM", "MMM")
	if err := s.Validate(c); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("expected ErrIllegalAction, got %v", err)
	}

	delete(s, d)
	var missing *models.MissingStrategyError
	if err := s.Validate(c); !errors.As(err, &missing) {
		t.Errorf("expected *MissingStrategyError, got %v", err)
	}
}

func BenchmarkRunTemplate(b *testing.B) {
	domain := models.NewDomain()
	s := NewSimulator(domain, draw.NewRand(1, 0))
	strategy := TemplateStrategy(domain.Catalog)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Run(strategy, nil); err != nil {
			b.Fatal(err)
		}
	}
}
