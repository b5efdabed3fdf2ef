package scores

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/models"
)

const eps = 1e-9

func TestProbabilitiesUniform(t *testing.T) {
	actions := draw.NewDraw("AAA", "MMM", "LLL").Actions()
	probs := Probabilities(ComboScores{}, actions, 1e-3)
	for i, p := range probs {
		if math.Abs(p-1.0/7) > eps {
			t.Errorf("probs[%d] = %v, want 1/7", i, p)
		}
	}
}

func TestProbabilitiesProportional(t *testing.T) {
	a, b := draw.MustAction("AAA"), draw.MustAction("MMM")
	probs := Probabilities(ComboScores{a: 1, b: 3}, []draw.Action{a, b}, 1e-3)
	if math.Abs(probs[0]-0.25) > eps || math.Abs(probs[1]-0.75) > eps {
		t.Errorf("probs = %v, want [0.25 0.75]", probs)
	}
}

func TestProbabilitiesShift(t *testing.T) {
	a, b, c := draw.MustAction("AAA"), draw.MustAction("MMM"), draw.MustAction("AAA", "MMM")
	probs := Probabilities(ComboScores{a: -1, b: 1}, []draw.Action{a, b, c}, 1e-3)

	// shifted: a=0.001, b=2.001, c (unscored) = 1.001
	total := 0.001 + 2.001 + 1.001
	want := []float64{0.001 / total, 2.001 / total, 1.001 / total}
	sum := 0.0
	for i := range want {
		if math.Abs(probs[i]-want[i]) > eps {
			t.Errorf("probs[%d] = %v, want %v", i, probs[i], want[i])
		}
		if probs[i] <= 0 {
			t.Errorf("probs[%d] must stay positive", i)
		}
		sum += probs[i]
	}
	if math.Abs(sum-1) > eps {
		t.Errorf("sum = %v", sum)
	}
}

func TestRunEpisodeCredit(t *testing.T) {
	domain := models.NewDomainWithTargets(models.Resources{Mox: 20, Aga: 20, Lye: 20})
	cfg := models.DefaultTrainingConfig().Scores
	// every slot is MAL; 0.99 never explores and picks the last action
	tr := NewTrainer(domain, cfg, draw.NewSequenceSource([]int{41}, []float64{0.99}), nil)
	whole := draw.MustAction("MAL", "MAL", "MAL")

	st, err := tr.RunEpisode()
	if err != nil {
		t.Fatalf("RunEpisode error: %v", err)
	}
	if st.Episode != 1 || st.ItemsUsed != 3 || st.MinSoFar != 3 || st.UniqueActions != 1 {
		t.Errorf("stat = %+v", st)
	}
	if st.MovingAverage != 3 {
		t.Errorf("MovingAverage = %v, want 3", st.MovingAverage)
	}
	if got := tr.Scores[whole]; math.Abs(got-0.1/3) > eps {
		t.Errorf("score = %v, want %v", got, 0.1/3)
	}
	if math.Abs(tr.Baseline()-1.0/3) > eps {
		t.Errorf("baseline = %v, want 1/3", tr.Baseline())
	}

	// same return again: no advantage, no change
	if _, err := tr.RunEpisode(); err != nil {
		t.Fatal(err)
	}
	if got := tr.Scores[whole]; math.Abs(got-0.1/3) > eps {
		t.Errorf("score after zero advantage = %v, want %v", got, 0.1/3)
	}
	if len(tr.Scores) != 1 {
		t.Errorf("only the used action should be scored, got %v", tr.Scores)
	}
}

func TestTrainerKeepsInitialScores(t *testing.T) {
	domain := models.NewDomainWithTargets(models.Resources{Mox: 200, Aga: 200, Lye: 200})
	initial := ComboScores{draw.MustAction("MAL"): 0.5}
	tr := NewTrainer(domain, models.DefaultTrainingConfig().Scores, draw.NewRand(3, 0), initial)

	history, err := tr.Train(context.Background(), 30, nil)
	if err != nil {
		t.Fatalf("Train error: %v", err)
	}
	if len(history) != 30 {
		t.Fatalf("len(history) = %d, want 30", len(history))
	}
	if len(initial) != 1 || initial[draw.MustAction("MAL")] != 0.5 {
		t.Errorf("initial scores were modified: %v", initial)
	}

	minSoFar := math.MaxInt
	for i, st := range history {
		minSoFar = min(minSoFar, st.ItemsUsed)
		if st.MinSoFar != minSoFar {
			t.Errorf("episode %d: MinSoFar = %d, want %d", i+1, st.MinSoFar, minSoFar)
		}
		if !domain.Done(st.Final) {
			t.Errorf("episode %d ended at %v", i+1, st.Final)
		}
	}
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := NewTrainer(models.NewDomain(), models.DefaultTrainingConfig().Scores, draw.NewRand(1, 0), nil)
	history, err := tr.Train(ctx, 5, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %d entries, want 0", len(history))
	}
}

func TestWindow(t *testing.T) {
	w := newWindow(3)
	if w.mean() != 0 {
		t.Error("empty window mean should be 0")
	}
	for v := 1.0; v <= 5; v++ {
		w.push(v)
	}
	if got := w.mean(); got != 4 {
		t.Errorf("mean = %v, want 4", got)
	}
}

func TestSorted(t *testing.T) {
	s := ComboScores{
		draw.MustAction("MMM"):        1,
		draw.MustAction("AAA"):        1,
		draw.MustAction("MAL", "MAL"): 2,
		draw.MustAction("LLL"):        -1,
	}
	want := []string{"MAL-MAL", "AAA", "MMM", "LLL"}
	for i, e := range s.Sorted() {
		if e.Action.Key() != want[i] {
			t.Errorf("Sorted()[%d] = %s, want %s", i, e.Action, want[i])
		}
	}
}

func TestBestActions(t *testing.T) {
	c := models.DefaultCatalog()
	s := ComboScores{
		draw.MustAction("AAA", "MMM"): 5,
		draw.MustAction("MMM"):        -2,
	}
	best := BestActions(c, s)
	if len(best) != 220 {
		t.Fatalf("len(best) = %d, want 220", len(best))
	}

	for _, b := range best {
		if !b.Draw.Contains(b.Action) {
			t.Fatalf("%s: illegal best action %s", b.Draw, b.Action)
		}
		switch b.Draw {
		case draw.NewDraw("AAA", "LLL", "MMM"):
			if b.Action.Key() != "AAA-MMM" || b.Score != 5 {
				t.Errorf("%s: best = %s (%v), want AAA-MMM", b.Draw, b.Action, b.Score)
			}
		case draw.NewDraw("MMM", "MMM", "MMM"):
			// MMM scores -2, the unscored larger subsets read as 0
			if b.Action.Key() != "MMM-MMM" {
				t.Errorf("%s: best = %s, want MMM-MMM", b.Draw, b.Action)
			}
		case draw.NewDraw("LLL", "LLL", "LLL"):
			if b.Action.Key() != "LLL" {
				t.Errorf("%s: best = %s, want first action LLL", b.Draw, b.Action)
			}
		}
	}
}
