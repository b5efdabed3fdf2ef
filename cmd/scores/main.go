package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-mixology/internal/cli"
	"github.com/napolitain/solver-mixology/internal/draw"
	"github.com/napolitain/solver-mixology/internal/loader"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/solver/scores"
)

var (
	configPath string
	episodes   int
	seed       uint64
	outDir     string
	initPath   string
	top        int
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scores",
		Short: "Mixology combo-score trainer",
		Long: `Learns one global score per subset with a baseline-corrected
policy-gradient-style update and exports training statistics, the final
scores and the best subset per draw.`,
		Run: runScores,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML training config (defaults used when empty)")
	rootCmd.Flags().IntVarP(&episodes, "episodes", "e", 0, "Training episodes (overrides config)")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (overrides config)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "strategies/combo_scores", "Output directory")
	rootCmd.Flags().StringVar(&initPath, "init", "", "Start from a previously saved Combo,Score file")
	rootCmd.Flags().IntVar(&top, "top", 20, "Number of top scores to print")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		cli.Fatal("Error loading config: %v", err)
	}
	if episodes > 0 {
		cfg.Episodes = episodes
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	var initial scores.ComboScores
	if initPath != "" {
		if initial, err = loader.LoadComboScores(initPath); err != nil {
			cli.Fatal("Error loading scores: %v", err)
		}
	}

	domain := models.NewDomainWithTargets(cfg.Targets)
	if !quiet {
		cli.Banner("Mixology", "Combo-Score Trainer")
		cli.PrintTargets(domain.Targets)
		cli.InfoColor.Printf("🔄 Training %d episodes (alpha=%g epsilon=%g)...\n",
			cfg.Episodes, cfg.Scores.Alpha, cfg.Scores.Epsilon)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trainer := scores.NewTrainer(domain, cfg.Scores, draw.NewRand(cfg.Seed, 0), initial)
	trainer.SetMaxSteps(cfg.MaxSteps)

	bar := cli.NewProgress(cfg.Episodes, quiet)
	history, err := trainer.Train(ctx, cfg.Episodes, func(scores.TrainingStat) { bar.Increment() })
	bar.Finish()
	if err != nil {
		if ctx.Err() == nil {
			cli.Fatal("Training failed: %v", err)
		}
		cli.InfoColor.Printf("⚠ Interrupted after %d episodes, writing partial results\n", len(history))
	}

	if !quiet && len(history) > 0 {
		last := history[len(history)-1]
		fmt.Printf("\n📈 Moving average: %.2f items, best episode: %d items\n\n", last.MovingAverage, last.MinSoFar)
		printTop(trainer.Scores, top)
	}

	outputs := []struct {
		name  string
		write func(string) error
	}{
		{"training_stats.csv", func(p string) error { return loader.WriteTrainingStats(p, history) }},
		{"final_combo_scores.csv", func(p string) error { return loader.WriteComboScores(p, trainer.Scores) }},
		{"best_actions_per_draw.csv", func(p string) error {
			return loader.WriteBestActions(p, scores.BestActions(domain.Catalog, trainer.Scores))
		}},
	}
	for _, o := range outputs {
		path := filepath.Join(outDir, o.name)
		if err := o.write(path); err != nil {
			cli.Fatal("Error writing %s: %v", path, err)
		}
	}
	cli.SuccessColor.Printf("\n✓ Results saved to %s\n", outDir)
}

func printTop(s scores.ComboScores, n int) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Rank", "Combo", "Score"}),
	)
	for i, e := range s.Sorted() {
		if i == n {
			break
		}
		_ = table.Append([]string{fmt.Sprintf("%d", i+1), e.Action.Key(), fmt.Sprintf("%.6f", e.Score)})
	}
	_ = table.Render()
}
