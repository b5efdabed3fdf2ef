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
	"github.com/napolitain/solver-mixology/internal/solver"
	"github.com/napolitain/solver-mixology/internal/solver/qlearn"
	"github.com/napolitain/solver-mixology/internal/stats"
)

var (
	configPath string
	episodes   int
	seed       uint64
	outDir     string
	evalRuns   int
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qlearn",
		Short: "Mixology tabular Q-learning trainer",
		Long: `Trains an epsilon-greedy Q-learner over binned resource states, then
generalizes the table into one subset per draw and writes it as a policy.`,
		Run: runQLearn,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML training config (defaults used when empty)")
	rootCmd.Flags().IntVarP(&episodes, "episodes", "e", 0, "Training episodes (overrides config)")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (overrides config)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "strategies/q_learning", "Output directory")
	rootCmd.Flags().IntVar(&evalRuns, "eval", 0, "Simulate the learned policy this many times after training")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runQLearn(cmd *cobra.Command, args []string) {
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

	domain := models.NewDomainWithTargets(cfg.Targets)
	if !quiet {
		cli.Banner("Mixology", "Q-Learning Trainer")
		cli.PrintTargets(domain.Targets)
		cli.InfoColor.Printf("🔄 Training %d episodes (alpha=%g gamma=%g epsilon=%g)...\n",
			cfg.Episodes, cfg.QLearning.Alpha, cfg.QLearning.Gamma, cfg.QLearning.Epsilon)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trainer := qlearn.NewTrainer(domain, cfg.QLearning, draw.NewRand(cfg.Seed, 0))
	trainer.SetMaxSteps(cfg.MaxSteps)

	bar := cli.NewProgress(cfg.Episodes, quiet)
	var last qlearn.EpisodeResult
	err = trainer.Train(ctx, cfg.Episodes, func(r qlearn.EpisodeResult) {
		last = r
		bar.Increment()
	})
	bar.Finish()
	if err != nil {
		if ctx.Err() == nil {
			cli.Fatal("Training failed: %v", err)
		}
		cli.InfoColor.Printf("⚠ Interrupted after %d episodes, writing partial policy\n", last.Episode)
	}

	entries := trainer.Generalize()
	if !quiet {
		fmt.Printf("\n📈 Last episode: %d items, %d Q entries\n", last.ItemsUsed, last.TableSize)
		fmt.Printf("   Draws covered by the learned policy: %d/%d\n\n", len(entries), len(draw.AllDraws(domain.Catalog.IDs())))
		printPolicy(entries, 15)
	}

	policyPath := filepath.Join(outDir, "q_policy.csv")
	if err := loader.WriteQPolicy(policyPath, entries); err != nil {
		cli.Fatal("Error writing policy: %v", err)
	}

	greedy, err := solver.GreedyStrategy(domain)
	if err != nil {
		cli.Fatal("Error building fallback strategy: %v", err)
	}
	strategy := trainer.Strategy(greedy)
	strategyPath := filepath.Join(outDir, "q_strategy.csv")
	if err := loader.WriteStrategy(strategyPath, strategy); err != nil {
		cli.Fatal("Error writing strategy: %v", err)
	}
	cli.SuccessColor.Printf("✓ Policy saved to %s\n", policyPath)
	cli.SuccessColor.Printf("✓ Strategy saved to %s\n", strategyPath)

	if evalRuns > 0 && ctx.Err() == nil {
		_, summary, err := stats.Run(ctx, domain, strategy, evalRuns, stats.Options{
			Workers:  cfg.Workers,
			Seed:     cfg.Seed,
			MaxSteps: cfg.MaxSteps,
		})
		if err != nil {
			cli.Fatal("Evaluation failed: %v", err)
		}
		cli.PrintSummary(os.Stdout, summary)
	}
}

func printPolicy(entries []qlearn.PolicyEntry, limit int) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Draw", "Choice", "Avg Q", "Bins"}),
	)
	for i, e := range entries {
		if i == limit {
			break
		}
		_ = table.Append([]string{e.Draw.Key(), e.Action.Key(), fmt.Sprintf("%.2f", e.AverageQ), fmt.Sprintf("%d", e.Bins)})
	}
	_ = table.Render()
	if len(entries) > limit {
		fmt.Printf("   ... and %d more\n", len(entries)-limit)
	}
}
