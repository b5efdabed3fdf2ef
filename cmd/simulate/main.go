package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/napolitain/solver-mixology/internal/cli"
	"github.com/napolitain/solver-mixology/internal/loader"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/sim"
	"github.com/napolitain/solver-mixology/internal/solver"
	"github.com/napolitain/solver-mixology/internal/stats"
)

var (
	runs     int
	workers  int
	seed     uint64
	outDir   string
	quiet    bool
	template string
	compare  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simulate [strategy.csv]",
		Short: "Mixology fixed-strategy simulator",
		Long: `Runs many episodes under a fixed strategy (one chosen subset per draw)
and reports items used, per-item usage and final resources. Without a
strategy file the built-in greedy strategy is used.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runSimulate,
	}

	rootCmd.Flags().IntVarP(&runs, "runs", "r", 10000, "Number of simulation runs")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Parallel workers")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "strategies", "Directory for run data and summaries")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.Flags().StringVar(&template, "template", "", "Write a strategy template (whole draw for every draw) to this path and exit")
	rootCmd.Flags().BoolVar(&compare, "compare", false, "Compare the template, greedy and given strategies")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, args []string) {
	domain := models.NewDomain()

	if template != "" {
		if err := loader.WriteStrategy(template, sim.TemplateStrategy(domain.Catalog)); err != nil {
			cli.Fatal("Error writing template: %v", err)
		}
		cli.SuccessColor.Printf("✓ Wrote strategy template to %s\n", template)
		return
	}

	if !quiet {
		cli.Banner("Mixology", "Strategy Simulator")
		cli.PrintTargets(domain.Targets)
	}

	name, strategy := loadStrategy(domain, args)
	if err := strategy.Validate(domain.Catalog); err != nil {
		cli.Fatal("Invalid strategy %s: %v", name, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if compare {
		runCompare(ctx, domain, name, strategy)
		return
	}

	if !quiet {
		cli.InfoColor.Printf("🔄 Simulating %d runs of %s with %d workers...\n", runs, name, workers)
	}
	bar := cli.NewProgress(runs, quiet)
	records, summary, err := stats.Run(ctx, domain, strategy, runs, stats.Options{
		Workers:  workers,
		Seed:     seed,
		Progress: bar.Increment,
	})
	bar.Finish()
	if err != nil {
		cli.Fatal("Simulation failed: %v", err)
	}

	cli.PrintSummary(os.Stdout, summary)

	dir := filepath.Join(outDir, name)
	if len(args) == 1 {
		if err := copyFile(args[0], filepath.Join(dir, filepath.Base(args[0]))); err != nil {
			cli.Fatal("Error copying strategy: %v", err)
		}
	} else if err := loader.WriteStrategy(filepath.Join(dir, name+".csv"), strategy); err != nil {
		cli.Fatal("Error writing strategy: %v", err)
	}
	if err := loader.WriteRunData(filepath.Join(dir, "run_data.csv"), records, domain.Catalog.IDs()); err != nil {
		cli.Fatal("Error writing run data: %v", err)
	}
	if err := loader.WriteSummary(filepath.Join(dir, "summary.csv"), summary); err != nil {
		cli.Fatal("Error writing summary: %v", err)
	}
	cli.SuccessColor.Printf("\n✓ Results saved to %s\n", dir)
}

func loadStrategy(domain *models.Domain, args []string) (string, sim.Strategy) {
	if len(args) == 1 {
		s, err := loader.LoadStrategy(args[0])
		if err != nil {
			cli.Fatal("Error loading strategy: %v", err)
		}
		base := filepath.Base(args[0])
		for _, ext := range []string{loader.CompressedExt, filepath.Ext(strings.TrimSuffix(base, loader.CompressedExt))} {
			base = strings.TrimSuffix(base, ext)
		}
		return base, s
	}
	s, err := solver.GreedyStrategy(domain)
	if err != nil {
		cli.Fatal("Error building greedy strategy: %v", err)
	}
	return "greedy", s
}

func runCompare(ctx context.Context, domain *models.Domain, name string, strategy sim.Strategy) {
	candidates := map[string]sim.Strategy{
		"template": sim.TemplateStrategy(domain.Catalog),
		name:       strategy,
	}
	if name != "greedy" {
		greedy, err := solver.GreedyStrategy(domain)
		if err != nil {
			cli.Fatal("Error building greedy strategy: %v", err)
		}
		candidates["greedy"] = greedy
	}

	bar := cli.NewProgress(runs*len(candidates), quiet)
	best, results, err := solver.CompareStrategies(ctx, domain, candidates, runs, stats.Options{
		Workers:  workers,
		Seed:     seed,
		Progress: bar.Increment,
	})
	bar.Finish()
	if err != nil {
		cli.Fatal("Comparison failed: %v", err)
	}

	fmt.Println("\n📊 Strategy Comparison:")
	for _, r := range results {
		marker := "  "
		if r.Name == best {
			marker = "✓ "
		}
		fmt.Printf("   %s%-15s: %.2f items (min %d, max %d)\n",
			marker, r.Name, r.Summary.AverageItems, r.Summary.MinItems, r.Summary.MaxItems)
	}
	cli.SuccessColor.Printf("\n✓ Best strategy: %s\n", best)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
