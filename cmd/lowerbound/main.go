package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-mixology/internal/cli"
	"github.com/napolitain/solver-mixology/internal/ilp"
	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/solver/lowerbound"
)

var (
	targetMox int
	targetAga int
	targetLye int
	maxNodes  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lowerbound",
		Short: "Mixology exact lower bound",
		Long: `Solves the integer program that picks how often to request each
(draw, subset) pair when draws can be chosen freely. The optimum is the
fewest items any strategy could ever use.`,
		Run: runLowerBound,
	}

	rootCmd.Flags().IntVar(&targetMox, "mox", models.DefaultTargets.Mox, "MOX target")
	rootCmd.Flags().IntVar(&targetAga, "aga", models.DefaultTargets.Aga, "AGA target")
	rootCmd.Flags().IntVar(&targetLye, "lye", models.DefaultTargets.Lye, "LYE target")
	rootCmd.Flags().IntVar(&maxNodes, "max-nodes", 100000, "Branch-and-bound node limit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLowerBound(cmd *cobra.Command, args []string) {
	domain := models.NewDomainWithTargets(models.Resources{Mox: targetMox, Aga: targetAga, Lye: targetLye})

	cli.Banner("Mixology", "Exact Lower Bound")
	cli.PrintTargets(domain.Targets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := lowerbound.NewSolver(domain)
	if bnb, ok := s.Engine.(*ilp.BranchAndBound); ok {
		bnb.MaxNodes = maxNodes
	}
	sol, err := s.Solve(ctx)
	if err != nil {
		cli.Fatal("Solve failed: %v", err)
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Draw", "Subset", "Qty", "MOX", "AGA", "LYE", "Total", "Weight", "Eff."}),
	)
	for _, u := range sol.Usages {
		_ = table.Append([]string{
			u.Draw.Key(),
			u.Action.Key(),
			fmt.Sprintf("%d", u.Quantity),
			fmt.Sprintf("%d", u.Yield.Mox),
			fmt.Sprintf("%d", u.Yield.Aga),
			fmt.Sprintf("%d", u.Yield.Lye),
			fmt.Sprintf("%d", u.Yield.Total()),
			fmt.Sprintf("%d", u.Weight),
			fmt.Sprintf("%.3f", u.Efficiency()),
		})
	}
	_ = table.Render()

	fmt.Printf("\n📊 LP bound: %.3f, nodes explored: %d\n", sol.Bound, sol.Nodes)
	fmt.Printf("   Achieved: MOX %d, AGA %d, LYE %d\n", sol.Achieved.Mox, sol.Achieved.Aga, sol.Achieved.Lye)
	cli.SuccessColor.Printf("\n✓ Minimum items needed: %d\n", sol.Items)
}
