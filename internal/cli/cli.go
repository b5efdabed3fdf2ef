// Package cli holds console helpers shared by the commands: banners,
// progress bars and result tables.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-mixology/internal/models"
	"github.com/napolitain/solver-mixology/internal/stats"
)

var (
	TitleColor   = color.New(color.FgCyan, color.Bold)
	SuccessColor = color.New(color.FgGreen, color.Bold)
	InfoColor    = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed, color.Bold)
)

// Banner prints a boxed title
func Banner(lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	TitleColor.Println("\n╭" + strings.Repeat("─", width+4) + "╮")
	for _, l := range lines {
		TitleColor.Printf("│  %-*s  │\n", width, l)
	}
	TitleColor.Println("╰" + strings.Repeat("─", width+4) + "╯")
	fmt.Println()
}

// Fatal prints an error and exits
func Fatal(format string, args ...any) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Progress wraps a pb bar; a quiet progress discards output
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a bar of total steps, or a no-op one when quiet
func NewProgress(total int, quiet bool) *Progress {
	if quiet {
		return &Progress{}
	}
	bar := pb.New(total)
	bar.SetWriter(os.Stderr)
	bar.Set(pb.CleanOnFinish, true)
	bar.Start()
	return &Progress{bar: bar}
}

// Increment advances the bar by one; safe for concurrent use
func (p *Progress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops the bar
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// PrintTargets prints the resource targets
func PrintTargets(targets models.Resources) {
	InfoColor.Println("🎯 Targets:")
	targets.Each(func(rt models.ResourceType, v int) {
		fmt.Printf("   • %s: %d\n", strings.ToUpper(string(rt)), v)
	})
	fmt.Println()
}

// PrintSummary renders a simulation summary as tables
func PrintSummary(w io.Writer, s *stats.Summary) {
	fmt.Fprintf(w, "\n📊 Runs: %d\n", s.Runs)
	fmt.Fprintf(w, "   Average items used: %.2f (min %d, max %d)\n\n", s.AverageItems, s.MinItems, s.MaxItems)

	items := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Item", "Average", "Min", "Max"}),
	)
	for _, it := range s.Items {
		_ = items.Append([]string{it.ID, fmt.Sprintf("%.2f", it.Average), fmt.Sprintf("%d", it.Min), fmt.Sprintf("%d", it.Max)})
	}
	_ = items.Render()

	res := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Average", "Min run (MOX,AGA,LYE)", "Max run (MOX,AGA,LYE)"}),
	)
	for _, r := range s.Resources {
		_ = res.Append([]string{
			strings.ToUpper(string(r.Type)),
			fmt.Sprintf("%.2f", r.Average),
			fmt.Sprintf("%d,%d,%d", r.MinRun.Mox, r.MinRun.Aga, r.MinRun.Lye),
			fmt.Sprintf("%d,%d,%d", r.MaxRun.Mox, r.MaxRun.Aga, r.MaxRun.Lye),
		})
	}
	_ = res.Render()
}

// LoadConfig returns the defaults, or the YAML file at path over them, validated
func LoadConfig(path string) (models.TrainingConfig, error) {
	cfg := models.DefaultTrainingConfig()
	if path != "" {
		var err error
		if cfg, err = models.LoadTrainingConfig(path); err != nil {
			return cfg, err
		}
	}
	return cfg, models.ValidateTrainingConfig(cfg)
}
