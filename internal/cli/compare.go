package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/grussorusso/archbench/internal/compare"
	"github.com/grussorusso/archbench/internal/workload"
	"github.com/spf13/cobra"
)

type testCase struct {
	operation workload.Operation
	params    map[string]any
}

// standardSuite is run by compare when no single operation is selected.
var standardSuite = []testCase{
	{workload.SortIntensive, map[string]any{"data_size": 8000, "iterations": 1}},
	{workload.MathematicalComputation, map[string]any{"complexity": 2000, "iterations": 1}},
	{workload.StringProcessing, map[string]any{"text_size": 15000, "iterations": 1}},
	{workload.MemoryIntensive, map[string]any{"memory_size_mb": 20, "iterations": 1}},
}

func selectCases(op string, extra map[string]any) ([]testCase, error) {
	if op == "all" {
		cases := make([]testCase, len(standardSuite))
		for i, tc := range standardSuite {
			p := make(map[string]any, len(tc.params)+len(extra))
			for k, v := range tc.params {
				p[k] = v
			}
			for k, v := range extra {
				p[k] = v
			}
			cases[i] = testCase{tc.operation, p}
		}
		return cases, nil
	}
	if !workload.Operation(op).Valid() {
		return nil, fmt.Errorf("unknown operation '%s'", op)
	}
	return []testCase{{workload.Operation(op), extra}}, nil
}

func runCompare(cmd *cobra.Command, args []string) {
	extra, err := parseParams(params)
	if err != nil {
		fmt.Println(err)
		cmd.Help()
		return
	}
	cases, err := selectCases(compareOperation, extra)
	if err != nil {
		fmt.Println(err)
		cmd.Help()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &compare.Runner{
		ARM64URL: arm64URL,
		X86URL:   x86URL,
		Pause:    pause,
	}
	if !jsonOutput {
		runner.Progress = func(i int, arch string, s compare.Sample) {
			if s.Success {
				fmt.Printf("  [%d/%d] %-7s %.2fms\n", i, requests, arch, s.LambdaTimeMs)
			} else {
				fmt.Printf("  [%d/%d] %-7s FAILED - %s\n", i, requests, arch, s.Error)
			}
		}
	}

	var analyses []*compare.Analysis
	for _, tc := range cases {
		if !jsonOutput {
			fmt.Printf("\nRunning %s comparison (%d requests)\n%s\n", tc.operation, requests, strings.Repeat("=", 60))
		}
		a, err := runner.Run(ctx, string(tc.operation), tc.params, requests)
		if err != nil {
			fmt.Printf("Comparison failed: %v\n", err)
			if ctx.Err() != nil {
				os.Exit(2)
			}
			continue
		}
		analyses = append(analyses, a)
		if !jsonOutput {
			printAnalysis(os.Stdout, a)
		}
	}

	if jsonOutput {
		out, _ := json.MarshalIndent(analyses, "", "\t")
		fmt.Println(string(out))
		return
	}
	if len(analyses) > 1 {
		printSummary(os.Stdout, analyses)
	}
	fmt.Printf("\nCompleted at: %s\n", time.Now().Format(time.DateTime))
}

func printStats(w io.Writer, label string, s compare.Stats) {
	fmt.Fprintf(w, "%s:\n", label)
	fmt.Fprintf(w, "   Average: %.2fms\n", s.AvgTimeMs)
	fmt.Fprintf(w, "   Range: %.2fms - %.2fms\n", s.MinTimeMs, s.MaxTimeMs)
	fmt.Fprintf(w, "   Std Dev: %.2fms\n", s.StdDevMs)
	fmt.Fprintf(w, "   Memory: %.1fMB\n", s.AvgMemoryMB)
	fmt.Fprintf(w, "   Cold Starts: %d\n", s.ColdStarts)
}

func printAnalysis(w io.Writer, a *compare.Analysis) {
	fmt.Fprintf(w, "\nPerformance Analysis: %s\n%s\n", a.Operation, strings.Repeat("=", 60))
	printStats(w, compare.ARM64, a.ARM64)
	printStats(w, compare.X86, a.X86)
	if a.Winner != "" {
		fmt.Fprintf(w, "\nWinner: %s (%s)\n", a.Winner, a.PerformanceImprovement)
	}
}

func printSummary(w io.Writer, analyses []*compare.Analysis) {
	fmt.Fprintf(w, "\nOverall Performance Summary\n%s\n", strings.Repeat("=", 60))
	for _, a := range analyses {
		if a.Winner != "" {
			fmt.Fprintf(w, "%-25s -> %s (%s)\n", a.Operation, a.Winner, a.PerformanceImprovement)
		}
	}
	arm, x86 := compare.Score(analyses)
	fmt.Fprintf(w, "\nScore: %s: %d | %s: %d\n", compare.ARM64, arm, compare.X86, x86)
	fmt.Fprintf(w, "Overall winner: %s\n", compare.OverallWinner(analyses))
}
