// Package compare runs the same benchmark against the ARM64 and x86_64
// deployments and summarizes the results.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/grussorusso/archbench/utils"
	"github.com/samber/lo"
)

const (
	ARM64 = "ARM64"
	X86   = "x86_64"
)

var ErrInsufficientData = errors.New("insufficient data for comparison")

// Sample is the outcome of a single benchmark invocation.
type Sample struct {
	Success      bool    `json:"success"`
	HTTPTimeMs   float64 `json:"http_time_ms"`
	LambdaTimeMs float64 `json:"lambda_time_ms"`
	MemoryUsedMB float64 `json:"memory_used_mb"`
	DataSize     int     `json:"data_size"`
	ColdStart    bool    `json:"cold_start"`
	Architecture string  `json:"architecture"`
	Error        string  `json:"error,omitempty"`
}

// SampleFromResponse extracts a sample from a successful response body.
func SampleFromResponse(body []byte, httpTimeMs float64) Sample {
	return Sample{
		Success:      true,
		HTTPTimeMs:   httpTimeMs,
		LambdaTimeMs: utils.JsonExtractFloatOrDefault(body, 0, "performance_metrics", "execution_time_ms"),
		MemoryUsedMB: utils.JsonExtractFloatOrDefault(body, 0, "performance_metrics", "memory_used_mb"),
		DataSize:     utils.JsonExtractIntOrDefault(body, 0, "performance_metrics", "data_size"),
		ColdStart:    utils.JsonExtractBool(body, "cold_start"),
		Architecture: utils.JsonExtractStringOrDefault(body, "unknown", "architecture"),
	}
}

type Stats struct {
	Count       int     `json:"count"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   float64 `json:"min_time_ms"`
	MaxTimeMs   float64 `json:"max_time_ms"`
	StdDevMs    float64 `json:"std_dev_ms"`
	AvgMemoryMB float64 `json:"avg_memory_mb"`
	ColdStarts  int     `json:"cold_starts"`
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

// stdDev is the sample standard deviation; it is 0 with fewer than two values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	squares := lo.Map(values, func(v float64, _ int) float64 { return (v - m) * (v - m) })
	return math.Sqrt(lo.Sum(squares) / float64(len(values)-1))
}

// Summarize computes the statistics of the successful samples.
func Summarize(samples []Sample) Stats {
	ok := lo.Filter(samples, func(s Sample, _ int) bool { return s.Success })
	times := lo.Map(ok, func(s Sample, _ int) float64 { return s.LambdaTimeMs })
	memory := lo.Map(ok, func(s Sample, _ int) float64 { return s.MemoryUsedMB })

	return Stats{
		Count:       len(ok),
		AvgTimeMs:   mean(times),
		MinTimeMs:   lo.Min(times),
		MaxTimeMs:   lo.Max(times),
		StdDevMs:    stdDev(times),
		AvgMemoryMB: mean(memory),
		ColdStarts:  lo.CountBy(ok, func(s Sample) bool { return s.ColdStart }),
	}
}

type Analysis struct {
	Operation string `json:"operation"`
	TestCount int    `json:"test_count"`
	ARM64     Stats  `json:"arm64"`
	X86       Stats  `json:"x86_64"`
	// Winner is empty when the x86_64 average is not positive.
	Winner                 string  `json:"winner,omitempty"`
	ImprovementPercent     float64 `json:"improvement_percent"`
	PerformanceImprovement string  `json:"performance_improvement,omitempty"`
}

// Analyze compares the samples collected on the two architectures.
func Analyze(operation string, arm64, x86 []Sample) (*Analysis, error) {
	armStats := Summarize(arm64)
	x86Stats := Summarize(x86)
	if armStats.Count == 0 || x86Stats.Count == 0 {
		return nil, fmt.Errorf("%s: %w", operation, ErrInsufficientData)
	}

	a := &Analysis{
		Operation: operation,
		TestCount: armStats.Count,
		ARM64:     armStats,
		X86:       x86Stats,
	}

	if x86Stats.AvgTimeMs > 0 {
		ratio := armStats.AvgTimeMs / x86Stats.AvgTimeMs
		if ratio < 1 {
			a.Winner = ARM64
			a.ImprovementPercent = (1 - ratio) * 100
		} else {
			a.Winner = X86
			a.ImprovementPercent = (ratio - 1) * 100
		}
		a.PerformanceImprovement = fmt.Sprintf("%.1f%% faster", a.ImprovementPercent)
	}
	return a, nil
}

// Score counts the operations won by each architecture.
func Score(analyses []*Analysis) (arm64Wins, x86Wins int) {
	arm64Wins = lo.CountBy(analyses, func(a *Analysis) bool { return a.Winner == ARM64 })
	x86Wins = lo.CountBy(analyses, func(a *Analysis) bool { return a.Winner == X86 })
	return
}

// OverallWinner returns ARM64, x86_64 or "tie".
func OverallWinner(analyses []*Analysis) string {
	arm, x86 := Score(analyses)
	switch {
	case arm > x86:
		return ARM64
	case x86 > arm:
		return X86
	default:
		return "tie"
	}
}
