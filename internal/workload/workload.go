// Package workload implements the synthetic CPU and memory benchmarks run by
// the function. Every workload is a pure computation over data generated from
// a seed, so the same parameters always produce the same processing result;
// only the reported timings change between runs.
package workload

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type Operation string

const (
	SortIntensive           Operation = "sort_intensive"
	MathematicalComputation Operation = "mathematical_computation"
	StringProcessing        Operation = "string_processing"
	MemoryIntensive         Operation = "memory_intensive"
)

// Operations lists the supported operations in a stable order.
var Operations = []Operation{SortIntensive, MathematicalComputation, StringProcessing, MemoryIntensive}

var ErrUnknownOperation = errors.New("unknown operation")

const DefaultSeed int64 = 42

// SizeParam describes the size-like parameter accepted by an operation.
type SizeParam struct {
	Name    string `json:"name"`
	Default int    `json:"default"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
}

var sizeParams = map[Operation]SizeParam{
	SortIntensive:           {Name: "data_size", Default: 10000, Min: 1, Max: 100000},
	MathematicalComputation: {Name: "complexity", Default: 1000, Min: 1, Max: 10000},
	StringProcessing:        {Name: "text_size", Default: 10000, Min: 1, Max: 100000},
	MemoryIntensive:         {Name: "memory_size_mb", Default: 10, Min: 1, Max: 100},
}

// SizeParam returns the size parameter of op, or false for an unknown operation.
func (op Operation) SizeParam() (SizeParam, bool) {
	p, ok := sizeParams[op]
	return p, ok
}

func (op Operation) Valid() bool {
	_, ok := sizeParams[op]
	return ok
}

// Params are the already validated inputs of a workload run.
type Params struct {
	Size       int
	Iterations int
	Seed       int64
}

// Summary holds the fields shared by every workload result.
type Summary struct {
	TotalExecutionTime float64 `json:"total_execution_time"` // seconds
	Timestamp          float64 `json:"timestamp"`            // unix seconds
}

func (s *Summary) Stats() *Summary {
	return s
}

// Result is the outcome of a workload run.
type Result interface {
	Stats() *Summary
	// PhaseTime is the sum of all the phase timings, in seconds.
	PhaseTime() float64
}

// Run executes the workload selected by op and fills in its summary.
func Run(op Operation, p Params) (Result, error) {
	start := time.Now()

	var res Result
	switch op {
	case SortIntensive:
		res = SortIntensiveWorkload(p.Size, p.Iterations, p.Seed)
	case MathematicalComputation:
		res = MathematicalComputationWorkload(p.Size, p.Iterations, p.Seed)
	case StringProcessing:
		res = StringProcessingWorkload(p.Size, p.Iterations, p.Seed)
	case MemoryIntensive:
		res = MemoryIntensiveWorkload(p.Size, p.Iterations, p.Seed)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	s := res.Stats()
	s.TotalExecutionTime = time.Since(start).Seconds()
	s.Timestamp = float64(time.Now().UnixNano()) / 1e9
	return res, nil
}

// iterationRand returns the generator for the i-th (0-based) iteration.
func iterationRand(seed int64, i int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(i)))
}

// timed runs fn and returns its duration in seconds.
func timed(fn func()) float64 {
	start := time.Now()
	fn()
	return time.Since(start).Seconds()
}
