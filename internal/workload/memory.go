package workload

import (
	"slices"
)

type MemoryIteration struct {
	Iteration            int     `json:"iteration"`
	AllocationTime       float64 `json:"allocation_time"`
	SequentialAccessTime float64 `json:"sequential_access_time"`
	RandomAccessTime     float64 `json:"random_access_time"`
	CopyTime             float64 `json:"copy_time"`
	SequentialSum        float64 `json:"sequential_sum"`
	RandomSum            float64 `json:"random_sum"`
	ArraysEqual          bool    `json:"arrays_equal"`
}

type MemoryResult struct {
	Operation        Operation         `json:"operation"`
	MemorySizeMB     int               `json:"memory_size_mb"`
	Iterations       int               `json:"iterations"`
	MemoryOperations []MemoryIteration `json:"memory_operations"`
	Summary
}

func (r *MemoryResult) PhaseTime() float64 {
	var t float64
	for _, it := range r.MemoryOperations {
		t += it.AllocationTime + it.SequentialAccessTime + it.RandomAccessTime + it.CopyTime
	}
	return t
}

// MemoryIntensiveWorkload allocates memorySizeMB worth of float64 values and
// measures sequential access, random access and copy bandwidth over them.
func MemoryIntensiveWorkload(memorySizeMB, iterations int, seed int64) *MemoryResult {
	res := &MemoryResult{
		Operation:        MemoryIntensive,
		MemorySizeMB:     memorySizeMB,
		Iterations:       iterations,
		MemoryOperations: make([]MemoryIteration, 0, iterations),
	}

	n := memorySizeMB * 1024 * 1024 / 8
	for i := 0; i < iterations; i++ {
		rng := iterationRand(seed, i)
		it := MemoryIteration{Iteration: i + 1}

		var large, cp []float64
		it.AllocationTime = timed(func() {
			large = make([]float64, n)
			for j := range large {
				large[j] = rng.Float64()
			}
		})
		it.SequentialAccessTime = timed(func() {
			for _, v := range large {
				it.SequentialSum += v
			}
		})
		it.RandomAccessTime = timed(func() {
			for j := 0; j < n/10; j++ {
				it.RandomSum += large[rng.Intn(n)]
			}
		})
		it.CopyTime = timed(func() { cp = slices.Clone(large) })
		it.ArraysEqual = slices.Equal(large, cp)

		res.MemoryOperations = append(res.MemoryOperations, it)
	}
	return res
}
