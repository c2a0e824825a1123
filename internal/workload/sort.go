package workload

import (
	"slices"
)

type SortIteration struct {
	Iteration     int     `json:"iteration"`
	QuicksortTime float64 `json:"quicksort_time"`
	MergesortTime float64 `json:"mergesort_time"`
	HeapsortTime  float64 `json:"heapsort_time"`
	BuiltinTime   float64 `json:"builtin_time"`
	ResultsMatch  bool    `json:"results_match"`
}

type SortResult struct {
	Operation        Operation       `json:"operation"`
	DataSize         int             `json:"data_size"`
	Iterations       int             `json:"iterations"`
	AlgorithmsTested []SortIteration `json:"algorithms_tested"`
	Summary
}

func (r *SortResult) PhaseTime() float64 {
	var t float64
	for _, it := range r.AlgorithmsTested {
		t += it.QuicksortTime + it.MergesortTime + it.HeapsortTime + it.BuiltinTime
	}
	return t
}

// SortIntensiveWorkload sorts copies of the same random data with four
// algorithms and checks that they agree.
func SortIntensiveWorkload(dataSize, iterations int, seed int64) *SortResult {
	res := &SortResult{
		Operation:        SortIntensive,
		DataSize:         dataSize,
		Iterations:       iterations,
		AlgorithmsTested: make([]SortIteration, 0, iterations),
	}

	for i := 0; i < iterations; i++ {
		rng := iterationRand(seed, i)
		data := make([]int, dataSize)
		for j := range data {
			data[j] = rng.Intn(100000) + 1
		}

		var quick, merge, heap, builtin []int
		it := SortIteration{Iteration: i + 1}
		it.QuicksortTime = timed(func() { quick = quicksort(slices.Clone(data)) })
		it.MergesortTime = timed(func() { merge = mergesort(slices.Clone(data)) })
		it.HeapsortTime = timed(func() { heap = heapsort(slices.Clone(data)) })
		it.BuiltinTime = timed(func() {
			builtin = slices.Clone(data)
			slices.Sort(builtin)
		})
		it.ResultsMatch = slices.Equal(quick, merge) && slices.Equal(merge, heap) && slices.Equal(heap, builtin)

		res.AlgorithmsTested = append(res.AlgorithmsTested, it)
	}
	return res
}

// quicksort partitions around the middle element into three new slices and
// recurses on the outer two.
func quicksort(arr []int) []int {
	if len(arr) <= 1 {
		return arr
	}
	pivot := arr[len(arr)/2]
	var left, middle, right []int
	for _, x := range arr {
		switch {
		case x < pivot:
			left = append(left, x)
		case x == pivot:
			middle = append(middle, x)
		default:
			right = append(right, x)
		}
	}
	out := make([]int, 0, len(arr))
	out = append(out, quicksort(left)...)
	out = append(out, middle...)
	return append(out, quicksort(right)...)
}

func mergesort(arr []int) []int {
	if len(arr) <= 1 {
		return arr
	}
	mid := len(arr) / 2
	return merge(mergesort(arr[:mid]), mergesort(arr[mid:]))
}

func merge(left, right []int) []int {
	out := make([]int, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	return append(out, right[j:]...)
}

// heapsort sorts arr in place using a max heap.
func heapsort(arr []int) []int {
	n := len(arr)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(arr, n, i)
	}
	for i := n - 1; i > 0; i-- {
		arr[0], arr[i] = arr[i], arr[0]
		siftDown(arr, i, 0)
	}
	return arr
}

func siftDown(arr []int, n, i int) {
	for {
		largest := i
		l, r := 2*i+1, 2*i+2
		if l < n && arr[l] > arr[largest] {
			largest = l
		}
		if r < n && arr[r] > arr[largest] {
			largest = r
		}
		if largest == i {
			return
		}
		arr[i], arr[largest] = arr[largest], arr[i]
		i = largest
	}
}
