package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/grussorusso/archbench/internal/function"
	"github.com/prometheus/procfs"
	"go.uber.org/zap"
)

const bytesPerMB = 1024 * 1024

// PerformanceMetrics is the record produced for every measured invocation.
type PerformanceMetrics struct {
	Architecture    string  `json:"architecture"`
	Operation       string  `json:"operation"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	MemoryUsedMB    float64 `json:"memory_used_mb"`
	PeakMemoryMB    float64 `json:"peak_memory_mb"`
	MemoryDeltaMB   float64 `json:"memory_delta_mb"`
	ColdStart       bool    `json:"cold_start"`
	DataSize        int     `json:"data_size"`
	Iterations      int     `json:"iterations"`
	Timestamp       string  `json:"timestamp"`
	FunctionName    string  `json:"function_name"`
	FunctionVersion string  `json:"function_version"`
	Runtime         string  `json:"runtime"`
}

// MemorySampler returns the current memory usage of the process in MB.
type MemorySampler func() float64

// ResidentMemoryMB reads the resident set size from /proc, falling back to
// the memory obtained by the Go runtime where /proc is not mounted.
func ResidentMemoryMB() float64 {
	if p, err := procfs.Self(); err == nil {
		if stat, err := p.Stat(); err == nil {
			return float64(stat.ResidentMemory()) / bytesPerMB
		}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys) / bytesPerMB
}

// Collector measures workload invocations. The peak memory it reports is the
// highest sample seen during the lifetime of the collector, i.e. of the
// process instance.
type Collector struct {
	info    function.Info
	sampler MemorySampler

	mtx  sync.Mutex
	peak float64
}

func NewCollector(info function.Info, sampler MemorySampler) *Collector {
	if sampler == nil {
		sampler = ResidentMemoryMB
	}
	return &Collector{info: info, sampler: sampler}
}

func (c *Collector) Info() function.Info {
	return c.info
}

func (c *Collector) sample() float64 {
	mb := c.sampler()
	c.mtx.Lock()
	if mb > c.peak {
		c.peak = mb
	}
	c.mtx.Unlock()
	return mb
}

func (c *Collector) PeakMB() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.peak
}

// Measure runs fn between two memory samples and a monotonic timer. Metrics
// are always produced, also when fn fails; a panic in fn is turned into an
// error.
func (c *Collector) Measure(operation string, dataSize, iterations int, coldStart bool, fn func() error) (m *PerformanceMetrics, err error) {
	before := c.sample()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workload %s panicked: %v", operation, r)
		}
		elapsed := time.Since(start)
		after := c.sample()

		m = &PerformanceMetrics{
			Architecture:    c.info.Architecture,
			Operation:       operation,
			ExecutionTimeMs: float64(elapsed.Nanoseconds()) / 1e6,
			MemoryUsedMB:    after,
			PeakMemoryMB:    c.PeakMB(),
			MemoryDeltaMB:   after - before,
			ColdStart:       coldStart,
			DataSize:        dataSize,
			Iterations:      iterations,
			Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
			FunctionName:    c.info.FunctionName,
			FunctionVersion: c.info.FunctionVersion,
			Runtime:         c.info.Runtime,
		}
		zap.L().Info("Recorded metrics",
			zap.String("operation", operation),
			zap.String("architecture", m.Architecture),
			zap.Float64("execution_time_ms", m.ExecutionTimeMs),
			zap.Float64("memory_used_mb", m.MemoryUsedMB),
			zap.Float64("peak_memory_mb", m.PeakMemoryMB),
			zap.Bool("cold_start", coldStart),
			zap.Error(err))
	}()

	err = fn()
	return
}
