package logging

import (
	"sync"
	"time"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/grussorusso/archbench/internal/metrics"
)

const Capacity = 100

// Log keeps the most recent performance records of one operation.
type Log struct {
	ringPointer  int
	reportBuffer [Capacity]Report //ring buffer
	mtx          sync.RWMutex
}

type Report struct {
	report     *metrics.PerformanceMetrics
	expiration int64
}

type LogStatus struct {
	Invocations         int     `json:"invocations"`
	ColdStarts          int     `json:"cold_starts"`
	AvgColdExecutionMs  float64 `json:"avg_cold_execution_ms"`
	AvgWarmExecutionMs  float64 `json:"avg_warm_execution_ms"`
	AvgExecutionMs      float64 `json:"avg_execution_ms"`
	AvgMemoryUsedMB     float64 `json:"avg_memory_used_mb"`
	MaxPeakMemoryUsedMB float64 `json:"max_peak_memory_mb"`
}

func (l *Log) Update(m *metrics.PerformanceMetrics) {
	l.UpdateAt(m, time.Now())
}

func (l *Log) UpdateAt(m *metrics.PerformanceMetrics, now time.Time) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	//insert new Report in the ring
	l.reportBuffer[l.ringPointer].report = m
	l.reportBuffer[l.ringPointer].expiration = now.Add(time.Duration(config.GetInt(config.LOGGING_EXPIRATION, 3)) * time.Minute).UnixNano()
	l.ringPointer = (l.ringPointer + 1) % Capacity
}

func (l *Log) GetLogStatus() (status *LogStatus) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	var coldTime, warmTime, memory float64
	var coldCounter, warmCounter int
	status = &LogStatus{}

	for _, reportItem := range l.reportBuffer {
		r := reportItem.report
		if r == nil {
			continue
		}

		if r.ColdStart {
			coldTime += r.ExecutionTimeMs
			coldCounter++
		} else {
			warmTime += r.ExecutionTimeMs
			warmCounter++
		}
		memory += r.MemoryUsedMB
		if r.PeakMemoryMB > status.MaxPeakMemoryUsedMB {
			status.MaxPeakMemoryUsedMB = r.PeakMemoryMB
		}
	}

	total := coldCounter + warmCounter
	status.Invocations = total
	status.ColdStarts = coldCounter
	if coldCounter > 0 {
		status.AvgColdExecutionMs = coldTime / float64(coldCounter)
	}
	if warmCounter > 0 {
		status.AvgWarmExecutionMs = warmTime / float64(warmCounter)
	}
	if total > 0 {
		status.AvgExecutionMs = (coldTime + warmTime) / float64(total)
		status.AvgMemoryUsedMB = memory / float64(total)
	}
	return status
}

func (l *Log) CleanupExpiredReports() {
	l.CleanupExpiredReportsAt(time.Now())
}

func (l *Log) CleanupExpiredReportsAt(now time.Time) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	for i := range l.reportBuffer {
		if l.reportBuffer[i].report != nil && now.UnixNano() > l.reportBuffer[i].expiration {
			l.reportBuffer[i].report = nil
		}
	}
}
