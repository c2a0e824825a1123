package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sink is an external monitoring system receiving performance records.
type Sink interface {
	Emit(ctx context.Context, m *PerformanceMetrics) error
}

// MultiSink emits to every sink, also when some of them fail.
type MultiSink []Sink

func (ms MultiSink) Emit(ctx context.Context, m *PerformanceMetrics) error {
	var err error
	for _, s := range ms {
		if e := s.Emit(ctx, m); e != nil {
			err = errors.Join(err, e)
		}
	}
	return err
}

// LogSink writes the records to the structured log.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Emit(_ context.Context, m *PerformanceMetrics) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger.Info("Performance metrics",
		zap.String("architecture", m.Architecture),
		zap.String("operation", m.Operation),
		zap.Float64("execution_time_ms", m.ExecutionTimeMs),
		zap.Float64("memory_used_mb", m.MemoryUsedMB),
		zap.Float64("peak_memory_mb", m.PeakMemoryMB),
		zap.Float64("memory_delta_mb", m.MemoryDeltaMB),
		zap.Bool("cold_start", m.ColdStart),
		zap.Int("data_size", m.DataSize),
		zap.Int("iterations", m.Iterations),
		zap.String("function_name", m.FunctionName))
	return nil
}

// Report emits m to sink without ever failing: errors and panics raised by
// the sink are logged and dropped.
func Report(ctx context.Context, sink Sink, m *PerformanceMetrics, timeout time.Duration) {
	if sink == nil || m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("Metrics sink panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if err := sink.Emit(ctx, m); err != nil {
		zap.L().Warn("Failed to emit performance metrics",
			zap.String("operation", m.Operation), zap.Error(err))
	}
}
