package metrics

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxSink writes one "benchmark" point per record.
type InfluxSink struct {
	client influxdb2.Client
	writer pointWriter
	bucket string
}

func NewInfluxSink(address, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClient(address, token)
	return &InfluxSink{
		client: client,
		writer: client.WriteAPIBlocking(org, bucket),
		bucket: bucket,
	}
}

func (s *InfluxSink) Emit(ctx context.Context, m *PerformanceMetrics) error {
	if err := s.writer.WritePoint(ctx, benchmarkPoint(m)); err != nil {
		return fmt.Errorf("write to influx bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *InfluxSink) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func benchmarkPoint(m *PerformanceMetrics) *write.Point {
	ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		ts = time.Now()
	}
	return influxdb2.NewPoint("benchmark",
		map[string]string{
			"architecture": m.Architecture,
			"operation":    m.Operation,
			"function":     m.FunctionName,
		},
		map[string]interface{}{
			"execution_time_ms": m.ExecutionTimeMs,
			"memory_used_mb":    m.MemoryUsedMB,
			"peak_memory_mb":    m.PeakMemoryMB,
			"memory_delta_mb":   m.MemoryDeltaMB,
			"cold_start":        m.ColdStart,
			"data_size":         m.DataSize,
			"iterations":        m.Iterations,
		},
		ts)
}
