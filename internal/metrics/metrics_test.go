package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/grussorusso/archbench/internal/function"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInfo = function.Info{
	FunctionName:    "bench-arm64",
	FunctionVersion: "$LATEST",
	Architecture:    "arm64",
	Runtime:         "go1.23",
}

// sequenceSampler returns the given samples in order, repeating the last one.
func sequenceSampler(samples ...float64) MemorySampler {
	i := 0
	return func() float64 {
		v := samples[min(i, len(samples)-1)]
		i++
		return v
	}
}

func TestColdStartObservedOnce(t *testing.T) {
	var tracker ColdStartTracker
	assert.False(t, tracker.Warm())
	assert.True(t, tracker.Observe())
	assert.True(t, tracker.Warm())
	assert.False(t, tracker.Observe())
	assert.False(t, tracker.Observe())
}

func TestColdStartConcurrentObservers(t *testing.T) {
	var tracker ColdStartTracker
	var wg sync.WaitGroup
	var mtx sync.Mutex
	cold := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Observe() {
				mtx.Lock()
				cold++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cold)
}

func TestMeasureRecordsMetrics(t *testing.T) {
	c := NewCollector(testInfo, sequenceSampler(100, 140))

	m, err := c.Measure("sort_intensive", 100, 2, true, func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "arm64", m.Architecture)
	assert.Equal(t, "sort_intensive", m.Operation)
	assert.GreaterOrEqual(t, m.ExecutionTimeMs, 5.0)
	assert.Equal(t, 140.0, m.MemoryUsedMB)
	assert.Equal(t, 140.0, m.PeakMemoryMB)
	assert.Equal(t, 40.0, m.MemoryDeltaMB)
	assert.True(t, m.ColdStart)
	assert.Equal(t, 100, m.DataSize)
	assert.Equal(t, 2, m.Iterations)
	assert.Equal(t, "bench-arm64", m.FunctionName)
	assert.True(t, strings.HasSuffix(m.Timestamp, "Z"))
}

func TestMeasurePeakSurvivesInvocations(t *testing.T) {
	c := NewCollector(testInfo, sequenceSampler(50, 300, 80, 90))
	_, err := c.Measure("op", 1, 1, true, func() error { return nil })
	require.NoError(t, err)

	m, err := c.Measure("op", 1, 1, false, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 90.0, m.MemoryUsedMB)
	assert.Equal(t, 300.0, m.PeakMemoryMB)
}

func TestMeasureOnFailure(t *testing.T) {
	c := NewCollector(testInfo, sequenceSampler(10))
	boom := errors.New("boom")

	m, err := c.Measure("op", 1, 1, false, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, m)

	m, err = c.Measure("op", 1, 1, false, func() error { panic("index out of range") })
	assert.ErrorContains(t, err, "panicked")
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.ExecutionTimeMs, 0.0)
}

func TestResidentMemory(t *testing.T) {
	assert.Greater(t, ResidentMemoryMB(), 0.0)
}

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricDataWithContext(_ aws.Context, in *cloudwatch.PutMetricDataInput, _ ...request.Option) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func sampleMetrics(cold bool) *PerformanceMetrics {
	return &PerformanceMetrics{
		Architecture:    "arm64",
		Operation:       "string_processing",
		ExecutionTimeMs: 12.5,
		MemoryUsedMB:    64,
		PeakMemoryMB:    70,
		ColdStart:       cold,
		Timestamp:       "2026-10-18T10:00:00Z",
		FunctionName:    "bench-arm64",
	}
}

func TestCloudWatchSink(t *testing.T) {
	fake := &fakeCloudWatch{}
	sink := NewCloudWatchSink(fake, "")

	require.NoError(t, sink.Emit(context.Background(), sampleMetrics(true)))
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, DefaultNamespace, aws.StringValue(in.Namespace))
	require.Len(t, in.MetricData, 4)

	byName := map[string]*cloudwatch.MetricDatum{}
	for _, d := range in.MetricData {
		byName[aws.StringValue(d.MetricName)] = d
	}
	assert.Equal(t, 12.5, aws.Float64Value(byName["ExecutionTime"].Value))
	assert.Equal(t, cloudwatch.StandardUnitMilliseconds, aws.StringValue(byName["ExecutionTime"].Unit))
	assert.Len(t, byName["ExecutionTime"].Dimensions, 3)
	assert.Equal(t, 64.0, aws.Float64Value(byName["MemoryUsage"].Value))
	assert.Equal(t, 70.0, aws.Float64Value(byName["PeakMemoryUsage"].Value))
	assert.Equal(t, 1.0, aws.Float64Value(byName["ColdStart"].Value))
	assert.Len(t, byName["ColdStart"].Dimensions, 2)
	assert.Equal(t, 2026, aws.TimeValue(byName["ColdStart"].Timestamp).Year())
}

func TestCloudWatchSinkError(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	err := NewCloudWatchSink(fake, "Custom/NS").Emit(context.Background(), sampleMetrics(false))
	assert.ErrorContains(t, err, "Custom/NS")
	assert.ErrorContains(t, err, "throttled")
}

func TestPrometheusSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.Emit(context.Background(), sampleMetrics(true)))
	require.NoError(t, sink.Emit(context.Background(), sampleMetrics(false)))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.invocations.WithLabelValues("arm64", "string_processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.coldStarts.WithLabelValues("arm64", "string_processing")))
	assert.Equal(t, 64.0, testutil.ToFloat64(sink.memoryUsed.WithLabelValues("arm64", "string_processing")))

	_, err = NewPrometheusSink(reg)
	assert.Error(t, err, "duplicate registration")
}

type fakeWriter struct {
	points []*write.Point
	err    error
}

func (f *fakeWriter) WritePoint(_ context.Context, p ...*write.Point) error {
	f.points = append(f.points, p...)
	return f.err
}

func TestInfluxSink(t *testing.T) {
	w := &fakeWriter{}
	sink := &InfluxSink{writer: w, bucket: "bench"}

	require.NoError(t, sink.Emit(context.Background(), sampleMetrics(true)))
	require.Len(t, w.points, 1)
	line := write.PointToLineProtocol(w.points[0], time.Second)
	assert.True(t, strings.HasPrefix(line, "benchmark,"))
	assert.Contains(t, line, "architecture=arm64")
	assert.Contains(t, line, "operation=string_processing")
	assert.Contains(t, line, "cold_start=true")

	w.err = errors.New("unavailable")
	assert.ErrorContains(t, sink.Emit(context.Background(), sampleMetrics(false)), "bench")
	sink.Close()
}

type countingSink struct {
	calls int
	err   error
	panic bool
}

func (s *countingSink) Emit(context.Context, *PerformanceMetrics) error {
	s.calls++
	if s.panic {
		panic("sink exploded")
	}
	return s.err
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	a := &countingSink{err: errors.New("a failed")}
	b := &countingSink{}
	c := &countingSink{err: errors.New("c failed")}

	err := MultiSink{a, b, c}.Emit(context.Background(), sampleMetrics(false))
	assert.ErrorContains(t, err, "a failed")
	assert.ErrorContains(t, err, "c failed")
	assert.Equal(t, 1, b.calls)

	assert.NoError(t, MultiSink{LogSink{}, b}.Emit(context.Background(), sampleMetrics(false)))
}

func TestReportSwallowsFailures(t *testing.T) {
	failing := &countingSink{err: errors.New("down")}
	assert.NotPanics(t, func() {
		Report(context.Background(), failing, sampleMetrics(false), time.Second)
	})
	assert.Equal(t, 1, failing.calls)

	panicking := &countingSink{panic: true}
	assert.NotPanics(t, func() {
		Report(context.Background(), panicking, sampleMetrics(false), time.Second)
	})

	assert.NotPanics(t, func() {
		Report(context.Background(), nil, sampleMetrics(false), time.Second)
	})
}
