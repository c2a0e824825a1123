package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

const DefaultNamespace = "Lambda/PerformanceComparison"

// CloudWatchSink publishes records as CloudWatch custom metrics.
type CloudWatchSink struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

func NewCloudWatchSink(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchSink {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CloudWatchSink{client: client, namespace: namespace}
}

// NewCloudWatchSinkFromEnv builds the client from the default credential chain
// (on Lambda: the execution role).
func NewCloudWatchSinkFromEnv(namespace string) (*CloudWatchSink, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("could not create AWS session: %w", err)
	}
	return NewCloudWatchSink(cloudwatch.New(sess), namespace), nil
}

func (s *CloudWatchSink) Emit(ctx context.Context, m *PerformanceMetrics) error {
	_, err := s.client.PutMetricDataWithContext(ctx, s.input(m))
	if err != nil {
		return fmt.Errorf("put metric data to %s: %w", s.namespace, err)
	}
	return nil
}

func (s *CloudWatchSink) input(m *PerformanceMetrics) *cloudwatch.PutMetricDataInput {
	ts := time.Now()
	if parsed, err := time.Parse(time.RFC3339Nano, m.Timestamp); err == nil {
		ts = parsed
	}

	opDims := []*cloudwatch.Dimension{
		dimension("Architecture", m.Architecture),
		dimension("Operation", m.Operation),
		dimension("FunctionName", m.FunctionName),
	}
	datum := func(name string, value float64, unit string, dims []*cloudwatch.Dimension) *cloudwatch.MetricDatum {
		return &cloudwatch.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       aws.String(unit),
			Dimensions: dims,
			Timestamp:  aws.Time(ts),
		}
	}

	coldStart := 0.0
	if m.ColdStart {
		coldStart = 1.0
	}

	return &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(s.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			datum("ExecutionTime", m.ExecutionTimeMs, cloudwatch.StandardUnitMilliseconds, opDims),
			datum("MemoryUsage", m.MemoryUsedMB, cloudwatch.StandardUnitMegabytes, opDims),
			datum("PeakMemoryUsage", m.PeakMemoryMB, cloudwatch.StandardUnitMegabytes, opDims),
			datum("ColdStart", coldStart, cloudwatch.StandardUnitCount, []*cloudwatch.Dimension{
				dimension("Architecture", m.Architecture),
				dimension("FunctionName", m.FunctionName),
			}),
		},
	}
}

func dimension(name, value string) *cloudwatch.Dimension {
	return &cloudwatch.Dimension{Name: aws.String(name), Value: aws.String(value)}
}
