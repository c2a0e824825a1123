package metrics

import (
	"time"

	"github.com/grussorusso/archbench/internal/config"
	"go.uber.org/zap"
)

// SinkFromConfig assembles the configured sinks. The structured log always
// receives the records; the returned function releases the sink clients.
func SinkFromConfig() (Sink, func(), error) {
	sinks := MultiSink{LogSink{}}
	closers := make([]func(), 0)

	if config.GetBool(config.METRICS_ENABLED, false) {
		ps, err := NewPrometheusSink(Registry)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, ps)
	}

	if config.GetBool(config.SINK_CLOUDWATCH_ENABLED, false) {
		cw, err := NewCloudWatchSinkFromEnv(config.GetString(config.SINK_CLOUDWATCH_NAMESPACE, DefaultNamespace))
		if err != nil {
			// observability must not prevent the function from serving requests
			zap.L().Warn("Failed to initialize CloudWatch sink", zap.Error(err))
		} else {
			sinks = append(sinks, cw)
		}
	}

	if config.GetBool(config.SINK_INFLUX_ENABLED, false) {
		address := config.GetString(config.SINK_INFLUX_ADDRESS, "http://localhost:8086")
		is := NewInfluxSink(address,
			config.GetString(config.SINK_INFLUX_TOKEN, "archbench"),
			config.GetString(config.SINK_INFLUX_ORG, "archbench"),
			config.GetString(config.SINK_INFLUX_BUCKET, "archbench"))
		zap.L().Info("InfluxDB sink enabled", zap.String("address", address))
		sinks = append(sinks, is)
		closers = append(closers, is.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return sinks, closeAll, nil
}

// EmitTimeout bounds a single Report call.
func EmitTimeout() time.Duration {
	return time.Duration(config.GetInt(config.SINK_TIMEOUT_MS, 2000)) * time.Millisecond
}
