package bench

import (
	"context"
	"os"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/grussorusso/archbench/internal/function"
	"github.com/grussorusso/archbench/internal/logging"
	"github.com/grussorusso/archbench/internal/metrics"
	"github.com/grussorusso/archbench/internal/telemetry"
	"github.com/grussorusso/archbench/internal/workload"
	"go.uber.org/zap"
)

// NewHandlerFromConfig wires a Handler with the sinks, tracing and function
// information given by the configuration. The returned function releases
// every resource acquired here.
func NewHandlerFromConfig(ctx context.Context) (*Handler, func(), error) {
	info, err := function.LoadInfo(config.GetString(config.ARCHITECTURE, ""))
	if err != nil {
		return nil, nil, err
	}

	sink, closeSinks, err := metrics.SinkFromConfig()
	if err != nil {
		return nil, nil, err
	}

	shutdownTracing := func(context.Context) error { return nil }
	if config.GetBool(config.TRACING_ENABLED, false) {
		shutdownTracing, err = telemetry.SetupOTelSDK(ctx, os.Stderr)
		if err != nil {
			closeSinks()
			return nil, nil, err
		}
	}

	recent := logging.NewLogger()
	go recent.Run()

	h := NewHandler(metrics.NewCollector(info, nil), sink, recent)
	h.Seed = config.GetInt64(config.WORKLOAD_SEED, workload.DefaultSeed)
	h.EmitTimeout = metrics.EmitTimeout()

	zap.L().Info("Benchmark handler ready",
		zap.Stringer("function", info),
		zap.String("runtime", info.Runtime),
		zap.Int("memory_limit_mb", info.MemoryLimitMB))

	cleanup := func() {
		recent.Stop()
		if err := shutdownTracing(context.Background()); err != nil {
			zap.L().Warn("Tracing shutdown failed", zap.Error(err))
		}
		closeSinks()
		_ = zap.L().Sync()
	}
	return h, cleanup, nil
}
