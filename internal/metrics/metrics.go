package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/grussorusso/archbench/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var Enabled bool

// Registry collects the Prometheus metrics exported by the local server.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Init serves the registry on /metrics when metrics are enabled. It blocks.
func Init() {
	if config.GetBool(config.METRICS_ENABLED, false) {
		zap.L().Info("Metrics enabled.")
		Enabled = true
	} else {
		zap.L().Info("Metrics disabled.")
		Enabled = false
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	addr := fmt.Sprintf(":%d", config.GetInt(config.METRICS_PORT, 2112))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("Metrics server stopped", zap.Error(err))
	}
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true})
}
