package zeebe

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
)

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		return logging.NewSlogDefault()
	}

	return logging.NewSlog(logger)
}

// NewPrometheusMetrics returns a MetricsCollector exporting Prometheus metrics.
//
// Parameters:
//   - reg: Registerer the collectors are registered with (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric name prefix ("zeebe" if empty)
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
