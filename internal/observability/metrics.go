// internal/observability/metrics.go
package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// Prometheus metrics, all labelled by group.
var (
	ReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_reads_total",
			Help: "Batch reads attempted per group (after retries)",
		},
		[]string{"group"},
	)
	ReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_read_failures_total",
			Help: "Batch reads that exhausted their retries",
		},
		[]string{"group"},
	)
	Retries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_retries_total",
			Help: "Extra read attempts beyond the first",
		},
		[]string{"group"},
	)
	ConversionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_conversion_errors_total",
			Help: "Register values that failed to decode",
		},
		[]string{"group"},
	)
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_rows_written_total",
			Help: "Rows accepted by the sink",
		},
		[]string{"group"},
	)
	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inverter_collector_sink_errors_total",
			Help: "Sink calls that returned an error",
		},
		[]string{"group"},
	)
	LastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inverter_collector_last_success_timestamp_seconds",
			Help: "Unix time of the last successful poll",
		},
		[]string{"group"},
	)
	ReadLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inverter_collector_read_duration_seconds",
			Help:    "Batch read duration including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"group"},
	)
)

// Serve starts an HTTP server for handler on addr in the background.
// An empty addr disables it and returns nil.
func Serve(name, addr string, handler http.Handler) *http.Server {
	if addr == "" {
		return nil
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zap.S().Infof("Serving %s on %s", name, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Errorf("%s server: %v", name, err)
		}
	}()
	return srv
}

// MetricsHandler serves the default registry on /metrics.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())
	return mux
}
