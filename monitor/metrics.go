package monitor

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echobin_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echobin_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "echobin_build_info",
			Help: "Build information.",
		},
		[]string{"version", "build_time", "go_version"},
	)
)

// InitPrometheusMonitoring registers the service collectors. Call once at
// startup before the metrics middleware is installed.
func InitPrometheusMonitoring(version, buildTime, goVersion string, startTime time.Time) error {
	for _, c := range []prometheus.Collector{httpRequestsTotal, httpRequestDuration, buildInfo} {
		if err := prometheus.Register(c); err != nil {
			return errors.Wrap(err, "register prometheus collector")
		}
	}
	buildInfo.WithLabelValues(version, buildTime, goVersion).Set(float64(startTime.Unix()))
	return nil
}

// ObserveRequest records one finished request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
