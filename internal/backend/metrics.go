package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks backend calls made by the application core.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_backend_requests_total",
			Help: "Backend requests by method, endpoint prefix and outcome",
		}, []string{"method", "endpoint", "outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "realty_backend_request_duration_seconds",
			Help:    "Latency of backend requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "endpoint"}),
	}
}

func (m *Metrics) observe(method, endpoint, outcome string, start time.Time) {
	m.Requests.WithLabelValues(method, endpoint, outcome).Inc()
	m.Duration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
}
