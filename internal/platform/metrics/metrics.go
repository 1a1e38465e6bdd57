package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the stub server's Prometheus metrics.
type Metrics struct {
	RecordsCreated  *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the metrics with reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_stub_records_created_total",
			Help: "Records created by collection",
		}, []string{"collection"}),
		RecordsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_stub_records_deleted_total",
			Help: "Records deleted by collection",
		}, []string{"collection"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_stub_logins_total",
			Help: "Login attempts by route prefix and outcome",
		}, []string{"prefix", "outcome"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "realty_stub_request_duration_seconds",
			Help:    "Duration of stub server requests by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) IncrementRecordsCreated(collection string) {
	m.RecordsCreated.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncrementRecordsDeleted(collection string) {
	m.RecordsDeleted.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncrementLogins(prefix, outcome string) {
	m.Logins.WithLabelValues(prefix, outcome).Inc()
}

// ObserveRequest records the duration of a request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route, method string, start time.Time) {
	m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}
