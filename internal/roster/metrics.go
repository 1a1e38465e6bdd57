package roster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts list fetches that fell back to an empty list.
type Metrics struct {
	Degraded *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Degraded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "realty_list_degraded_total",
			Help: "List fetches shown as empty because the request failed, by collection and error code",
		}, []string{"collection", "code"}),
	}
}
