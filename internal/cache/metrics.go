package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters of cache operations, labelled by key
// namespace. A nil *Metrics records nothing.
type Metrics struct {
	hitsTotal          *prometheus.CounterVec
	missesTotal        *prometheus.CounterVec
	invalidationsTotal *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		hitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bean_transformer",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"namespace"},
		),
		missesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bean_transformer",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"namespace"},
		),
		invalidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bean_transformer",
				Subsystem: "cache",
				Name:      "invalidations_total",
				Help:      "Total number of cache entries removed",
			},
			[]string{"namespace"},
		),
	}
}

// Init pre-initializes the known namespaces so that they are exported with a
// zero value before the first operation.
func (m *Metrics) Init() {
	if m == nil {
		return
	}

	for _, ns := range []string{ClassType, DestFieldName, CanBeInjectedByConstructorParams, TransformerFunction, Converter} {
		label := namespace(ns)
		m.hitsTotal.WithLabelValues(label)
		m.missesTotal.WithLabelValues(label)
		m.invalidationsTotal.WithLabelValues(label)
	}
}

func (m *Metrics) hit(key string) {
	if m == nil {
		return
	}

	m.hitsTotal.WithLabelValues(namespace(key)).Inc()
}

func (m *Metrics) miss(key string) {
	if m == nil {
		return
	}

	m.missesTotal.WithLabelValues(namespace(key)).Inc()
}

func (m *Metrics) invalidate(key string, n int) {
	if m == nil || n == 0 {
		return
	}

	m.invalidationsTotal.WithLabelValues(namespace(key)).Add(float64(n))
}
