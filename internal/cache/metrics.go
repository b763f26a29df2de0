package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache-aside outcomes per key family.
type Metrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	Invalidations *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Cache lookups answered from the cache",
			},
			[]string{"family"},
		),
		Misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Cache lookups that fell through to the store",
			},
			[]string{"family"},
		),
		Invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidations_total",
				Help:      "Cache keys deleted after writes",
			},
			[]string{"family"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Invalidations)
	}
	return m
}
