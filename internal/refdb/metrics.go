package refdb

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results recorded by the lookups counter.
const (
	resultHit      = "hit"
	resultMiss     = "miss"
	resultNotFound = "not_found"
	resultError    = "error"
)

type metrics struct {
	lookups *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkmn",
		Subsystem: "refdb",
		Name:      "lookups_total",
		Help:      "Reference Database lookups by kind and result (hit, miss, not_found, error).",
	}, []string{"kind", "result"})

	if reg != nil {
		if err := reg.Register(lookups); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					lookups = existing
				}
			}
		}
	}
	return &metrics{lookups: lookups}
}

func (m *metrics) observe(kind, result string) {
	m.lookups.WithLabelValues(kind, result).Inc()
}
