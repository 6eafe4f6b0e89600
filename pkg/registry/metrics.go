package registry

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registrations *prometheus.CounterVec
	failures      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, logger *slog.Logger) *metrics {
	return &metrics{
		registrations: registerCounterVec(reg, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewbind",
			Name:      "registrations_total",
			Help:      "View callbacks recorded, by kind.",
		}, []string{"kind"})),
		failures: registerCounterVec(reg, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewbind",
			Name:      "registration_failures_total",
			Help:      "View callback registrations rejected, by kind.",
		}, []string{"kind"})),
	}
}

// registerCounterVec reuses an identical collector already registered on reg,
// so several registries can share one Prometheus registerer. Other registration
// failures are logged; the returned collector then counts but is not exported.
func registerCounterVec(reg prometheus.Registerer, logger *slog.Logger, vec *prometheus.CounterVec) *prometheus.CounterVec {
	err := reg.Register(vec)
	if err == nil {
		return vec
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing
		}
	}
	logger.Warn("registry metrics not registered", "error", err)
	return vec
}

func (m *metrics) registered(kind Kind) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(string(kind)).Inc()
}

func (m *metrics) failed(kind Kind) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(kind)).Inc()
}
