package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "groupescrow"

// Operations counts executed escrow operations by name and outcome
var Operations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "operations_total",
	Help:      "Escrow operations executed, by operation and outcome.",
}, []string{"operation", "outcome"})

// PersistFailures counts snapshots or audit entries that could not be written
var PersistFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "persist_failures_total",
	Help:      "Failed writes of escrow snapshots and audit log entries.",
}, []string{"target"})

// RegistryLoads counts registry lookups by whether the instance was cached
var RegistryLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "registry_loads_total",
	Help:      "Escrow registry lookups, by cache result.",
}, []string{"result"})

// Register adds all collectors to reg
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{Operations, PersistFailures, RegistryLoads} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
