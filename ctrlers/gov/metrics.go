package gov

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type govMetrics struct {
	proposals         prometheus.Counter
	votes             prometheus.Counter
	results           *prometheus.CounterVec
	rejected          *prometheus.CounterVec
	executionFailures prometheus.Counter
	registryVersion   prometheus.Gauge
}

// newGovMetrics registers the engine metrics on reg. A nil reg keeps the
// collectors unregistered.
func newGovMetrics(reg prometheus.Registerer) *govMetrics {
	factory := promauto.With(reg)
	return &govMetrics{
		proposals: factory.NewCounter(prometheus.CounterOpts{
			Name: "coopgov_proposals_created_total",
			Help: "number of proposals created",
		}),
		votes: factory.NewCounter(prometheus.CounterOpts{
			Name: "coopgov_votes_total",
			Help: "number of accepted ballots",
		}),
		results: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coopgov_results_total",
			Help: "number of announced results by validity",
		}, []string{"valid"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coopgov_operations_rejected_total",
			Help: "number of failed operations by operation name",
		}, []string{"op"}),
		executionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "coopgov_execution_failures_total",
			Help: "number of winning batches the execution sink refused",
		}),
		registryVersion: factory.NewGauge(prometheus.GaugeOpts{
			Name: "coopgov_class_registry_version",
			Help: "version of the active class set",
		}),
	}
}
