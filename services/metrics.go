package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linkGroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_link_groups_created_total",
		Help: "Table link groups created.",
	})
	linkGroupsDissolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_link_groups_dissolved_total",
		Help: "Table link groups dissolved by unlink or sync.",
	})
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_reservation_transitions_total",
		Help: "Optimistic reservation status transitions by target status.",
	}, []string{"status"})
	optimisticRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_optimistic_rollbacks_total",
		Help: "Optimistic updates reverted after a failed backend call.",
	}, []string{"operation"})
	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_validation_failures_total",
		Help: "Commands rejected locally before any mutation.",
	}, []string{"code"})
)

func countValidation(err error) {
	if ve, ok := err.(*ValidationError); ok {
		validationFailures.WithLabelValues(ve.Code).Inc()
	}
}
