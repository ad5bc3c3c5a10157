// Package metrics exposes Prometheus counters for the reservation engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	admissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menuexpress",
			Name:      "admissions_total",
			Help:      "Reservation admission attempts by outcome.",
		},
		[]string{"outcome"},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "menuexpress",
			Name:      "token_redemptions_total",
			Help:      "Capability token redemptions by purpose and outcome.",
		},
		[]string{"purpose", "outcome"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "menuexpress",
			Name:      "slot_queries_total",
			Help:      "Availability queries served.",
		},
	)
)

// Admission outcomes.
const (
	OutcomeAdmitted = "admitted"
	OutcomeCapacity = "capacity_rejected"
	OutcomeInvalid  = "invalid_fields"
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(admissions, redemptions, slotQueries)
	})
}

// IncAdmission increments the admission counter for an outcome label.
func IncAdmission(outcome string) {
	admissions.WithLabelValues(outcome).Inc()
}

// IncRedemption increments the token redemption counter.
func IncRedemption(purpose, outcome string) {
	redemptions.WithLabelValues(purpose, outcome).Inc()
}

// IncSlotQuery counts one served availability query.
func IncSlotQuery() {
	slotQueries.Inc()
}
