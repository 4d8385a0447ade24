// Package metrics provides Prometheus observability for the dispatch
// console API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// DutyEvaluations counts duty-status evaluations by dispatch mode.
// The roster badge poller drives most of this volume.
var DutyEvaluations = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "duty_evaluations_total",
	Help:      "Number of duty-status evaluations performed, by dispatch mode",
}, []string{"mode"})

// RankEdits counts priority re-ranking operations.
var RankEdits = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "rank_edits_total",
	Help:      "Number of cohort re-ranking operations applied",
})

// RankWriteFailures counts cohort persistence failures. Nonzero values
// mean a user saw a rank-save error.
var RankWriteFailures = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "rank_write_failures_total",
	Help:      "Number of cohort rank writes that failed and rolled back",
})

// LockedSlotChecks counts capacity checks that hit the minimum-notice
// blackout.
var LockedSlotChecks = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "dispatch",
	Name:      "locked_slot_checks_total",
	Help:      "Number of capacity checks answered as locked by the notice window",
})

// OnDutyTechnicians tracks the last observed on-duty head count per mode.
var OnDutyTechnicians = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "dispatch",
	Name:      "on_duty_technicians",
	Help:      "Most recently observed on-duty technician count, by dispatch mode",
}, []string{"mode"})
