// Package metrics defines and registers all custom Prometheus metrics for the
// canteen reporting API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "canteen"

// ── Cascade metrics ───────────────────────────────────────────────────────────

// CascadeFetchTotal counts option-list fetches by the cascading loader.
// Labels:
//   - dimension: "places" or "locations"
//   - result: "ok" or "error"
var CascadeFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_fetch_total",
		Help:      "Total number of cascade option fetches, by dimension and result.",
	},
	[]string{"dimension", "result"},
)

// CascadeSupersededTotal counts cascade results discarded because a newer
// request for the same dimension was issued while they were in flight.
var CascadeSupersededTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_superseded_total",
		Help:      "Total number of cascade results discarded by the latest-request-wins rule.",
	},
	[]string{"dimension"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsGeneratedTotal counts materialized reports.
// Labels:
//   - report: "meal_history", "pending_fees", "user"
//   - format: "json" or "csv"
var ReportsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Total number of reports materialized, by report and output format.",
	},
	[]string{"report", "format"},
)

// ReportRows observes the size of each materialized row set.
var ReportRows = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_rows",
		Help:      "Number of rows per materialized report.",
		Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
	},
	[]string{"report"},
)

// ── Meal collection metrics ───────────────────────────────────────────────────

// MealEventsProcessedTotal counts collection events that persisted successfully.
var MealEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meal_events_processed_total",
		Help:      "Total number of meal collection events successfully processed.",
	},
	[]string{"source"},
)

// MealEventsErrorsTotal counts collection events that failed processing.
// Label:
//   - reason: "duplicate", "out_of_scope", "insert_failed"
var MealEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meal_events_errors_total",
		Help:      "Total number of meal collection events that failed processing.",
	},
	[]string{"reason"},
)

// MealEventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate scan, skipped) or "miss" (new scan, processed)
var MealEventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meal_events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// MealEventsQueueDepth tracks events waiting in each dispatcher worker channel.
var MealEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "meal_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
