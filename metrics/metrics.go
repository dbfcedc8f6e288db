// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Save outcomes
const (
	OutcomeSaved    = "saved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// SavesTotal counts save attempts by outcome.
	SavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_saves_total",
		Help: "Precinct save attempts by outcome",
	}, []string{"outcome"})

	// LedgerWriteErrors counts failed ledger appends by sink.
	LedgerWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_ledger_write_errors_total",
		Help: "Failed ledger appends by sink",
	}, []string{"sink"})

	// ReconcileRows counts ledger rows seen during reconciliation.
	ReconcileRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_reconcile_rows_total",
		Help: "Ledger rows processed during reconciliation by stream and result",
	}, []string{"stream", "result"})

	// RequestDuration observes HTTP handler latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_http_request_duration_seconds",
		Help:    "HTTP request duration by method, route pattern and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "pattern", "status"})

	// EntriesTotal counts operator edits by kind.
	EntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_entries_total",
		Help: "Operator edits by kind",
	}, []string{"kind"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
