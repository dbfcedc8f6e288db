// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/handlers"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/session"
)

func NewRouter(sess *session.Session, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	precinctHandler := handlers.NewPrecinctHandler(sess, cfg)
	ledgerHandler := handlers.NewLedgerHandler(sess)
	candidateHandler := handlers.NewCandidateHandler(sess)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Reference data and status overview
	mux.HandleFunc("GET /departments", middleware.WithLogging(precinctHandler.GetDepartments))
	mux.HandleFunc("GET /precincts", middleware.WithLogging(precinctHandler.ListPrecincts))
	mux.HandleFunc("GET /precincts/stats", middleware.WithLogging(precinctHandler.GetStats))
	mux.HandleFunc("GET /precincts/{id}", middleware.WithLogging(precinctHandler.GetPrecinct))

	// Per-table entry
	mux.HandleFunc("PUT /precincts/{id}/tables/{table}/votes/{party}", middleware.WithLogging(precinctHandler.RecordVote))
	mux.HandleFunc("POST /precincts/{id}/tables/{table}/photos", middleware.WithLogging(precinctHandler.AddPhoto))
	mux.HandleFunc("DELETE /precincts/{id}/tables/{table}/photos/{pos}", middleware.WithLogging(precinctHandler.RemovePhoto))

	// Ledger synchronization
	mux.HandleFunc("POST /precincts/{id}/save", middleware.WithLogging(precinctHandler.SavePrecinct))
	mux.HandleFunc("POST /ledger/reload", middleware.WithLogging(ledgerHandler.Reload))

	// Candidate directory
	mux.HandleFunc("POST /candidates/reload", middleware.WithLogging(candidateHandler.Reload))
	mux.HandleFunc("GET /candidates/{municipality}", middleware.WithLogging(candidateHandler.GetCandidates))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-tally API v1"))
	})

	return mux
}
