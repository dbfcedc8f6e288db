// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/session"
)

type LedgerHandler struct {
	sess *session.Session
}

func NewLedgerHandler(sess *session.Session) *LedgerHandler {
	return &LedgerHandler{sess: sess}
}

// Reload handles POST /ledger/reload
// Rebuilds every tally from the ledger; unsaved edits are discarded.
func (h *LedgerHandler) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := h.sess.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	diags := report.Diagnostics
	if diags == nil {
		diags = []models.Diagnostic{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReloadResponse{
		Precincts:   report.Precincts,
		Dropped:     report.Dropped(),
		Diagnostics: diags,
	})
}
