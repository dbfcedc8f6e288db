// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/session"
)

type CandidateHandler struct {
	sess *session.Session
}

func NewCandidateHandler(sess *session.Session) *CandidateHandler {
	return &CandidateHandler{sess: sess}
}

// Reload handles POST /candidates/reload
// On failure the previous directory stays in place.
func (h *CandidateHandler) Reload(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.sess.ReloadCandidates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.CandidateReloadResponse{
		Municipalities: h.sess.Municipalities(),
		Warnings:       make([]string, 0, len(warnings)),
	}
	for _, warning := range warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetCandidates handles GET /candidates/{municipality}
// Unconfigured municipalities get the fallback ballot with configured=false.
func (h *CandidateHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.sess.Candidates(r.PathValue("municipality")))
}
