// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/session"
	"github.com/danielhkuo/quickly-tally/tally"
)

type PrecinctHandler struct {
	sess *session.Session
	cfg  cliparse.Config
}

func NewPrecinctHandler(sess *session.Session, cfg cliparse.Config) *PrecinctHandler {
	return &PrecinctHandler{sess: sess, cfg: cfg}
}

// ListPrecincts handles GET /precincts?department=&status=&q=
func (h *PrecinctHandler) ListPrecincts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status tally.Status
	if raw := q.Get("status"); raw != "" {
		s, ok := tally.ParseStatus(raw)
		if !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "status must be pending, partial or complete")
			return
		}
		status = s
	}

	list := h.sess.List(session.Filter{
		Department: q.Get("department"),
		Status:     status,
		Query:      q.Get("q"),
	})
	middleware.JSONResponse(w, http.StatusOK, models.PrecinctListResponse{Precincts: list})
}

// GetStats handles GET /precincts/stats
func (h *PrecinctHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.sess.Stats())
}

// GetDepartments handles GET /departments
func (h *PrecinctHandler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	deps := h.sess.Departments()
	if deps == nil {
		deps = []string{}
	}
	middleware.JSONResponse(w, http.StatusOK, deps)
}

// GetPrecinct handles GET /precincts/{id}
// Opening a precinct starts its tally.
func (h *PrecinctHandler) GetPrecinct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sess.Open(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// RecordVote handles PUT /precincts/{id}/tables/{table}/votes/{party}
// The value may be a JSON string or number; anything unparseable is stored
// as 0.
func (h *PrecinctHandler) RecordVote(w http.ResponseWriter, r *http.Request) {
	table, ok := pathInt(w, r, "table")
	if !ok {
		return
	}

	var req models.RecordVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	party := r.PathValue("party")
	votes, err := h.sess.RecordVote(r.PathValue("id"), table, party, string(req.Value))
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RecordVoteResponse{Party: party, Votes: votes})
}

// AddPhoto handles POST /precincts/{id}/tables/{table}/photos
func (h *PrecinctHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	table, ok := pathInt(w, r, "table")
	if !ok {
		return
	}

	var req models.AddPhotoRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id := r.PathValue("id")
	if err := h.sess.AddPhoto(id, table, req.URL); err != nil {
		writeError(w, err)
		return
	}
	h.writeDetail(w, http.StatusCreated, id)
}

// RemovePhoto handles DELETE /precincts/{id}/tables/{table}/photos/{pos}
// pos is the 0-based position in the table's photo list.
func (h *PrecinctHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	table, ok := pathInt(w, r, "table")
	if !ok {
		return
	}
	pos, ok := pathInt(w, r, "pos")
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.sess.RemovePhoto(id, table, pos); err != nil {
		writeError(w, err)
		return
	}
	h.writeDetail(w, http.StatusOK, id)
}

// SavePrecinct handles POST /precincts/{id}/save
// The actor comes from X-Operator-Email, verified by X-Operator-Key.
func (h *PrecinctHandler) SavePrecinct(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ResolveIdentity(
		r.Header.Get(middleware.HeaderOperatorEmail),
		r.Header.Get(middleware.HeaderOperatorKey),
		h.cfg.OperatorKeySalt,
	)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	resp, err := h.sess.Save(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *PrecinctHandler) writeDetail(w http.ResponseWriter, status int, id string) {
	detail, err := h.sess.Detail(id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, status, detail)
}

// pathInt reads an integer path value, writing a 400 when it is not one.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}
