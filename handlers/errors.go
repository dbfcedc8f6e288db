// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/session"
	"github.com/danielhkuo/quickly-tally/tally"
)

// writeError maps session errors to HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var saveErr *ledger.SaveError

	switch {
	case errors.Is(err, tally.ErrUnknownPrecinct):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrNoData):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case tally.IsValidation(err):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &saveErr):
		middleware.JSONResponse(w, http.StatusBadGateway, models.ErrorResponse{
			Error:   http.StatusText(http.StatusBadGateway),
			Message: "Ledger write failed; retry the save",
			Failed:  saveErr.Failed,
		})
	case errors.Is(err, session.ErrCandidateSource):
		slog.Error("candidate reload failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Candidate source unavailable")
	default:
		slog.Error("ledger request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Ledger unavailable")
	}
}
