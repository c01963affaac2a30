package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/radassist/internal/api/response"
)

// NewCreateSessionHandler returns an http.HandlerFunc for POST /api/v1/sessions.
func NewCreateSessionHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		s := sessions.Create(tenantID)
		response.Created(w, s.State())
	}
}

// NewGetSessionHandler returns an http.HandlerFunc for GET /api/v1/sessions/{sessionID}.
func NewGetSessionHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		response.JSON(w, s.State())
	}
}

// NewDeleteSessionHandler returns an http.HandlerFunc for DELETE /api/v1/sessions/{sessionID}.
func NewDeleteSessionHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "sessionID must be a valid UUID", nil)
			return
		}
		if err := sessions.Delete(tenantID, id); err != nil {
			writeError(w, err)
			return
		}
		response.NoContent(w)
	}
}
