// Package handler implements the RadAssist HTTP endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/api/response"
	"github.com/kiranshivaraju/radassist/internal/session"
)

// Sessions is the session registry the handlers depend on.
type Sessions interface {
	Create(tenantID uuid.UUID) *session.Session
	Get(tenantID, id uuid.UUID) (*session.Session, error)
	Delete(tenantID, id uuid.UUID) error
}

// tenant writes a 401 and returns false when auth did not attach a tenant.
func tenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := mw.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
	}
	return id, ok
}

// lookupSession resolves the {sessionID} URL parameter for the caller's tenant.
func lookupSession(w http.ResponseWriter, r *http.Request, sessions Sessions) (*session.Session, bool) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "sessionID must be a valid UUID", nil)
		return nil, false
	}
	s, err := sessions.Get(tenantID, id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
			"Request body exceeds the configured limit", map[string]int64{"limit_bytes": maxErr.Limit})
		return false
	}
	response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
	return false
}
