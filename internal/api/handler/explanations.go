package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/radassist/internal/api/response"
)

// NewExplainHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/explanations/{itemKey}.
// Posting again for a Ready or Error key regenerates it.
func NewExplainHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		writeResult(w, s.Explain(r.Context(), chi.URLParam(r, "itemKey")))
	}
}

// NewListExplanationsHandler returns an http.HandlerFunc for GET /api/v1/sessions/{sessionID}/explanations.
func NewListExplanationsHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		response.JSON(w, s.Explanations())
	}
}
