package handler

import (
	"net/http"

	"github.com/kiranshivaraju/radassist/internal/api/response"
)

// NewAskHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/conversation.
func NewAskHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		var req struct {
			Question string `json:"question"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		writeResult(w, s.Ask(r.Context(), req.Question))
	}
}

// NewTranscriptHandler returns an http.HandlerFunc for GET /api/v1/sessions/{sessionID}/conversation.
func NewTranscriptHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		response.JSON(w, s.Transcript())
	}
}
