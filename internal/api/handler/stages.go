package handler

import (
	"net/http"
)

// NewCorrelateHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/correlate.
func NewCorrelateHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		var req struct {
			Symptoms string `json:"symptoms"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		writeResult(w, s.Correlate(r.Context(), req.Symptoms))
	}
}

// NewReportHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/report.
func NewReportHandler(sessions Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}
		writeResult(w, s.Report(r.Context()))
	}
}
