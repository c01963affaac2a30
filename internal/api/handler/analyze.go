package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/radassist/internal/api/response"
	"github.com/kiranshivaraju/radassist/internal/media"
)

type analyzeRequest struct {
	Items []media.ItemRef `json:"items"`
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/analyze.
// src may be nil, in which case only inline data URIs are accepted.
func NewAnalyzeHandler(sessions Sessions, src media.Source, maxItems int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(w, r, sessions)
		if !ok {
			return
		}

		var req analyzeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		// Checked here as well so an oversized batch never reaches the object store.
		if maxItems > 0 && len(req.Items) > maxItems {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("at most %d items may be analyzed at once, got %d", maxItems, len(req.Items)), nil)
			return
		}

		items, err := media.Resolve(r.Context(), src, req.Items)
		if err != nil {
			writeMediaError(w, err)
			return
		}

		// The body describes the run this request committed, even if a later
		// analyze has already replaced it.
		writeResult(w, s.Analyze(r.Context(), items))
	}
}

func writeMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrObjectNotFound):
		response.Error(w, http.StatusNotFound, "OBJECT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, media.ErrObjectTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "OBJECT_TOO_LARGE", err.Error(), nil)
	case errors.Is(err, media.ErrNoObjectStore),
		errors.Is(err, media.ErrInvalidDataURI),
		errors.Is(err, media.ErrUnsupportedMedia),
		errors.Is(err, media.ErrEmptyPayload):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		slog.Error("media resolution failed", "error", err)
		response.Error(w, http.StatusBadGateway, "OBJECT_STORE_UNAVAILABLE",
			"Uploaded media could not be read", nil)
	}
}
