package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/api/response"
	"github.com/kiranshivaraju/radassist/internal/flow"
)

const promptRequired = "Prompt is required."

// TextGenerator runs the free-form text passthrough.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type generateTextResult struct {
	Result string `json:"result"`
}

type generateTextError struct {
	Error string `json:"error"`
}

// NewGenerateTextHandler returns an http.HandlerFunc for POST /api/v1/generate-text.
// Unlike the session endpoints it answers with a bare {result} or {error} object.
func NewGenerateTextHandler(gen TextGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Raw(w, http.StatusBadRequest, generateTextError{Error: "Invalid JSON body."})
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			response.Raw(w, http.StatusBadRequest, generateTextError{Error: promptRequired})
			return
		}

		ctx := r.Context()
		if tenantID, ok := mw.GetTenantID(r); ok {
			ctx = flow.WithTenant(ctx, tenantID)
		}

		text, err := gen.GenerateText(ctx, req.Prompt)
		if err != nil {
			if flow.KindOf(err) == flow.KindInputValidation {
				response.Raw(w, http.StatusBadRequest, generateTextError{Error: promptRequired})
				return
			}
			slog.Error("text generation failed", "error", err)
			response.Raw(w, http.StatusInternalServerError, generateTextError{Error: err.Error()})
			return
		}
		response.Raw(w, http.StatusOK, generateTextResult{Result: text})
	}
}
