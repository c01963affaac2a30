package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/radassist/internal/ai"
	"github.com/kiranshivaraju/radassist/internal/api/response"
	"github.com/kiranshivaraju/radassist/internal/explain"
	"github.com/kiranshivaraju/radassist/internal/flow"
	"github.com/kiranshivaraju/radassist/internal/pipeline"
	"github.com/kiranshivaraju/radassist/internal/session"
)

// writeResult renders a session operation outcome. A skipped operation means the
// session has no analysis yet, which is a conflict with the session's state.
func writeResult[T any](w http.ResponseWriter, res pipeline.Result[T]) {
	switch {
	case res.Skipped:
		response.Error(w, http.StatusConflict, "NO_ANALYSIS", res.Error, nil)
	case !res.Success:
		writeError(w, res.Err())
	default:
		response.JSON(w, res.Data)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		response.Error(w, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", nil)
	case errors.Is(err, explain.ErrGenerationInProgress):
		response.Error(w, http.StatusConflict, "GENERATION_IN_PROGRESS",
			"An explanation for this item is already being generated", nil)
	case errors.Is(err, session.ErrSuperseded), errors.Is(err, explain.ErrRetired):
		response.Error(w, http.StatusConflict, "SUPERSEDED",
			"A newer analysis replaced the one this request belonged to", nil)
	case errors.Is(err, flow.ErrInputValidation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ai.ErrQuotaExceeded):
		response.Error(w, http.StatusTooManyRequests, "AI_QUOTA_EXCEEDED",
			"The AI provider quota is exhausted", nil)
	case errors.Is(err, ai.ErrInferenceTimeout):
		response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
			"The AI provider took too long and the request was cancelled", nil)
	case errors.Is(err, flow.ErrPartialFailure):
		response.Error(w, http.StatusBadGateway, "ANALYSIS_INCOMPLETE",
			"Not every analysis stage succeeded; no partial result was kept", nil)
	case errors.Is(err, flow.ErrSchemaParse):
		response.Error(w, http.StatusBadGateway, "AI_INVALID_RESPONSE",
			"The AI provider returned output that did not match the expected format", nil)
	case errors.Is(err, flow.ErrPromptUnavailable):
		slog.Error("stage prompt unavailable", "error", err)
		response.Error(w, http.StatusInternalServerError, "PROMPT_UNAVAILABLE",
			"The server's prompt configuration is invalid", nil)
	case errors.Is(err, flow.ErrBackendInvocation), errors.Is(err, ai.ErrProviderUnavailable):
		response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
			"The AI provider is not available", nil)
	default:
		slog.Error("unhandled request error", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
