package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kiranshivaraju/radassist/internal/api/response"
	"github.com/kiranshivaraju/radassist/internal/store"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// InvocationLister reads the flow invocation audit trail.
type InvocationLister interface {
	ListInvocations(ctx context.Context, filter store.InvocationFilter) ([]*models.FlowInvocation, int, error)
}

// NewListInvocationsHandler returns an http.HandlerFunc for GET /api/v1/admin/invocations.
// Query parameters: stage, outcome, since (RFC3339), page, limit.
func NewListInvocationsHandler(l InvocationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		filter := store.InvocationFilter{
			TenantID: tenantID,
			Stage:    q.Get("stage"),
			Outcome:  q.Get("outcome"),
			Page:     1,
			Limit:    defaultPageLimit,
		}
		if v := q.Get("since"); v != "" {
			since, err := time.Parse(time.RFC3339, v)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = since
		}
		if v := q.Get("page"); v != "" {
			page, err := strconv.Atoi(v)
			if err != nil || page < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be a positive integer", nil)
				return
			}
			filter.Page = page
		}
		if v := q.Get("limit"); v != "" {
			limit, err := strconv.Atoi(v)
			if err != nil || limit < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", nil)
				return
			}
			filter.Limit = min(limit, maxPageLimit)
		}

		rows, total, err := l.ListInvocations(r.Context(), filter)
		if err != nil {
			slog.Error("list flow invocations", "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list invocations", nil)
			return
		}
		if rows == nil {
			rows = []*models.FlowInvocation{}
		}
		response.Collection(w, rows, response.NewPaginationMeta(filter.Page, filter.Limit, total))
	}
}
