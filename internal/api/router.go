package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	AllowedOrigins  []string
	MaxRequestBytes int64

	HealthHandler  http.HandlerFunc
	MetricsHandler http.HandlerFunc

	GenerateTextHandler http.HandlerFunc

	CreateSessionHandler http.HandlerFunc
	GetSessionHandler    http.HandlerFunc
	DeleteSessionHandler http.HandlerFunc

	AnalyzeHandler          http.HandlerFunc
	CorrelateHandler        http.HandlerFunc
	ReportHandler           http.HandlerFunc
	ExplainHandler          http.HandlerFunc
	ListExplanationsHandler http.HandlerFunc
	AskHandler              http.HandlerFunc
	TranscriptHandler       http.HandlerFunc

	CreateKeyHandler       http.HandlerFunc
	ListKeysHandler        http.HandlerFunc
	RevokeKeyHandler       http.HandlerFunc
	ListInvocationsHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(mw.MaxBytes(deps.MaxRequestBytes))

	// Public
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Get("/api/v1/metrics", orNotImplemented(deps.MetricsHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/generate-text", orNotImplemented(deps.GenerateTextHandler))

		r.Post("/api/v1/sessions", orNotImplemented(deps.CreateSessionHandler))
		r.Route("/api/v1/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.GetSessionHandler))
			r.Delete("/", orNotImplemented(deps.DeleteSessionHandler))

			r.Post("/analyze", orNotImplemented(deps.AnalyzeHandler))
			r.Post("/correlate", orNotImplemented(deps.CorrelateHandler))
			r.Post("/report", orNotImplemented(deps.ReportHandler))

			r.Get("/explanations", orNotImplemented(deps.ListExplanationsHandler))
			r.Post("/explanations/{itemKey}", orNotImplemented(deps.ExplainHandler))

			r.Get("/conversation", orNotImplemented(deps.TranscriptHandler))
			r.Post("/conversation", orNotImplemented(deps.AskHandler))
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
			r.Get("/api/v1/admin/invocations", orNotImplemented(deps.ListInvocationsHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
