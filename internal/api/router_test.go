package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/radassist/internal/api"
	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/cache"
	"github.com/kiranshivaraju/radassist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	readKey  = "ra_reader_0123456789abcdef"
	adminKey = "ra_admin__0123456789abcdef"
)

// --- stub key store: one read-only key and one admin key ---

type stubStore struct {
	keys []*models.APIKey
}

func newStubStore(t *testing.T) *stubStore {
	t.Helper()
	tenantID := uuid.New()
	mk := func(raw string, scopes ...string) *models.APIKey {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
		require.NoError(t, err)
		return &models.APIKey{ID: uuid.New(), TenantID: tenantID, KeyHash: string(h), KeyPrefix: raw[:mw.KeyPrefixLen], Scopes: scopes}
	}
	return &stubStore{keys: []*models.APIKey{mk(readKey, "read", "write"), mk(adminKey, "read", "admin")}}
}

func (s *stubStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range s.keys {
		if k.KeyPrefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}
func (s *stubStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }

// --- stub cache ---

type stubCache struct{}

func (c *stubCache) Ping(_ context.Context) error { return nil }
func (c *stubCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

// --- router tests ---

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
	return api.NewRouter(api.Dependencies{
		Auth:              mw.NewAuth(newStubStore(t)),
		RateLimit:         mw.NewRateLimit(&stubCache{}, 60),
		AllowedOrigins:    []string{"https://viewer.example.com"},
		HealthHandler:     ok,
		GetSessionHandler: ok,
		ListKeysHandler:   ok,
	})
}

func TestRouter_HealthEndpoint_Public(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MetricsUnwired_NotImplemented(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/metrics", nil))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRouter_ProtectedEndpoints_RequireAuth(t *testing.T) {
	router := newTestRouter(t)
	sid := uuid.NewString()

	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/generate-text"},
		{"POST", "/api/v1/sessions"},
		{"GET", "/api/v1/sessions/" + sid},
		{"DELETE", "/api/v1/sessions/" + sid},
		{"POST", "/api/v1/sessions/" + sid + "/analyze"},
		{"POST", "/api/v1/sessions/" + sid + "/correlate"},
		{"POST", "/api/v1/sessions/" + sid + "/report"},
		{"GET", "/api/v1/sessions/" + sid + "/explanations"},
		{"POST", "/api/v1/sessions/" + sid + "/explanations/abc"},
		{"GET", "/api/v1/sessions/" + sid + "/conversation"},
		{"POST", "/api/v1/sessions/" + sid + "/conversation"},
		{"POST", "/api/v1/admin/keys"},
		{"GET", "/api/v1/admin/keys"},
		{"GET", "/api/v1/admin/invocations"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "INVALID_TOKEN", errObj["code"])
		})
	}
}

func TestRouter_SessionRoute_Authenticated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/sessions/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+readKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
}

func TestRouter_UnwiredHandler_NotImplemented(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+readKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRouter_AdminRoutes_RequireAdminScope(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/admin/keys", nil)
	req.Header.Set("Authorization", "Bearer "+readKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/admin/keys", nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/sessions", nil)
	req.Header.Set("Origin", "https://viewer.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://viewer.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

var _ cache.Cache = (*stubCache)(nil)
var _ mw.KeyLookup = (*stubStore)(nil)
