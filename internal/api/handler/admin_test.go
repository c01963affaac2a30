package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/kiranshivaraju/radassist/internal/api/middleware"
	"github.com/kiranshivaraju/radassist/internal/store"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// --- mock key store ---

type mockKeyStore struct {
	keys      []*models.APIKey
	createErr error
	revoked   []uuid.UUID
}

func (m *mockKeyStore) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.keys = append(m.keys, key)
	return nil
}

func (m *mockKeyStore) ListAPIKeys(_ context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range m.keys {
		if k.TenantID == tenantID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *mockKeyStore) RevokeAPIKey(_ context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	for _, k := range m.keys {
		if k.ID == id && k.TenantID == tenantID {
			m.revoked = append(m.revoked, id)
			return nil
		}
	}
	return store.ErrNotFound
}

// --- mock invocation lister ---

type mockLister struct {
	got   store.InvocationFilter
	rows  []*models.FlowInvocation
	total int
	err   error
}

func (m *mockLister) ListInvocations(_ context.Context, f store.InvocationFilter) ([]*models.FlowInvocation, int, error) {
	m.got = f
	return m.rows, m.total, m.err
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func adminServer(ks KeyStore, l InvocationLister) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.SetTenantID(r.Context(), testTenant)))
		})
	})
	r.Post("/admin/keys", NewCreateKeyHandler(ks))
	r.Get("/admin/keys", NewListKeysHandler(ks))
	r.Delete("/admin/keys/{keyID}", NewRevokeKeyHandler(ks))
	r.Get("/admin/invocations", NewListInvocationsHandler(l))
	return r
}

// --- keys ---

func TestCreateKey(t *testing.T) {
	ks := &mockKeyStore{}
	h := adminServer(ks, &mockLister{})

	w := do(t, h, http.MethodPost, "/admin/keys", map[string]any{"name": "radiology-viewer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := dataOf[map[string]any](t, w)
	raw, _ := body["key"].(string)
	require.True(t, strings.HasPrefix(raw, keyPrefix))
	_, hasHash := body["key_hash"]
	assert.False(t, hasHash, "hash must never be returned")

	require.Len(t, ks.keys, 1)
	stored := ks.keys[0]
	assert.Equal(t, testTenant, stored.TenantID)
	assert.Equal(t, raw[:mw.KeyPrefixLen], stored.KeyPrefix)
	assert.Equal(t, []string{"read", "write"}, stored.Scopes)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.KeyHash), []byte(raw)))
}

func TestCreateKey_Validation(t *testing.T) {
	h := adminServer(&mockKeyStore{}, &mockLister{})

	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"scopes": []string{"read"}}},
		{"unknown scope", map[string]any{"name": "k", "scopes": []string{"root"}}},
		{"invalid json", "{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/admin/keys", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateKey_StoreFailure(t *testing.T) {
	h := adminServer(&mockKeyStore{createErr: errors.New("db down")}, &mockLister{})

	w := do(t, h, http.MethodPost, "/admin/keys", map[string]any{"name": "k"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListKeys(t *testing.T) {
	ks := &mockKeyStore{keys: []*models.APIKey{
		{ID: uuid.New(), TenantID: testTenant, Name: "mine"},
		{ID: uuid.New(), TenantID: uuid.New(), Name: "theirs"},
	}}
	h := adminServer(ks, &mockLister{})

	w := do(t, h, http.MethodGet, "/admin/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	keys := dataOf[[]models.APIKey](t, w)
	require.Len(t, keys, 1)
	assert.Equal(t, "mine", keys[0].Name)
}

func TestListKeys_EmptyIsArray(t *testing.T) {
	h := adminServer(&mockKeyStore{}, &mockLister{})

	w := do(t, h, http.MethodGet, "/admin/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestRevokeKey(t *testing.T) {
	id := uuid.New()
	ks := &mockKeyStore{keys: []*models.APIKey{{ID: id, TenantID: testTenant}}}
	h := adminServer(ks, &mockLister{})

	w := do(t, h, http.MethodDelete, "/admin/keys/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{id}, ks.revoked)

	w = do(t, h, http.MethodDelete, "/admin/keys/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "KEY_NOT_FOUND", errCode(t, w))

	w = do(t, h, http.MethodDelete, "/admin/keys/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- invocations ---

func TestListInvocations(t *testing.T) {
	l := &mockLister{
		rows:  []*models.FlowInvocation{{ID: uuid.New(), TenantID: testTenant, Stage: "analyze_series", Outcome: "success"}},
		total: 41,
	}
	h := adminServer(&mockKeyStore{}, l)

	w := do(t, h, http.MethodGet, "/admin/invocations?stage=analyze_series&outcome=success&since=2026-01-02T03:04:05Z&page=2&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, testTenant, l.got.TenantID)
	assert.Equal(t, "analyze_series", l.got.Stage)
	assert.Equal(t, "success", l.got.Outcome)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), l.got.Since)
	assert.Equal(t, 2, l.got.Page)
	assert.Equal(t, maxPageLimit, l.got.Limit)

	var env struct {
		Data []models.FlowInvocation `json:"data"`
		Meta struct {
			Page    int  `json:"page"`
			Total   int  `json:"total"`
			HasNext bool `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, jsonDecode(w, &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, 41, env.Meta.Total)
	assert.False(t, env.Meta.HasNext)
}

func TestListInvocations_BadQuery(t *testing.T) {
	h := adminServer(&mockKeyStore{}, &mockLister{})

	for _, q := range []string{"since=yesterday", "page=0", "limit=abc"} {
		t.Run(q, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/admin/invocations?"+q, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListInvocations_StoreError(t *testing.T) {
	h := adminServer(&mockKeyStore{}, &mockLister{err: errors.New("db down")})

	w := do(t, h, http.MethodGet, "/admin/invocations", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- health ---

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler(pinger{}, pinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", dataOf[map[string]any](t, w)["status"])
}

func TestHealth_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler(pinger{}, pinger{err: errors.New("redis down")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DEGRADED", errCode(t, w))
}
