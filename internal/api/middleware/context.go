package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/google/uuid"
)

type principalKey struct{}

// Principal is the caller identified by the auth middleware.
type Principal struct {
	TenantID  uuid.UUID
	KeyID     uuid.UUID
	KeyPrefix string
	Scopes    []string
}

// HasScope reports whether the caller's key carries scope.
func (p Principal) HasScope(scope string) bool {
	return slices.Contains(p.Scopes, scope)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey{}).(Principal)
	return p, ok
}

// SetTenantID attaches a principal that carries only a tenant.
func SetTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return WithPrincipal(ctx, Principal{TenantID: id})
}

func GetTenantID(r *http.Request) (uuid.UUID, bool) {
	p, ok := PrincipalFrom(r)
	if !ok || p.TenantID == uuid.Nil {
		return uuid.Nil, false
	}
	return p.TenantID, true
}
