package flow

import (
	"context"

	"github.com/google/uuid"
)

type tenantKey struct{}

// WithTenant attaches the tenant an invocation is billed and audited against.
func WithTenant(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey{}, id)
}

func TenantFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantKey{}).(uuid.UUID)
	return id, ok
}
