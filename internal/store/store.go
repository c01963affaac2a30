package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// Only metadata is persisted; prompts, media and model output never reach the database.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	RecordInvocation(ctx context.Context, inv *models.FlowInvocation) error
	ListInvocations(ctx context.Context, filter InvocationFilter) ([]*models.FlowInvocation, int, error)
}

// InvocationFilter selects audit rows for one tenant, newest first.
type InvocationFilter struct {
	TenantID uuid.UUID
	Stage    string
	Outcome  string
	Since    time.Time
	Page     int
	Limit    int
}
