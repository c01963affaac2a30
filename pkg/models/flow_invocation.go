package models

import (
	"time"

	"github.com/google/uuid"
)

// FlowInvocation is audit metadata for one backend exchange. It never carries prompt or output content.
type FlowInvocation struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	TenantID   uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	Stage      string    `db:"stage"       json:"stage"`
	Provider   string    `db:"provider"    json:"provider"`
	Outcome    string    `db:"outcome"     json:"outcome"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
