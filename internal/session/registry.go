package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/kiranshivaraju/radassist/internal/metrics"
	"github.com/kiranshivaraju/radassist/internal/pipeline"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry keeps sessions in memory for an idle TTL. Every successful Get
// restarts the session's TTL.
type Registry struct {
	sessions *gocache.Cache
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
}

// NewRegistry creates a Registry. A cleanupInterval of zero disables the
// background janitor; expired sessions are then only dropped on access.
func NewRegistry(p *pipeline.Pipeline, ttl, cleanupInterval time.Duration, m *metrics.Metrics) *Registry {
	r := &Registry{
		sessions: gocache.New(ttl, cleanupInterval),
		pipeline: p,
		metrics:  m,
	}
	r.sessions.OnEvicted(func(string, interface{}) {
		r.metrics.SetActiveSessions(r.sessions.ItemCount())
	})
	return r
}

// Create starts an empty session for tenantID.
func (r *Registry) Create(tenantID uuid.UUID) *Session {
	s := New(tenantID, r.pipeline, r.metrics)
	r.sessions.SetDefault(s.ID.String(), s)
	r.metrics.SetActiveSessions(r.sessions.ItemCount())
	return s
}

// Get returns the session if it exists and belongs to tenantID.
func (r *Registry) Get(tenantID, id uuid.UUID) (*Session, error) {
	v, ok := r.sessions.Get(id.String())
	if !ok {
		return nil, ErrSessionNotFound
	}
	s := v.(*Session)
	if s.TenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	r.sessions.SetDefault(id.String(), s)
	return s, nil
}

// Delete drops the session. Running operations finish but their results are unreachable.
func (r *Registry) Delete(tenantID, id uuid.UUID) error {
	if _, err := r.Get(tenantID, id); err != nil {
		return err
	}
	r.sessions.Delete(id.String())
	r.metrics.SetActiveSessions(r.sessions.ItemCount())
	return nil
}

// Count includes expired sessions the janitor has not yet removed.
func (r *Registry) Count() int { return r.sessions.ItemCount() }
