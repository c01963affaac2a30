package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/radassist/internal/ai/mock"
	"github.com/kiranshivaraju/radassist/internal/session"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := session.NewRegistry(newPipeline(t, mock.NewMockBackend()), time.Minute, 0, nil)
	tenant := uuid.New()

	s := r.Create(tenant)
	assert.Equal(t, 1, r.Count())

	got, err := r.Get(tenant, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get(uuid.New(), s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound, "sessions are scoped to their tenant")

	assert.ErrorIs(t, r.Delete(uuid.New(), s.ID), session.ErrSessionNotFound)
	require.NoError(t, r.Delete(tenant, s.ID))
	_, err = r.Get(tenant, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRegistry_IdleExpiry(t *testing.T) {
	r := session.NewRegistry(newPipeline(t, mock.NewMockBackend()), 30*time.Millisecond, 0, nil)
	tenant := uuid.New()
	s := r.Create(tenant)

	time.Sleep(60 * time.Millisecond)
	_, err := r.Get(tenant, s.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRegistry_AccessExtendsTTL(t *testing.T) {
	r := session.NewRegistry(newPipeline(t, mock.NewMockBackend()), 80*time.Millisecond, 0, nil)
	tenant := uuid.New()
	s := r.Create(tenant)

	for i := 0; i < 4; i++ {
		time.Sleep(40 * time.Millisecond)
		_, err := r.Get(tenant, s.ID)
		require.NoError(t, err)
	}
}
