package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *time.Time) {
	t.Helper()
	store := NewSessionStore(ttl)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func newTestPhysicalWizard(t *testing.T) *intake.PhysicalWizard {
	t.Helper()
	catalog, err := intake.DefaultCatalog()
	require.NoError(t, err)
	return intake.NewPhysicalWizard(&catalog.Physical)
}

func TestSessionStoreWithChecksOwnerAndKind(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Hour)
	session := store.CreatePhysical("phone-1", newTestPhysicalWizard(t))

	calls := 0
	err := store.With(session.ID, "phone-1", WizardPhysical, func(s *WizardSession) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	assert.ErrorIs(t, store.With(session.ID, "phone-2", WizardPhysical, func(*WizardSession) error { return nil }), ErrSessionNotFound)
	assert.ErrorIs(t, store.With(session.ID, "phone-1", WizardNutritional, func(*WizardSession) error { return nil }), ErrSessionNotFound)
	assert.ErrorIs(t, store.With("missing", "phone-1", WizardPhysical, func(*WizardSession) error { return nil }), ErrSessionNotFound)
	assert.True(t, store.Owns(session.ID, "phone-1"))
	assert.False(t, store.Owns(session.ID, "phone-2"))
}

func TestSessionStoreFinishRemovesSession(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Hour)
	session := store.CreatePhysical("phone-1", newTestPhysicalWizard(t))

	boom := errors.New("boom")
	err := store.With(session.ID, "phone-1", WizardPhysical, func(s *WizardSession) error {
		s.Finish()
		return boom
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.With(session.ID, "phone-1", WizardPhysical, func(*WizardSession) error { return nil }), ErrSessionNotFound)
}

func TestSessionStoreExpiry(t *testing.T) {
	store, now := newTestSessionStore(t, 30*time.Minute)
	stale := store.CreatePhysical("phone-1", newTestPhysicalWizard(t))
	*now = now.Add(20 * time.Minute)
	fresh := store.CreatePhysical("phone-2", newTestPhysicalWizard(t))

	*now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
	assert.False(t, store.Owns(stale.ID, "phone-1"))

	// Activity pushes the deadline out.
	require.NoError(t, store.With(fresh.ID, "phone-2", WizardPhysical, func(*WizardSession) error { return nil }))
	*now = now.Add(25 * time.Minute)
	assert.Equal(t, 0, store.Sweep())
	assert.True(t, store.Owns(fresh.ID, "phone-2"))
}

func TestSessionStoreRunStopsWithContext(t *testing.T) {
	store, now := newTestSessionStore(t, time.Minute)
	store.CreatePhysical("phone-1", newTestPhysicalWizard(t))
	*now = now.Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond, func(removed int) {
			select {
			case swept <- removed:
			default:
			}
		})
		close(done)
	}()

	select {
	case removed := <-swept:
		assert.Equal(t, 1, removed)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not sweep")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
