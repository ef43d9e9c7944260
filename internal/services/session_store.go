package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
)

var ErrSessionNotFound = errors.New("wizard session not found")

type WizardKind string

const (
	WizardPhysical    WizardKind = "physical"
	WizardNutritional WizardKind = "nutritional"
)

// WizardSession owns one running wizard. Fields are only touched while
// holding the session lock, which SessionStore.With takes.
type WizardSession struct {
	ID          string
	PhoneID     string
	Kind        WizardKind
	Physical    *intake.PhysicalWizard
	Nutritional *intake.NutritionalWizard
	CreatedAt   time.Time

	mu       sync.Mutex
	lastSeen time.Time
	finished bool
}

// Finish marks the session as done; the store drops it once the current
// call returns and later calls see ErrSessionNotFound.
func (s *WizardSession) Finish() { s.finished = true }

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*WizardSession
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*WizardSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) CreatePhysical(phoneID string, wizard *intake.PhysicalWizard) *WizardSession {
	return s.create(&WizardSession{PhoneID: phoneID, Kind: WizardPhysical, Physical: wizard})
}

func (s *SessionStore) CreateNutritional(phoneID string, wizard *intake.NutritionalWizard) *WizardSession {
	return s.create(&WizardSession{PhoneID: phoneID, Kind: WizardNutritional, Nutritional: wizard})
}

func (s *SessionStore) create(session *WizardSession) *WizardSession {
	now := s.now()
	session.ID = uuid.NewString()
	session.CreatedAt = now
	session.lastSeen = now

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// With runs fn with exclusive access to the session. Sessions of another
// phone, of another kind, or past their TTL are reported as missing.
func (s *SessionStore) With(id, phoneID string, kind WizardKind, fn func(*WizardSession) error) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok && s.expired(session) {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok || session.PhoneID != phoneID || session.Kind != kind {
		return ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.finished {
		return ErrSessionNotFound
	}

	err := fn(session)

	s.mu.Lock()
	session.lastSeen = s.now()
	if session.finished {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return err
}

// Owns reports whether a live session with this id belongs to phoneID.
func (s *SessionStore) Owns(id, phoneID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return ok && !s.expired(session) && session.PhoneID == phoneID
}

// expired must be called with s.mu held.
func (s *SessionStore) expired(session *WizardSession) bool {
	return s.ttl > 0 && s.now().Sub(session.lastSeen) > s.ttl
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps on every tick until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 && onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
