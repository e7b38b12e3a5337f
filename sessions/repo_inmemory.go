package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu        sync.Mutex
	sessions  map[string]AuthSession
	retention time.Duration
	now       func() time.Time
}

// NewInMemoryRepo creates a repo that drops sessions older than retention.
func NewInMemoryRepo(retention time.Duration) *InMemoryRepo {
	return &InMemoryRepo{
		sessions:  make(map[string]AuthSession),
		retention: retention,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for retention cleanup.
func (r *InMemoryRepo) WithClock(now func() time.Time) *InMemoryRepo {
	r.now = now
	return r
}

func (r *InMemoryRepo) Upsert(_ context.Context, session *AuthSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteStaleLocked()
	r.sessions[session.ID] = *session
	return nil
}

func (r *InMemoryRepo) Take(_ context.Context, sessionID string) (*AuthSession, error) {
	if sessionID == "" {
		return nil, errors.ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteStaleLocked()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return &session, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions.
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// deleteStaleLocked lazily drops abandoned sessions. Caller holds r.mu.
func (r *InMemoryRepo) deleteStaleLocked() {
	if r.retention <= 0 {
		return
	}
	now := r.now()
	for id, s := range r.sessions {
		if s.Age(now) > r.retention {
			delete(r.sessions, id)
		}
	}
}
