package sessions

import "context"

// Repo stores AuthSessions between the consent redirect and the callback.
type Repo interface {
	// Upsert creates or replaces a session
	Upsert(ctx context.Context, session *AuthSession) error

	// Take returns the session and removes it, so a state is redeemable once.
	// Returns errors.ErrSessionNotFound when no session exists.
	Take(ctx context.Context, sessionID string) (*AuthSession, error)

	// Delete removes a session by ID
	Delete(ctx context.Context, sessionID string) error
}
