package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
)

// SessionTokens signs and verifies the cookie value that binds a browser to
// its stored AuthSession.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret []byte, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used for issuing and verifying tokens.
func (t *SessionTokens) WithClock(now func() time.Time) *SessionTokens {
	t.now = now
	return t
}

// TTL is the lifetime of a signed token.
func (t *SessionTokens) TTL() time.Duration {
	return t.ttl
}

// Sign returns an HS256 JWT naming the session and its flow.
func (t *SessionTokens) Sign(session *sessions.AuthSession) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   string(session.Flow),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// SessionID verifies raw and returns the session id it carries. Any invalid,
// expired or foreign-flow token yields errors.ErrNoSession.
func (t *SessionTokens) SessionID(raw string, flow sessions.Flow) (string, error) {
	if raw == "" {
		return "", errors.ErrNoSession
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", errors.Wrapf(errors.ErrNoSession, "invalid session token (%v)", err)
	}
	if claims.Subject != string(flow) || claims.ID == "" {
		return "", errors.ErrNoSession
	}
	return claims.ID, nil
}
