package sessions

import "time"

// Flow identifies which OAuth flow an AuthSession belongs to.
type Flow string

const (
	FlowSellingPartner Flow = "sp"
	FlowAds            Flow = "ads"
)

// AuthSession is the per-browser CSRF state for one in-flight consent redirect.
// It is created when the redirect is issued and consumed by the first callback.
type AuthSession struct {
	ID       string    `json:"id"`
	Flow     Flow      `json:"flow"`
	State    string    `json:"state,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

// Age returns how long ago the session was issued.
func (s *AuthSession) Age(now time.Time) time.Duration {
	return now.Sub(s.IssuedAt)
}

// Expired reports whether more than maxAge has elapsed since issuance.
func (s *AuthSession) Expired(now time.Time, maxAge time.Duration) bool {
	return s.Age(now) > maxAge
}
