package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"golang.org/x/oauth2"
)

// SellingPartnerRedirect builds the Seller Central consent URL.
type SellingPartnerRedirect struct {
	AuthGrantURL      string
	AuthGrantEndpoint string
	AppID             string
	// Beta adds version=beta, required while the application is in draft.
	Beta bool
}

func (b SellingPartnerRedirect) URL(state string) (string, error) {
	u, err := consentURL(b.AuthGrantURL, b.AuthGrantEndpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("application_id", b.AppID)
	q.Set("state", state)
	if b.Beta {
		q.Set("version", "beta")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// AdsRedirect builds the Login with Amazon consent URL for the Advertising API.
type AdsRedirect struct {
	OAuthURL      string
	OAuthEndpoint string
	ClientID      string
	RedirectURI   string
	Scope         string
}

// URL returns the consent URL. An empty state is omitted from the query.
func (b AdsRedirect) URL(state string) (string, error) {
	u, err := consentURL(b.OAuthURL, b.OAuthEndpoint)
	if err != nil {
		return "", err
	}
	cfg := oauth2.Config{
		ClientID:    b.ClientID,
		RedirectURL: b.RedirectURI,
		Scopes:      []string{b.Scope},
		Endpoint:    oauth2.Endpoint{AuthURL: u.String()},
	}
	return cfg.AuthCodeURL(state), nil
}

// consentURL forces https and replaces the path of base.
func consentURL(base, path string) (*url.URL, error) {
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid consent url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid consent url %q: missing host", base)
	}
	u.Scheme = "https"
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	u.RawQuery = ""
	return u, nil
}

// SessionIssuer starts a flow by storing a fresh AuthSession.
type SessionIssuer struct {
	repo sessions.Repo
	now  func() time.Time
}

func NewSessionIssuer(repo sessions.Repo) *SessionIssuer {
	return &SessionIssuer{repo: repo, now: time.Now}
}

// WithClock replaces the clock stamped on issued sessions.
func (i *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	i.now = now
	return i
}

// Issue stores a new session for flow. withState generates a state token.
func (i *SessionIssuer) Issue(ctx context.Context, flow sessions.Flow, withState bool) (*sessions.AuthSession, error) {
	session := &sessions.AuthSession{
		ID:       uuid.New().String(),
		Flow:     flow,
		IssuedAt: i.now(),
	}
	if withState {
		state, err := NewState()
		if err != nil {
			return nil, err
		}
		session.State = state
	}
	if err := i.repo.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("[SessionIssuer Issue] store session: %w", err)
	}
	return session, nil
}
