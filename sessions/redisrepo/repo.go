package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*Repo)(nil)

const keyPrefix = "amzauth:session:"

// Repo stores AuthSessions in Redis. Keys expire after the retention window.
type Repo struct {
	client    *redis.Client
	retention time.Duration
}

func New(client *redis.Client, retention time.Duration) *Repo {
	return &Repo{client: client, retention: retention}
}

// NewFromURL connects using a redis:// URL.
func NewFromURL(ctx context.Context, rawURL string, retention time.Duration) (*Repo, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("[redisrepo NewFromURL] parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[redisrepo NewFromURL] ping: %w", err)
	}
	return New(client, retention), nil
}

func (r *Repo) Upsert(ctx context.Context, session *sessions.AuthSession) error {
	if session == nil || session.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.ID, data, r.retention).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Repo) Take(ctx context.Context, sessionID string) (*sessions.AuthSession, error) {
	if sessionID == "" {
		return nil, errors.ErrSessionNotFound
	}
	data, err := r.client.GetDel(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take session: %w", err)
	}

	var session sessions.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *Repo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Repo) Close() error {
	return r.client.Close()
}
