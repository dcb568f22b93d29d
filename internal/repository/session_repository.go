package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wanderpets/admin-api/internal/models"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionRepository stores admin sessions in Redis with a TTL. Without a
// Redis client it keeps sessions in process memory.
type SessionRepository struct {
	client *redis.Client
	logger *zap.Logger

	mu    sync.Mutex
	local map[string]models.Session
	nowFn func() time.Time
}

// NewSessionRepository constructs a session repository. client may be nil.
func NewSessionRepository(client *redis.Client, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{
		client: client,
		logger: logger,
		local:  map[string]models.Session{},
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save stores the session until its expiry.
func (r *SessionRepository) Save(ctx context.Context, session models.Session) error {
	ttl := session.ExpiresAt.Sub(r.nowFn())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	if r.client == nil {
		r.mu.Lock()
		r.local[session.ID] = session
		r.mu.Unlock()
		return nil
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", sessionKey(session.ID), err)
	}
	return nil
}

// Get loads an active session.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	if r.client == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		session, ok := r.local[id]
		if !ok {
			return nil, ErrSessionNotFound
		}
		if !session.ExpiresAt.After(r.nowFn()) {
			delete(r.local, id)
			return nil, ErrSessionNotFound
		}
		return &session, nil
	}

	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", sessionKey(id), err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &session, nil
}

// Delete revokes a session. Unknown ids are ignored.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if r.client == nil {
		r.mu.Lock()
		delete(r.local, id)
		r.mu.Unlock()
		return nil
	}
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", sessionKey(id), err)
	}
	return nil
}
