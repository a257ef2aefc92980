package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gem-curator-be/pkg/curator"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "curator:session:"

// SessionRepository persists curation sessions as JSON documents in Redis so
// any replica can resume a suspended session.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ curator.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, st curator.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", st.SessionID, err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+st.SessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", st.SessionID, err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) (curator.State, error) {
	payload, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return curator.State{}, fmt.Errorf("%w: %s", curator.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return curator.State{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var st curator.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return curator.State{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return st, nil
}
