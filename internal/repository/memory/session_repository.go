package memory

import (
	"context"
	"fmt"
	"time"

	"gem-curator-be/pkg/curator"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps curation sessions in process memory. Entries expire
// after the configured TTL of inactivity.
type SessionRepository struct {
	cache *cache.Cache
}

var _ curator.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, st curator.State) error {
	r.cache.Set(st.SessionID, st, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Load(_ context.Context, sessionID string) (curator.State, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(curator.State), nil
	}
	return curator.State{}, fmt.Errorf("%w: %s", curator.ErrSessionNotFound, sessionID)
}
