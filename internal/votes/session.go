package votes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks which record ids a browser session has already voted
// for. Dedup is per session only: the same person voting from two sessions is
// a documented limitation, not something this layer prevents.
type SessionStore interface {
	HasVoted(ctx context.Context, sessionID string, recordID int) (bool, error)
	MarkVoted(ctx context.Context, sessionID string, recordID int) error
}

// sessionTTL bounds how long a voted-set survives. A day file only lives one
// logical day, so anything past 24h is stale.
const sessionTTL = 24 * time.Hour

// MemorySessions is the default in-process SessionStore.
type MemorySessions struct {
	mu       sync.Mutex
	voted    map[string]map[int]struct{}
	deadline map[string]time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		voted:    make(map[string]map[int]struct{}),
		deadline: make(map[string]time.Time),
	}
}

func (m *MemorySessions) expire(sessionID string) {
	if deadline, ok := m.deadline[sessionID]; ok && time.Now().After(deadline) {
		delete(m.voted, sessionID)
		delete(m.deadline, sessionID)
	}
}

func (m *MemorySessions) HasVoted(_ context.Context, sessionID string, recordID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire(sessionID)
	_, ok := m.voted[sessionID][recordID]
	return ok, nil
}

func (m *MemorySessions) MarkVoted(_ context.Context, sessionID string, recordID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire(sessionID)
	set, ok := m.voted[sessionID]
	if !ok {
		set = make(map[int]struct{})
		m.voted[sessionID] = set
		m.deadline[sessionID] = time.Now().Add(sessionTTL)
	}
	set[recordID] = struct{}{}
	return nil
}

// RedisSessions keeps voted-sets in Redis so dedup survives restarts and is
// shared across replicas.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func votedKey(sessionID string) string {
	return fmt.Sprintf("session:%s:voted", sessionID)
}

func (r *RedisSessions) HasVoted(ctx context.Context, sessionID string, recordID int) (bool, error) {
	return r.rdb.SIsMember(ctx, votedKey(sessionID), recordID).Result()
}

func (r *RedisSessions) MarkVoted(ctx context.Context, sessionID string, recordID int) error {
	key := votedKey(sessionID)
	if err := r.rdb.SAdd(ctx, key, recordID).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, key, sessionTTL).Err()
}
