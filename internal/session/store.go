package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no usable session exists for an id —
// missing, expired, or discarded as malformed.
var ErrNoSession = errors.New("session not found")

// Store persists sessions between requests.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// NewStore returns a Redis-backed store, or an in-process fallback
// when no Redis client is available so the gateway keeps working on a
// single instance.
func NewStore(rdb *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if rdb == nil {
		log.Printf("session: redis unavailable, using in-memory store")
		return &memoryStore{sessions: make(map[string]memoryEntry), ttl: ttl}
	}
	return &redisStore{rdb: rdb, ttl: ttl}
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func sessionKey(id string) string { return "session:" + id }

func (s *redisStore) Save(ctx context.Context, sess *Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), buf, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || !sess.Valid(time.Now()) {
		// Corrupt or stale payload: drop it so it never resurfaces.
		_ = s.rdb.Del(ctx, sessionKey(id)).Err()
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

type memoryEntry struct {
	sess      *Session
	expiresAt time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

func (m *memoryStore) Save(ctx context.Context, sess *Session) error {
	cp := *sess
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = memoryEntry{sess: &cp, expiresAt: time.Now().Add(m.ttl)}
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || time.Now().After(e.expiresAt) || !e.sess.Valid(time.Now()) {
		delete(m.sessions, id)
		return nil, ErrNoSession
	}
	cp := *e.sess
	return &cp, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
