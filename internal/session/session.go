// Package session persists quiz.State between requests, keyed by a random
// session ID carried in a cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/playperu/geoquiz/internal/quiz"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (quiz.State, error)
	Save(ctx context.Context, id string, st quiz.State) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a random 128-bit hex session ID.
func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RedisStore keeps each session as a JSON value with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(id string) string { return "geoquiz:session:" + id }

func (s *RedisStore) Load(ctx context.Context, id string) (quiz.State, error) {
	data, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.State{}, ErrNotFound
	}
	if err != nil {
		return quiz.State{}, fmt.Errorf("loading session: %w", err)
	}
	var st quiz.State
	if err := json.Unmarshal(data, &st); err != nil {
		return quiz.State{}, fmt.Errorf("decoding session: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, st quiz.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Check pings redis for the health endpoint.
func (s *RedisStore) Check(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// MaxMemorySessions bounds MemoryStore; the least recently used session
// is dropped once it is full.
const MaxMemorySessions = 100_000

// MemoryStore is an in-process Store for development and tests. Sessions
// are copied through JSON so callers never share slices with the store, and
// each Save restarts the record's TTL like RedisStore does.
type MemoryStore struct {
	sessions *expirable.LRU[string, []byte]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: expirable.NewLRU[string, []byte](MaxMemorySessions, nil, ttl)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (quiz.State, error) {
	data, ok := s.sessions.Get(id)
	if !ok {
		return quiz.State{}, ErrNotFound
	}
	var st quiz.State
	if err := json.Unmarshal(data, &st); err != nil {
		return quiz.State{}, fmt.Errorf("decoding session: %w", err)
	}
	return st, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, st quiz.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	s.sessions.Add(id, data)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.sessions.Remove(id)
	return nil
}

// Len reports how many sessions are held, expired ones included until the
// next sweep.
func (s *MemoryStore) Len() int {
	return s.sessions.Len()
}
