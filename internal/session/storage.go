package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotStored is returned by Storage.Get for a missing key.
var ErrNotStored = errors.New("session: key not stored")

// Storage persists serialized principals for one browser session.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisStorage namespaces keys under a browser session id.
type RedisStorage struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisStorage returns storage for the session id. Values expire after ttl.
func NewRedisStorage(client *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, sessionID: sessionID, ttl: ttl}
}

func (s *RedisStorage) key(k string) string {
	return "session:" + s.sessionID + ":" + k
}

// Get implements Storage.
func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotStored
	}
	return data, err
}

// Set implements Storage.
func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

// Delete implements Storage.
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.key(key)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// Get implements Storage.
func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotStored
	}
	return append([]byte(nil), v...), nil
}

// Set implements Storage.
func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Storage.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len reports how many keys are stored.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
