package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore remembers which notifications were already delivered.
// The backing store is chosen when the application is wired: memory for a
// single instance, redis when several instances share the same webhook traffic.
//
// Reserve claims a key atomically while a send is in flight; only one caller
// gets true until the key is released or expires. Set stores the final entry
// after a successful send.
type DedupStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Set(ctx context.Context, key string, ttl time.Duration) error
}

const dedupKeyPrefix = "notification:"

func PaymentDedupKey(txRef string) string {
	return dedupKeyPrefix + "payment:" + txRef
}

func BookingDedupKey(appointmentID string) string {
	return dedupKeyPrefix + "booking:" + appointmentID
}

type memoryDedupStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDedupStore() DedupStore {
	return &memoryDedupStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *memoryDedupStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}

func (s *memoryDedupStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpired(now)
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

func (s *memoryDedupStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *memoryDedupStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpired(now)
	s.entries[key] = now.Add(ttl)
	return nil
}

// purgeExpired must be called with mu held
func (s *memoryDedupStore) purgeExpired(now time.Time) {
	for k, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, k)
		}
	}
}

// redisDedupOpTimeout bounds a single dedup lookup so a slow Redis cannot hold a webhook open
const redisDedupOpTimeout = 2 * time.Second

type redisDedupStore struct {
	client *redis.Client
}

func NewRedisDedupStore(client *redis.Client) DedupStore {
	return &redisDedupStore{client: client}
}

func (s *redisDedupStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisDedupOpTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisDedupStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisDedupOpTimeout)
	defer cancel()

	return s.client.SetNX(ctx, key, "pending", ttl).Result()
}

func (s *redisDedupStore) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisDedupOpTimeout)
	defer cancel()

	return s.client.Del(ctx, key).Err()
}

func (s *redisDedupStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisDedupOpTimeout)
	defer cancel()

	return s.client.Set(ctx, key, "1", ttl).Err()
}
