package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers session tokens that were logged out before their
// cookie lifetime ended. A revoked token is treated like an invalid one.
type RevocationStore interface {
	// Revoke marks token as revoked for ttl
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	// IsRevoked reports whether token was revoked and the entry has not expired
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// tokenDigest keeps raw session tokens out of the store
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisRevocationStore implements RevocationStore using Redis
type RedisRevocationStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds the connection settings for the revocation store
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRevocationStore connects to Redis and verifies the connection
func NewRedisRevocationStore(cfg RedisConfig) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for session revocation: %w", err)
	}

	return NewRedisRevocationStoreWithClient(client), nil
}

// NewRedisRevocationStoreWithClient wraps an existing Redis client
func NewRedisRevocationStoreWithClient(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client:    client,
		keyPrefix: "session:revoked:",
	}
}

func (s *RedisRevocationStore) key(token string) string {
	return s.keyPrefix + tokenDigest(token)
}

// Revoke stores the token digest with the given TTL
func (s *RedisRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks for the token digest
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}

// Close closes the Redis client
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// InMemoryRevocationStore keeps revoked tokens in process memory.
// Entries are not shared between instances.
type InMemoryRevocationStore struct {
	mu        sync.Mutex
	revoked   map[string]time.Time
	now       func() time.Time
	nextPurge time.Time
}

// purgeInterval bounds how often Revoke sweeps expired entries
const purgeInterval = time.Minute

// NewInMemoryRevocationStore creates an empty in-memory store
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records the token until now+ttl
func (s *InMemoryRevocationStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.revoked[tokenDigest(token)] = now.Add(ttl)
	if !now.Before(s.nextPurge) {
		s.purgeLocked(now)
		s.nextPurge = now.Add(purgeInterval)
	}
	return nil
}

// IsRevoked reports whether the token is revoked and not yet expired
func (s *InMemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenDigest(token)
	expiresAt, ok := s.revoked[key]
	if !ok {
		return false, nil
	}
	if s.now().After(expiresAt) {
		delete(s.revoked, key)
		return false, nil
	}
	return true, nil
}

// purgeLocked drops expired entries. Caller holds mu.
func (s *InMemoryRevocationStore) purgeLocked(now time.Time) {
	for k, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, k)
		}
	}
}

// Len returns the number of entries held, expired ones included
func (s *InMemoryRevocationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}

var _ RevocationStore = (*InMemoryRevocationStore)(nil)
