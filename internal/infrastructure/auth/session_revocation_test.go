package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRevocationStore(t *testing.T) {
	store := NewInMemoryRevocationStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Hour))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_Expiry(t *testing.T) {
	store := NewInMemoryRevocationStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token", time.Minute))

	now = now.Add(2 * time.Minute)
	revoked, err := store.IsRevoked(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, store.revoked)
}

func TestInMemoryRevocationStore_PurgeInterval(t *testing.T) {
	store := NewInMemoryRevocationStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "short-1", time.Second))
	require.NoError(t, store.Revoke(ctx, "short-2", time.Second))

	// Expired entries linger until the next sweep is due
	now = now.Add(2 * time.Second)
	require.NoError(t, store.Revoke(ctx, "long", time.Hour))
	assert.Equal(t, 3, store.Len())

	now = now.Add(purgeInterval)
	require.NoError(t, store.Revoke(ctx, "later", time.Hour))
	assert.Equal(t, 2, store.Len())

	revoked, err := store.IsRevoked(ctx, "long")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisRevocationStore_KeyHidesToken(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	store := NewRedisRevocationStoreWithClient(client)
	key := store.key("MTpib2I6dXNlcjox")

	assert.Contains(t, key, "session:revoked:")
	assert.NotContains(t, key, "MTpib2I6dXNlcjox")
	assert.Len(t, key, len("session:revoked:")+64)
}
