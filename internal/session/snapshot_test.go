package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

func testSnapshotStore(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	id := uuid.New()

	missing, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	snap := &Snapshot{
		Profile:      []byte(`{"firstName":"Ada"}`),
		Applications: []types.ApplicationRecord{record("acme")},
		CreatedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		SavedAt:      time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, id, snap))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.JSONEq(t, `{"firstName":"Ada"}`, string(loaded.Profile))
	assert.Equal(t, snap.Applications, loaded.Applications)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))

	require.NoError(t, store.Delete(ctx, id))
	gone, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMemorySnapshotStore(t *testing.T) {
	testSnapshotStore(t, NewMemorySnapshotStore())
}

func TestRedisSnapshotStore_Integration(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping Redis integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)
	store := NewRedisSnapshotStore(client, time.Minute)
	defer store.Close()

	testSnapshotStore(t, store)

	id := uuid.New()
	require.NoError(t, store.Save(ctx, id, &Snapshot{Profile: []byte(`{}`)}))
	ttl, err := client.TTL(ctx, snapshotKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
	require.NoError(t, store.Delete(ctx, id))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.ParseURL")
}
