package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists session snapshots between requests and restarts.
// Load returns nil, nil when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, id uuid.UUID, snap *Snapshot) error
	Load(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemorySnapshotStore keeps snapshots in process memory.
type MemorySnapshotStore struct {
	mu    sync.Mutex
	items map[uuid.UUID][]byte
}

// NewMemorySnapshotStore returns an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{items: make(map[uuid.UUID][]byte)}
}

// Save stores an encoded copy of snap.
func (s *MemorySnapshotStore) Save(_ context.Context, id uuid.UUID, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = b
	return nil
}

// Load returns the snapshot for id, or nil if there is none.
func (s *MemorySnapshotStore) Load(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	s.mu.Lock()
	b, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete forgets the snapshot for id.
func (s *MemorySnapshotStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// RedisSnapshotStore keeps snapshots in Redis under "session:<id>" with a TTL
// refreshed on every save.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// NewRedisSnapshotStore wraps a connected client. A non-positive ttl defaults to 24h.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(id uuid.UUID) string {
	return "session:" + id.String()
}

// Save writes snap and refreshes its TTL.
func (r *RedisSnapshotStore) Save(ctx context.Context, id uuid.UUID, snap *Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, snapshotKey(id), b, r.ttl).Err(); err != nil {
		log.Printf("[cache] redis set %s failed: %v", snapshotKey(id), err)
		return err
	}
	return nil
}

// Load returns the snapshot for id, or nil if it is missing or expired.
func (r *RedisSnapshotStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	b, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes the snapshot for id.
func (r *RedisSnapshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotKey(id)).Err(); err != nil {
		log.Printf("[cache] redis delete %s failed: %v", snapshotKey(id), err)
		return err
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisSnapshotStore) Close() error {
	return r.client.Close()
}
