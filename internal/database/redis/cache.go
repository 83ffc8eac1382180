package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brickandmorty/ticketbooker/internal/entity"

	"github.com/go-redis/redis/v8"
)

// SnapshotCache caches computed availability snapshots. It is a pure view
// cache: the conflict guard never reads from it. Invalidation works through
// a version counter that every booking write increments; snapshots stored
// under older versions are never read again and expire by TTL.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

const versionKey = "availability:version"

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *SnapshotCache) snapshotKey(ctx context.Context, asOf entity.Date, windowDays int) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("availability:v%d:%s:%d", version, asOf, windowDays), nil
}

func (c *SnapshotCache) GetSnapshot(ctx context.Context, asOf entity.Date, windowDays int) (*entity.AvailabilitySnapshot, error) {
	key, err := c.snapshotKey(ctx, asOf, windowDays)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot entity.AvailabilitySnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (c *SnapshotCache) SetSnapshot(ctx context.Context, snapshot *entity.AvailabilitySnapshot) error {
	key, err := c.snapshotKey(ctx, snapshot.AsOf, snapshot.WindowDays)
	if err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate bumps the version counter so that all cached snapshots become
// unreachable. Called after every booking create or delete.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}
