package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const watermarkKey = "console:sync:watermark"

// WatermarkStore keeps the instant of the last successful sync in Redis, so
// incremental syncs resume from the right point after a restart.
type WatermarkStore struct {
	client *redis.Client
}

// NewWatermarkStore wraps the given Redis client.
func NewWatermarkStore(client *redis.Client) *WatermarkStore {
	return &WatermarkStore{client: client}
}

// Get returns the stored watermark, or ok=false when none has been set.
func (w *WatermarkStore) Get(ctx context.Context) (time.Time, bool, error) {
	raw, err := w.client.Get(ctx, watermarkKey).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("watermark get: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("watermark parse: %w", err)
	}
	return t, true, nil
}

// Set stores the watermark. No TTL: the watermark stays valid until the next
// sync replaces it or the cache is cleared.
func (w *WatermarkStore) Set(ctx context.Context, t time.Time) error {
	if err := w.client.Set(ctx, watermarkKey, t.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("watermark set: %w", err)
	}
	return nil
}
