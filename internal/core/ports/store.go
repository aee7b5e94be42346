package ports

import (
	"context"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// SnapshotStore is the durable storage behind the entity mirror. Load
// returns (nil, nil) when no snapshot has ever been saved.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

// WatermarkStore persists the instant of the last successful sync, used as
// the since-parameter of incremental syncs. Get returns ok=false when no
// watermark has been stored yet.
type WatermarkStore interface {
	Get(ctx context.Context) (time.Time, bool, error)
	Set(ctx context.Context, t time.Time) error
}
