package ports

import (
	"context"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// RealtimeSource delivers push change events from the two remote channels
// (billing row changes and entity broadcasts) as a single stream. The
// returned channel is closed when the source is closed or the subscription
// drops; re-subscription after a dropped connection is the transport's
// responsibility, not the consumer's.
type RealtimeSource interface {
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
	Close() error
}
