package ports

import (
	"context"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// SyncBatch is the result of a sync pass, grouped by entity kind. A full
// sync produces complete collections; an incremental sync produces only the
// records changed since the watermark.
type SyncBatch struct {
	Units          []domain.Unit
	Franchisees    []domain.Franchisee
	Billing        []domain.BillingRecord
	Staff          []domain.InternalUser
	Communications []domain.CommunicationLog
}

// TotalRecords returns the number of records across all kinds.
func (b *SyncBatch) TotalRecords() int {
	return len(b.Units) + len(b.Franchisees) + len(b.Billing) + len(b.Staff) + len(b.Communications)
}

// ProgressFunc receives stage/count progress while a sync pass runs.
type ProgressFunc func(domain.SyncProgress)

// Synchronizer orchestrates fetching from the remote gateways.
//
// FullSync is all-or-nothing: any kind-level gateway failure aborts the whole
// call and no partial batch is returned. IncrementalSync delta-fetches every
// kind that supports a watermark and fully refetches the rest.
type Synchronizer interface {
	FullSync(ctx context.Context, progress ProgressFunc) (*SyncBatch, error)
	IncrementalSync(ctx context.Context, since time.Time, progress ProgressFunc) (*SyncBatch, error)
}

// SyncController is the single entry point the UI layer talks to.
type SyncController interface {
	// Status returns the externally visible sync state.
	Status() domain.SyncStatus
	// RequestSync starts a full sync in the background. It reports whether a
	// sync was actually started: a request while one is loading is ignored,
	// and a non-forced request is a no-op once the mirror is warm.
	RequestSync(ctx context.Context, force bool) bool
	// Refresh runs an incremental sync from the stored watermark.
	Refresh(ctx context.Context) error
	// RequestClear empties the mirror and resets the sync state.
	RequestClear(ctx context.Context)
	// BeginSession records the authenticated session and auto-triggers the
	// first full sync once per session when the mirror is cold.
	BeginSession(ctx context.Context, s domain.Session)
	// EndSession drops the current session and clears the mirror.
	EndSession(ctx context.Context)
}
