package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/ports"
)

const defaultPageSize = 200

// SyncService fetches the five entity collections from their remote
// gateways. It never touches the mirror itself: the session controller
// commits the returned batch, so an aborted sync leaves no partial state
// behind.
type SyncService struct {
	gateways ports.Gateways
	pageSize int
	log      zerolog.Logger
}

// NewSyncService creates a SyncService. If pageSize <= 0, defaultPageSize
// is used.
func NewSyncService(gateways ports.Gateways, pageSize int, log zerolog.Logger) *SyncService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &SyncService{
		gateways: gateways,
		pageSize: pageSize,
		log:      log.With().Str("component", "synchronizer").Logger(),
	}
}

// fetchAll pages through a gateway's complete collection.
func fetchAll[T any](ctx context.Context, list func(context.Context, int, int) ([]T, bool, error), pageSize int) ([]T, error) {
	var out []T
	offset := 0
	for {
		page, hasMore, err := list(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if !hasMore || len(page) == 0 {
			return out, nil
		}
		offset += len(page)
	}
}

// FullSync fetches every entity kind's complete collection in the fixed
// AllKinds order, reporting progress after each kind completes. Any
// kind-level failure aborts the whole call: the batch is all-or-nothing.
func (s *SyncService) FullSync(ctx context.Context, progress ports.ProgressFunc) (*ports.SyncBatch, error) {
	started := time.Now()
	kinds := domain.AllKinds()
	batch := &ports.SyncBatch{}

	for i, kind := range kinds {
		var err error
		switch kind {
		case domain.KindUnit:
			batch.Units, err = fetchAll(ctx, s.gateways.Units.ListAll, s.pageSize)
		case domain.KindFranchisee:
			batch.Franchisees, err = fetchAll(ctx, s.gateways.Franchisees.ListAll, s.pageSize)
		case domain.KindBilling:
			batch.Billing, err = fetchAll(ctx, s.gateways.Billing.ListAll, s.pageSize)
		case domain.KindStaff:
			batch.Staff, err = fetchAll(ctx, s.gateways.Staff.ListAll, s.pageSize)
		case domain.KindCommunication:
			batch.Communications, err = fetchAll(ctx, s.gateways.Communications.ListAll, s.pageSize)
		}
		if err != nil {
			return nil, fmt.Errorf("full sync: %s: %w", kind, err)
		}
		if progress != nil {
			progress(domain.SyncProgress{Current: i + 1, Total: len(kinds), Stage: string(kind)})
		}
	}

	s.log.Info().
		Int("records", batch.TotalRecords()).
		Dur("elapsed", time.Since(started)).
		Msg("full sync fetched")
	return batch, nil
}

// IncrementalSync fetches only records updated at or after since. The unit
// system exposes no watermark, so units are fully refetched; the other four
// kinds use their delta endpoints.
func (s *SyncService) IncrementalSync(ctx context.Context, since time.Time, progress ports.ProgressFunc) (*ports.SyncBatch, error) {
	kinds := domain.AllKinds()
	batch := &ports.SyncBatch{}

	for i, kind := range kinds {
		var err error
		switch kind {
		case domain.KindUnit:
			// full-refetch fallback: no client-visible watermark
			batch.Units, err = fetchAll(ctx, s.gateways.Units.ListAll, s.pageSize)
		case domain.KindFranchisee:
			batch.Franchisees, err = s.gateways.Franchisees.ListSince(ctx, since)
		case domain.KindBilling:
			batch.Billing, err = s.gateways.Billing.ListSince(ctx, since)
		case domain.KindStaff:
			batch.Staff, err = s.gateways.Staff.ListSince(ctx, since)
		case domain.KindCommunication:
			batch.Communications, err = s.gateways.Communications.ListSince(ctx, since)
		}
		if err != nil {
			return nil, fmt.Errorf("incremental sync: %s: %w", kind, err)
		}
		if progress != nil {
			progress(domain.SyncProgress{Current: i + 1, Total: len(kinds), Stage: string(kind)})
		}
	}

	s.log.Debug().
		Time("since", since).
		Int("records", batch.TotalRecords()).
		Msg("incremental sync fetched")
	return batch, nil
}
