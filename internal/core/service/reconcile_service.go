package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
)

// ReconcileService folds push events from the realtime channel into the
// mirror. Applying an event is idempotent: the id is the merge key and the
// pushed record always wins, even over newer local state (last write to the
// mirror wins, there is no timestamp arbitration).
type ReconcileService struct {
	mirror *mirror.Mirror
	log    zerolog.Logger
}

// NewReconcileService creates the listener.
func NewReconcileService(m *mirror.Mirror, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{
		mirror: m,
		log:    log.With().Str("component", "reconciler").Logger(),
	}
}

// Run consumes events until the channel closes or the context is cancelled.
// A malformed event is logged and skipped, never fatal to the loop.
func (s *ReconcileService) Run(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("reconciler stopping")
			return
		case ev, ok := <-events:
			if !ok {
				s.log.Info().Msg("realtime channel closed, reconciler stopping")
				return
			}
			if err := s.Apply(ctx, ev); err != nil {
				s.log.Warn().Err(err).Type("event", ev).Msg("push event dropped")
			}
		}
	}
}

// Apply merges a single push event into the mirror.
func (s *ReconcileService) Apply(ctx context.Context, ev domain.ChangeEvent) error {
	switch e := ev.(type) {
	case domain.BillingRowChange:
		return s.applyBillingRow(ctx, e)
	case domain.UnitBroadcast:
		return s.mirror.Upsert(ctx, normalizeUnit(e.Unit))
	case domain.FranchiseeBroadcast:
		return s.mirror.Upsert(ctx, normalizeFranchisee(e.Franchisee))
	default:
		return fmt.Errorf("unhandled change event %T", ev)
	}
}

func (s *ReconcileService) applyBillingRow(ctx context.Context, e domain.BillingRowChange) error {
	if e.Op == domain.OpDelete {
		id := e.RecordID
		if id == "" && e.Record != nil {
			id = e.Record.ID
		}
		if id == "" {
			return fmt.Errorf("billing delete without record id")
		}
		return s.mirror.Remove(ctx, domain.KindBilling, id)
	}
	if e.Record == nil {
		return fmt.Errorf("billing %s without record payload", e.Op)
	}
	return s.mirror.Upsert(ctx, *e.Record)
}

// normalizeUnit applies the same shaping the full sync mapper does, so a
// pushed unit and a synced unit look identical in the mirror.
func normalizeUnit(u domain.Unit) domain.Unit {
	u.Name = strings.TrimSpace(u.Name)
	u.City = strings.TrimSpace(u.City)
	u.State = strings.TrimSpace(u.State)
	if u.Code == "" {
		u.Code = domain.NewUnitCode()
	} else if len(u.Code) < 4 {
		u.Code = strings.Repeat("0", 4-len(u.Code)) + u.Code
	}
	if u.Status == "" {
		u.Status = domain.UnitActive
	}
	return u
}

func normalizeFranchisee(f domain.Franchisee) domain.Franchisee {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	if f.Role == "" {
		f.Role = domain.RolePartner
	}
	return f
}
