package ports

import (
	"context"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// Remote entity gateways, one per mirrored kind. ListAll pages through the
// complete remote collection; the second return value reports whether more
// pages remain. ListSince returns only records with updated_at >= since.
//
// The unit system exposes no client-visible watermark, so UnitGateway has no
// ListSince: the synchronizer falls back to a full refetch of that kind.

// UnitGateway lists franchise locations.
type UnitGateway interface {
	ListAll(ctx context.Context, pageSize, offset int) ([]domain.Unit, bool, error)
}

// FranchiseeGateway lists franchisees.
type FranchiseeGateway interface {
	ListAll(ctx context.Context, pageSize, offset int) ([]domain.Franchisee, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Franchisee, error)
}

// BillingGateway lists billing records and carries the single remote write
// this system performs: moving a record to another kanban column.
type BillingGateway interface {
	ListAll(ctx context.Context, pageSize, offset int) ([]domain.BillingRecord, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.BillingRecord, error)
	UpdateBoardStatus(ctx context.Context, id string, column domain.BoardColumn) (*domain.BillingRecord, error)
}

// StaffGateway lists internal console accounts.
type StaffGateway interface {
	ListAll(ctx context.Context, pageSize, offset int) ([]domain.InternalUser, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.InternalUser, error)
}

// CommunicationGateway lists outbound communication logs.
type CommunicationGateway interface {
	ListAll(ctx context.Context, pageSize, offset int) ([]domain.CommunicationLog, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.CommunicationLog, error)
}

// Gateways bundles the five remote gateways consumed by the synchronizer.
type Gateways struct {
	Units          UnitGateway
	Franchisees    FranchiseeGateway
	Billing        BillingGateway
	Staff          StaffGateway
	Communications CommunicationGateway
}
