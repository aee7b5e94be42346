package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const billingPath = "/v1/billing"

// BillingGateway lists billing records and performs the single remote write
// this system makes: moving a record to another kanban column.
type BillingGateway struct {
	client *Client
}

func NewBillingGateway(client *Client) *BillingGateway {
	return &BillingGateway{client: client}
}

type wireBilling struct {
	ID            string          `json:"id"`
	UnitID        string          `json:"unit_id"`
	Amount        decimal.Decimal `json:"amount"`
	UpdatedAmount decimal.Decimal `json:"updated_amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	BoardStatus   string          `json:"board_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (w wireBilling) toDomain() domain.BillingRecord {
	return domain.BillingRecord{
		ID:            w.ID,
		UnitID:        w.UnitID,
		Amount:        w.Amount,
		UpdatedAmount: w.UpdatedAmount,
		DueDate:       w.DueDate,
		Status:        domain.BillingStatus(w.Status),
		Notes:         w.Notes,
		BoardStatus:   domain.BoardColumn(w.BoardStatus),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func mapBilling(wire []wireBilling) []domain.BillingRecord {
	out := make([]domain.BillingRecord, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out
}

func (g *BillingGateway) ListAll(ctx context.Context, pageSize, offset int) ([]domain.BillingRecord, bool, error) {
	var wire []wireBilling
	hasMore, err := g.client.listPage(ctx, billingPath, pageSize, offset, &wire)
	if err != nil {
		return nil, false, err
	}
	return mapBilling(wire), hasMore, nil
}

func (g *BillingGateway) ListSince(ctx context.Context, since time.Time) ([]domain.BillingRecord, error) {
	var wire []wireBilling
	if err := g.client.listSince(ctx, billingPath, since, &wire); err != nil {
		return nil, err
	}
	return mapBilling(wire), nil
}

// UpdateBoardStatus moves the record to the given kanban column and returns
// the confirmed record as the remote side now holds it.
func (g *BillingGateway) UpdateBoardStatus(ctx context.Context, id string, column domain.BoardColumn) (*domain.BillingRecord, error) {
	body := map[string]string{"board_status": string(column)}
	var wire wireBilling
	path := fmt.Sprintf("%s/%s/board", billingPath, id)
	if err := g.client.patch(ctx, path, body, &wire); err != nil {
		return nil, err
	}
	rec := wire.toDomain()
	return &rec, nil
}
