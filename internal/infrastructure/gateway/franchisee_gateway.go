package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const franchiseesPath = "/v1/franchisees"

// FranchiseeGateway lists franchisees.
type FranchiseeGateway struct {
	client *Client
}

func NewFranchiseeGateway(client *Client) *FranchiseeGateway {
	return &FranchiseeGateway{client: client}
}

type wireFranchisee struct {
	ID          string           `json:"id"`
	TaxID       string           `json:"tax_id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Role        string           `json:"role"`
	Active      bool             `json:"active"`
	MonthlyDraw *decimal.Decimal `json:"monthly_draw"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (w wireFranchisee) toDomain() domain.Franchisee {
	role := domain.FranchiseeRole(w.Role)
	if role == "" {
		role = domain.RolePartner
	}
	return domain.Franchisee{
		ID:          w.ID,
		TaxID:       strings.TrimSpace(w.TaxID),
		Name:        strings.TrimSpace(w.Name),
		Email:       strings.ToLower(strings.TrimSpace(w.Email)),
		Phone:       strings.TrimSpace(w.Phone),
		Role:        role,
		Active:      w.Active,
		MonthlyDraw: w.MonthlyDraw,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func mapFranchisees(wire []wireFranchisee) []domain.Franchisee {
	out := make([]domain.Franchisee, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out
}

func (g *FranchiseeGateway) ListAll(ctx context.Context, pageSize, offset int) ([]domain.Franchisee, bool, error) {
	var wire []wireFranchisee
	hasMore, err := g.client.listPage(ctx, franchiseesPath, pageSize, offset, &wire)
	if err != nil {
		return nil, false, err
	}
	return mapFranchisees(wire), hasMore, nil
}

func (g *FranchiseeGateway) ListSince(ctx context.Context, since time.Time) ([]domain.Franchisee, error) {
	var wire []wireFranchisee
	if err := g.client.listSince(ctx, franchiseesPath, since, &wire); err != nil {
		return nil, err
	}
	return mapFranchisees(wire), nil
}
