package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const unitsPath = "/v1/units"

// UnitGateway lists franchise locations from the unit system. That system
// exposes no updated_since filter, so this gateway only supports full
// listing.
type UnitGateway struct {
	client *Client
}

func NewUnitGateway(client *Client) *UnitGateway {
	return &UnitGateway{client: client}
}

type wireUnit struct {
	ID                    string    `json:"id"`
	Code                  string    `json:"code"`
	Name                  string    `json:"name"`
	Address               string    `json:"address"`
	City                  string    `json:"city"`
	State                 string    `json:"state"`
	ZipCode               string    `json:"zip_code"`
	Status                string    `json:"status"`
	MultiFranchisee       bool      `json:"multi_franchisee"`
	PrincipalFranchiseeID string    `json:"principal_franchisee_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (w wireUnit) toDomain() domain.Unit {
	code := strings.TrimSpace(w.Code)
	if code == "" {
		code = domain.NewUnitCode()
	} else if len(code) < 4 {
		code = strings.Repeat("0", 4-len(code)) + code
	}
	status := domain.UnitStatus(w.Status)
	if status == "" {
		status = domain.UnitActive
	}
	return domain.Unit{
		ID:                    w.ID,
		Code:                  code,
		Name:                  strings.TrimSpace(w.Name),
		Address:               strings.TrimSpace(w.Address),
		City:                  strings.TrimSpace(w.City),
		State:                 strings.TrimSpace(w.State),
		ZipCode:               strings.TrimSpace(w.ZipCode),
		Status:                status,
		MultiFranchisee:       w.MultiFranchisee,
		PrincipalFranchiseeID: w.PrincipalFranchiseeID,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}

func (g *UnitGateway) ListAll(ctx context.Context, pageSize, offset int) ([]domain.Unit, bool, error) {
	var wire []wireUnit
	hasMore, err := g.client.listPage(ctx, unitsPath, pageSize, offset, &wire)
	if err != nil {
		return nil, false, err
	}
	out := make([]domain.Unit, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out, hasMore, nil
}
