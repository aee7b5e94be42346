package gateway

import (
	"context"
	"time"

	"github.com/franqnet/console-sync/internal/core/domain"
)

const staffPath = "/v1/staff"

// StaffGateway lists internal console accounts from the central directory.
// Password hashes never travel over this API; mirrored accounts are for
// display and permission lookups only.
type StaffGateway struct {
	client *Client
}

func NewStaffGateway(client *Client) *StaffGateway {
	return &StaffGateway{client: client}
}

type wireStaff struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w wireStaff) toDomain() domain.InternalUser {
	return domain.InternalUser{
		ID:          w.ID,
		Username:    w.Username,
		Email:       w.Email,
		Role:        domain.StaffRole(w.Role),
		Permissions: w.Permissions,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func mapStaff(wire []wireStaff) []domain.InternalUser {
	out := make([]domain.InternalUser, len(wire))
	for i, w := range wire {
		out[i] = w.toDomain()
	}
	return out
}

func (g *StaffGateway) ListAll(ctx context.Context, pageSize, offset int) ([]domain.InternalUser, bool, error) {
	var wire []wireStaff
	hasMore, err := g.client.listPage(ctx, staffPath, pageSize, offset, &wire)
	if err != nil {
		return nil, false, err
	}
	return mapStaff(wire), hasMore, nil
}

func (g *StaffGateway) ListSince(ctx context.Context, since time.Time) ([]domain.InternalUser, error) {
	var wire []wireStaff
	if err := g.client.listSince(ctx, staffPath, since, &wire); err != nil {
		return nil, err
	}
	return mapStaff(wire), nil
}
