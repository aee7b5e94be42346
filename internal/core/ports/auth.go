package ports

import (
	"context"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// StaffRepository persists console staff accounts used for login.
type StaffRepository interface {
	Create(ctx context.Context, u *domain.InternalUser) (*domain.InternalUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.InternalUser, error)
}

// AuthService implements registration and login for console staff. Login
// mints a fresh session alongside the signed token.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, role domain.StaffRole, permissions []string) (*domain.InternalUser, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.InternalUser, session domain.Session, err error)
}
