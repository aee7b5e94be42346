package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService handles registration and login for console staff accounts.
type AuthService struct {
	repo      ports.StaffRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates an AuthService. A non-positive ttl falls back to
// defaultTokenTTL.
func NewAuthService(repo ports.StaffRepository, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: ttl}
}

// Register creates a staff account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password, email string, role domain.StaffRole, permissions []string) (*domain.InternalUser, error) {
	switch role {
	case domain.StaffAdmin, domain.StaffManager, domain.StaffAnalyst:
	default:
		return nil, fmt.Errorf("invalid staff role %q", role)
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.InternalUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  permissions,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, user)
}

// Login verifies the credentials and mints a signed token plus a fresh
// session. The session id ties the auto-triggered first sync to this login.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.InternalUser, domain.Session, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.Session{}, domain.ErrInvalidCredentials
		}
		return "", nil, domain.Session{}, fmt.Errorf("finding user: %w", err)
	}
	if !user.Active {
		return "", nil, domain.Session{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.Session{}, domain.ErrInvalidCredentials
	}

	session := domain.Session{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Kind:   domain.SessionStaff,
	}

	claims := jwt.MapClaims{
		"username":    user.Username,
		"user_id":     user.ID,
		"role":        string(user.Role),
		"permissions": user.Permissions,
		"session_id":  session.ID,
		"exp":         time.Now().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, domain.Session{}, fmt.Errorf("signing token: %w", err)
	}
	return token, user, session, nil
}
