package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pressroom/internal/model"
	"pressroom/internal/util"
)

// AdminStore is what auth needs from persistence.
// *repository.AdminRepository satisfies it.
type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	CreateAdmin(ctx context.Context, u *model.AdminUser) error
}

type AuthService struct {
	admins    AdminStore
	jwtSecret string
}

func NewAuthService(admins AdminStore, jwtSecret string) *AuthService {
	return &AuthService{
		admins:    admins,
		jwtSecret: jwtSecret,
	}
}

// Login checks admin credentials and returns a JWT with the role claim.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return util.GenerateJWT(u.ID, u.Role, s.jwtSecret)
}

// EnsureAdmin seeds an admin account from deploy-time credentials when no
// account with that username exists yet. Both arguments empty means no
// seeding.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.admins.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	return s.admins.CreateAdmin(ctx, &model.AdminUser{
		Username:     username,
		PasswordHash: hash,
		Role:         "admin",
	})
}
