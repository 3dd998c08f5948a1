package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressroom/internal/model"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// CreateAdmin inserts a new admin user.
func (r *AdminRepository) CreateAdmin(ctx context.Context, u *model.AdminUser) error {
	query := `
        INSERT INTO admin_users (username, password_hash, role, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id
    `
	return r.db.QueryRow(ctx, query, u.Username, u.PasswordHash, u.Role).Scan(&u.ID)
}

// FindByUsername returns an admin user by username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	query := `
        SELECT id, username, password_hash, role, created_at
        FROM admin_users
        WHERE username = $1
    `
	var u model.AdminUser
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
