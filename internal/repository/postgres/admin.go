package postgres

import (
	"context"
	"strings"

	"github.com/jwalitptl/dental-api/internal/model"
)

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		strings.TrimSpace(admin.Username), admin.PasswordHash, admin.Name,
	).Scan(&admin.ID, &admin.CreatedAt)
	return mapError(err, "admin", "failed to create admin")
}

func (r *adminRepository) Get(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	query := `SELECT id, username, password_hash, name, created_at FROM admins WHERE id = $1`
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, mapError(err, "admin", "failed to get admin")
	}
	return &admin, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	query := `SELECT id, username, password_hash, name, created_at FROM admins WHERE username = $1`
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, mapError(err, "admin", "failed to get admin")
	}
	return &admin, nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admins SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return mapError(err, "admin", "failed to update password")
	}
	return expectAffected(res, "admin")
}
