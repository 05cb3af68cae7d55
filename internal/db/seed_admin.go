package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkurali/userhub/internal/config"
	"github.com/mkurali/userhub/internal/domain/user"
	"github.com/mkurali/userhub/internal/security"
)

// EnsureAdminUser seeds the configured admin account on startup so a fresh
// deployment has at least one admin to log in with. No-op when the account
// already exists or the seed config is absent.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := user.NormalizeEmail(cfg.AdminEmail)

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := user.NewFromCreateRequest(user.CreateUserRequest{
		FirstName:  cfg.AdminFirstName,
		LastName:   cfg.AdminLastName,
		Email:      email,
		Department: cfg.AdminDepartment,
		Role:       user.RoleAdmin,
	}, hash)

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, first_name, middle_name, last_name, email, password_hash, department, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
		u.ID, u.FirstName, u.MiddleName, u.LastName, u.Email, u.PasswordHash, u.Department, u.Role, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
