package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bharatparcel/config"
	"bharatparcel/models"
)

type PostgresUserRepo struct {
	postgresBase
}

func NewPostgresUserRepo(db *sql.DB, cfg *config.Config) *PostgresUserRepo {
	return &PostgresUserRepo{postgresBase: newPostgresBase(db, cfg)}
}

// CreateUser stores user; the password must already be hashed.
func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = newUUID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO app_user (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s", ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	user := &models.AppUser{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM app_user
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
