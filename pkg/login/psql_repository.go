package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLoginRepository implements LoginRepository backed by PostgreSQL
type PostgresLoginRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLoginRepository creates a new PostgreSQL login repository
func NewPostgresLoginRepository(pool *pgxpool.Pool) *PostgresLoginRepository {
	return &PostgresLoginRepository{pool: pool}
}

// GetUserByUsername retrieves a user by username
func (r *PostgresLoginRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	const query = `
		SELECT id, username, password_hash, COALESCE(email, ''), COALESCE(secret, ''), created_at
		FROM users
		WHERE username = $1 AND deleted_at IS NULL`

	var user User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.Secret,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser creates a new user record
func (r *PostgresLoginRepository) CreateUser(ctx context.Context, user User) (User, error) {
	const query = `
		INSERT INTO users (username, password_hash, email, secret)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (username) DO NOTHING
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Secret,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateSecret sets the user's second-factor secret
func (r *PostgresLoginRepository) UpdateSecret(ctx context.Context, username, secret string) error {
	const query = `
		UPDATE users
		SET secret = NULLIF($2, '')
		WHERE username = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, username, secret)
	if err != nil {
		return fmt.Errorf("failed to update secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
