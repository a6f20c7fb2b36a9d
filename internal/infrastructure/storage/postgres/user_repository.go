package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/user"
)

const uniqueViolation = "23505"

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With("component", "user_repository"),
	}
}

type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (int, error) {
	var userID int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, user.ErrExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	return userID, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrNotFound
	}
	if err != nil {
		r.log.Error("failed to find user", "error", err)
		return u, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}
