package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"studentadmin/internal/app/server/config"
	"studentadmin/internal/domain/student"
	"studentadmin/internal/domain/user"
	"studentadmin/internal/infrastructure/migration"
)

type Storage struct {
	pool     *pgxpool.Pool
	students *StudentRepository
	users    *UserRepository
}

// New применяет миграции и открывает пул соединений
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(cfg, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DB.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{
		pool:     pool,
		students: NewStudentRepository(pool, log),
		users:    NewUserRepository(pool, log),
	}, nil
}

func (s *Storage) Students() student.Repository { return s.students }
func (s *Storage) Users() user.Repository       { return s.users }

func (s *Storage) Name() string { return "postgres" }

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}
