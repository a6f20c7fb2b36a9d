package storage

import (
	"context"

	"studentadmin/internal/domain/student"
	"studentadmin/internal/domain/user"
)

// Storage - набор репозиториев сервера. Реализации: memory (без базы) и postgres.
type Storage interface {
	Students() student.Repository
	Users() user.Repository
	// Name - имя бэкенда для /health и логов
	Name() string
	Ping(ctx context.Context) error
	Close() error
}
