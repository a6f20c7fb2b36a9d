package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// TokenKey - фиксированный ключ токена в локальном хранилище
const TokenKey = "token"

// SQLiteStorage - локальное хранилище клиента (key-value поверх SQLite)
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			observed_at INTEGER NOT NULL
		);
	`)

	return err
}

// Get возвращает значение и время последнего обновления ключа
func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, time.Time, error) {
	var (
		value      string
		observedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT value, observed_at FROM kv WHERE key = ?", key,
	).Scan(&value, &observedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrNoToken
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка чтения ключа %s: %w", key, err)
	}

	return value, time.Unix(0, observedAt), nil
}

func (s *SQLiteStorage) Put(ctx context.Context, key, value string, observedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, observed_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, observed_at = excluded.observed_at
	`, key, value, observedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("ошибка сохранения ключа %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("ошибка удаления ключа %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStorage) LoadToken(ctx context.Context) (string, time.Time, error) {
	return s.Get(ctx, TokenKey)
}

func (s *SQLiteStorage) SaveToken(ctx context.Context, token string, observedAt time.Time) error {
	return s.Put(ctx, TokenKey, token, observedAt)
}

func (s *SQLiteStorage) DeleteToken(ctx context.Context) error {
	return s.Delete(ctx, TokenKey)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
