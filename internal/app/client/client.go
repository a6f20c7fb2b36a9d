package client

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"studentadmin/internal/app/client/config"
	"studentadmin/internal/domain/student"
)

// App связывает хранилище токена, HTTP клиент, сессию, список и буфер редактирования
type App struct {
	config     *config.Config
	log        *slog.Logger
	storage    *SQLiteStorage
	httpClient *httpClient
	session    *SessionGuard
	roster     *RosterStore
	editor     *EditBuffer
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...SessionOption) (*App, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
	}

	httpCl := NewHTTPClient(cfg, log)
	session := NewSessionGuard(storage, cfg.SessionTTL, log, opts...)
	roster := NewRosterStore(httpCl, session, log)

	app := &App{
		config:     cfg,
		log:        log,
		storage:    storage,
		httpClient: httpCl,
		session:    session,
		roster:     roster,
		editor:     NewEditBuffer(roster),
	}

	// Загружаем токен если он есть
	resumed, err := session.Resume(ctx)
	if err != nil {
		log.Warn("Не удалось восстановить сессию", slog.String("error", err.Error()))
	} else if resumed {
		log.Debug("Токен загружен из локального хранилища")
	}

	return app, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Session() *SessionGuard {
	return a.session
}

func (a *App) Roster() *RosterStore {
	return a.roster
}

func (a *App) Editor() *EditBuffer {
	return a.editor
}

// Login выполняет вход и начинает новую сессию с полным сроком жизни
func (a *App) Login(ctx context.Context, email, password string) error {
	token, err := a.httpClient.Login(ctx, email, password)
	if err != nil {
		a.log.Warn("Ошибка входа", slog.String("email", email), slog.String("error", err.Error()))
		return fmt.Errorf("ошибка аутентификации: %w", err)
	}

	if err := a.session.Begin(ctx, token); err != nil {
		return err
	}

	a.log.Info("Вход выполнен", slog.String("email", email))
	return nil
}

// Logout завершает сессию и сбрасывает незавершенное редактирование
func (a *App) Logout(ctx context.Context) error {
	a.editor.Cancel()
	return a.session.Expire(ctx)
}

// Find перечитывает список и возвращает запись с указанным id
func (a *App) Find(ctx context.Context, id int) (student.Student, error) {
	list, err := a.roster.List(ctx)
	if err != nil {
		return student.Student{}, err
	}

	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}

	return student.Student{}, fmt.Errorf("студент %d: %w", id, student.ErrNotFound)
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

// ExportCSV получает записи для выгрузки и формирует CSV. Возвращает текст и число записей.
func (a *App) ExportCSV(ctx context.Context) (string, int, error) {
	records, err := a.roster.Export(ctx)
	if err != nil {
		return "", 0, err
	}

	out := student.ExportCSV(records, student.ExportOptions{
		DateLayout: a.config.ExportDateLayout,
		Legacy:     a.config.ExportLegacy,
	})

	return out, len(records), nil
}

// ExportToFile пишет выгрузку в path; пустой path - файл из конфигурации
func (a *App) ExportToFile(ctx context.Context, path string) (string, int, error) {
	if path == "" {
		path = a.config.ExportPath
	}
	if path == "" {
		path = student.ExportFileName
	}

	out, n, err := a.ExportCSV(ctx)
	if err != nil {
		return "", 0, err
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", 0, fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	a.log.Info("Выгрузка сохранена", slog.String("path", path), slog.Int("records", n))
	return path, n, nil
}

// Close останавливает таймер сессии и закрывает локальное хранилище
func (a *App) Close() error {
	a.session.Close()
	return a.storage.Close()
}
