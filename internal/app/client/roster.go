package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/student"
)

// Session - то, что RosterStore нужно от сессии
type Session interface {
	Token() (string, error)
	HasActiveSession() bool
	Expire(ctx context.Context) error
}

// RosterStore синхронизирует список студентов с сервером.
// Любое изменение выполняется как "запрос, затем полное перечитывание списка",
// локальных патчей снимка нет.
type RosterStore struct {
	transport Transport
	session   Session
	log       *slog.Logger

	// mu сериализует цепочки запрос + перечитывание
	mu sync.Mutex

	snapMu   sync.RWMutex
	snapshot []student.Student
}

func NewRosterStore(transport Transport, session Session, log *slog.Logger) *RosterStore {
	return &RosterStore{
		transport: transport,
		session:   session,
		log:       log.With(slog.String("component", "roster")),
	}
}

// List перечитывает список с сервера и заменяет снимок целиком
func (r *RosterStore) List(ctx context.Context) ([]student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.refresh(ctx)
}

// Create отправляет черновик и перечитывает список, чтобы получить назначенный сервером id
func (r *RosterStore) Create(ctx context.Context, d student.Draft) error {
	return r.mutate(ctx, "create", func(token string) error {
		return r.transport.CreateStudent(ctx, token, d)
	})
}

// Update полностью заменяет запись id и перечитывает список
func (r *RosterStore) Update(ctx context.Context, id int, s student.Student) error {
	return r.mutate(ctx, "update", func(token string) error {
		return r.transport.UpdateStudent(ctx, token, id, s)
	})
}

func (r *RosterStore) Remove(ctx context.Context, id int) error {
	return r.mutate(ctx, "remove", func(token string) error {
		return r.transport.DeleteStudent(ctx, token, id)
	})
}

// Export получает записи для выгрузки; снимок не меняется
func (r *RosterStore) Export(ctx context.Context) ([]student.Student, error) {
	token, err := r.session.Token()
	if err != nil {
		return nil, err
	}

	list, err := r.transport.ExportStudents(ctx, token)
	if err != nil {
		return nil, r.fail(ctx, "export", err)
	}

	if !r.session.HasActiveSession() {
		return nil, ErrUnauthorized
	}

	return list, nil
}

// Snapshot возвращает копию последнего полученного списка
func (r *RosterStore) Snapshot() []student.Student {
	r.snapMu.RLock()
	defer r.snapMu.RUnlock()

	return student.Clone(r.snapshot)
}

func (r *RosterStore) mutate(ctx context.Context, op string, call func(token string) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, err := r.session.Token()
	if err != nil {
		return err
	}

	if err := call(token); err != nil {
		return r.fail(ctx, op, err)
	}

	if _, err := r.refresh(ctx); err != nil {
		return fmt.Errorf("%w after %s: %w", ErrRefresh, op, err)
	}

	return nil
}

func (r *RosterStore) refresh(ctx context.Context) ([]student.Student, error) {
	token, err := r.session.Token()
	if err != nil {
		return nil, err
	}

	list, err := r.transport.ListStudents(ctx, token)
	if err != nil {
		return nil, r.fail(ctx, "list", err)
	}

	// ответ, пришедший после истечения сессии, не должен попасть в снимок
	if !r.session.HasActiveSession() {
		r.log.Debug("Ответ получен после завершения сессии, отброшен")
		return nil, ErrUnauthorized
	}

	r.snapMu.Lock()
	r.snapshot = student.Clone(list)
	r.snapMu.Unlock()

	return student.Clone(list), nil
}

func (r *RosterStore) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, ErrUnauthorized) {
		r.log.Info("Сервер отклонил токен, сессия завершена", slog.String("op", op))
		if expErr := r.session.Expire(ctx); expErr != nil {
			r.log.Warn("Ошибка завершения сессии", slog.String("error", expErr.Error()))
		}
	} else {
		r.log.Warn("Операция не выполнена",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}

	return fmt.Errorf("%s: %w", op, err)
}
