package student

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) ([]Student, error)
	Create(ctx context.Context, d Draft) (Student, error)
	Update(ctx context.Context, id int, s Student) (Student, error)
	Delete(ctx context.Context, id int) error
}

// Service - бизнес-логика работы со студентами
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "student_service")),
	}
}

// List возвращает все записи, отсортированные по id
func (s *Service) List(ctx context.Context) ([]Student, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if list == nil {
		list = []Student{}
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, d Draft) (Student, error) {
	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return Student{}, fmt.Errorf("create student: %w", err)
	}

	s.log.Debug("student created", slog.Int("id", created.ID))
	return created, nil
}

// Update полностью заменяет запись. id из пути важнее id из тела запроса.
func (s *Service) Update(ctx context.Context, id int, st Student) (Student, error) {
	st.ID = id

	updated, err := s.repo.Update(ctx, st)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, err
		}
		return Student{}, fmt.Errorf("update student %d: %w", id, err)
	}

	s.log.Debug("student updated", slog.Int("id", id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete student %d: %w", id, err)
	}

	s.log.Debug("student deleted", slog.Int("id", id))
	return nil
}
