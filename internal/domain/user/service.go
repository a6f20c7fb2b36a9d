package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, email, password string) (int, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (int, error) {
	email = normalizeEmail(email)

	if err := s.validator.ValidateRegister(email, password); err != nil {
		s.log.Debug("validation failed", "email", email, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, email, string(hash))
}

// Authenticate не различает "нет пользователя" и "неверный пароль"
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)

	if err := s.validator.ValidateEmail(email); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("find user", "error", err)
		}
		return User{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return u, nil
}

// EnsureAdmin создает администратора, если его еще нет
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.log.Warn("admin credentials are not configured, login will be impossible")
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	id, err := s.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("admin user created", "id", id, "email", email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
