package user

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	MaxEmailLen    = 254
	MinPasswordLen = 8
	// bcrypt не принимает пароли длиннее 72 байт
	MaxPasswordLen = 72
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(email, password string) error
	ValidateEmail(email string) error
	ValidatePassword(password string) error
}

type CredentialsValidator struct {
	minPasswordLen int
}

// NewCredentialsValidator создает новый валидатор
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{
		minPasswordLen: MinPasswordLen,
	}
}

// ValidateRegister валидирует данные для регистрации
func (v *CredentialsValidator) ValidateRegister(email, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return fmt.Errorf("email validation failed: %w", err)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}

	return nil
}

// ValidateEmail валидирует email
func (v *CredentialsValidator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("email %q is not a valid address", email)
	}

	return nil
}

// ValidatePassword валидирует пароль
func (v *CredentialsValidator) ValidatePassword(password string) error {
	if len(password) < v.minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", v.minPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordLen)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password must not be blank")
	}

	return nil
}
