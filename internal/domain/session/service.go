package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

var ErrInvalidToken = errors.New("invalid session")

type Servicer interface {
	Create(ctx context.Context, userID int) (string, error)
	Validate(ctx context.Context, token string) (int, error)
}

// Service выдает и проверяет подписанные HS256 токены. Состояние на сервере не хранится,
// срок жизни задается claim exp.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

func NewService(secret, issuer string, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

func (s *Service) Create(_ context.Context, userID int) (string, error) {
	now := s.now()

	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

func (s *Service) Validate(_ context.Context, token string) (int, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		s.log.Debug("token rejected", "error", err)
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
