package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// DefaultSessionTTL - время жизни сессии после входа или восстановления
const DefaultSessionTTL = 15 * time.Minute

type SessionState int

const (
	SessionAbsent SessionState = iota
	SessionActive
	SessionExpired
)

func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionExpired:
		return "expired"
	default:
		return "absent"
	}
}

// TokenStore - локальное долговременное хранилище токена.
// observedAt - момент, когда клиент последний раз видел токен активным.
type TokenStore interface {
	LoadToken(ctx context.Context) (token string, observedAt time.Time, err error)
	SaveToken(ctx context.Context, token string, observedAt time.Time) error
	DeleteToken(ctx context.Context) error
}

// Timer - остановимый таймер, *time.Timer ему соответствует
type Timer interface {
	Stop() bool
}

// TimerFunc запускает f через d
type TimerFunc func(d time.Duration, f func()) Timer

func realTimer(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SessionGuard владеет токеном и таймером его истечения.
// Переходы состояний: absent -> active -> expired, новый вход снова делает сессию active.
type SessionGuard struct {
	store    TokenStore
	ttl      time.Duration
	now      func() time.Time
	newTimer TimerFunc
	log      *slog.Logger

	mu       sync.Mutex
	state    SessionState
	token    string
	deadline time.Time
	timer    Timer
	gen      uint64
	onExpire []func()
}

type SessionOption func(*SessionGuard)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) SessionOption {
	return func(g *SessionGuard) {
		g.now = now
	}
}

// WithTimerFunc подменяет фабрику таймеров
func WithTimerFunc(f TimerFunc) SessionOption {
	return func(g *SessionGuard) {
		g.newTimer = f
	}
}

func NewSessionGuard(store TokenStore, ttl time.Duration, log *slog.Logger, opts ...SessionOption) *SessionGuard {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	g := &SessionGuard{
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		newTimer: realTimer,
		log:      log.With(slog.String("component", "session")),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// OnExpire регистрирует обработчик, который вызывается при завершении активной сессии
func (g *SessionGuard) OnExpire(f func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onExpire = append(g.onExpire, f)
}

func (g *SessionGuard) HasActiveSession() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeLocked()
}

func (g *SessionGuard) State() SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == SessionActive && !g.activeLocked() {
		return SessionExpired
	}
	return g.state
}

// Deadline возвращает момент истечения активной сессии
func (g *SessionGuard) Deadline() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.activeLocked() {
		return time.Time{}, false
	}
	return g.deadline, true
}

// Begin сохраняет токен и запускает таймер заново на полный срок
func (g *SessionGuard) Begin(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("пустой токен")
	}

	now := g.now()
	if g.store != nil {
		if err := g.store.SaveToken(ctx, token, now); err != nil {
			return fmt.Errorf("ошибка сохранения токена: %w", err)
		}
	}

	g.mu.Lock()
	g.startLocked(token, now)
	g.mu.Unlock()

	g.log.Debug("Сессия начата", slog.Time("deadline", now.Add(g.ttl)))
	return nil
}

// Resume восстанавливает сессию из хранилища. Если токен не видели дольше ttl, он удаляется.
// Иначе сессия получает новый полный срок, отсчет идет от момента восстановления.
func (g *SessionGuard) Resume(ctx context.Context) (bool, error) {
	if g.store == nil {
		return false, nil
	}

	token, observedAt, err := g.store.LoadToken(ctx)
	if errors.Is(err, ErrNoToken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка загрузки токена: %w", err)
	}

	now := g.now()
	if now.Sub(observedAt) > g.ttl {
		g.log.Info("Сохраненный токен истек", slog.Time("observed_at", observedAt))
		if err := g.store.DeleteToken(ctx); err != nil {
			return false, fmt.Errorf("ошибка удаления токена: %w", err)
		}
		g.mu.Lock()
		g.state = SessionExpired
		g.mu.Unlock()
		return false, nil
	}

	if err := g.store.SaveToken(ctx, token, now); err != nil {
		return false, fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	g.mu.Lock()
	g.startLocked(token, now)
	g.mu.Unlock()

	g.log.Debug("Сессия восстановлена", slog.Time("deadline", now.Add(g.ttl)))
	return true, nil
}

// Token возвращает токен активной сессии или ErrUnauthorized.
// Истекший срок, замеченный здесь раньше таймера, тоже завершает сессию.
func (g *SessionGuard) Token() (string, error) {
	g.mu.Lock()
	if g.activeLocked() {
		token := g.token
		g.mu.Unlock()
		return token, nil
	}
	lapsed := g.state == SessionActive
	gen := g.gen
	g.mu.Unlock()

	if lapsed {
		if err := g.expire(context.Background(), &gen); err != nil {
			g.log.Warn("Ошибка завершения сессии", slog.String("error", err.Error()))
		}
	}
	return "", ErrUnauthorized
}

// Expire очищает токен в памяти и в хранилище. Вызывается таймером, при выходе
// и при ответе 401 от сервера.
func (g *SessionGuard) Expire(ctx context.Context) error {
	return g.expire(ctx, nil)
}

// expire с gen != nil завершает только сессию этого поколения
func (g *SessionGuard) expire(ctx context.Context, gen *uint64) error {
	g.mu.Lock()
	if gen != nil && (*gen != g.gen || g.state != SessionActive) {
		g.mu.Unlock()
		return nil
	}
	wasActive := g.state == SessionActive
	g.stopTimerLocked()
	g.token = ""
	g.deadline = time.Time{}
	if wasActive {
		g.state = SessionExpired
	}
	callbacks := append([]func(){}, g.onExpire...)
	g.mu.Unlock()

	var err error
	if g.store != nil {
		if delErr := g.store.DeleteToken(ctx); delErr != nil {
			err = fmt.Errorf("ошибка удаления токена: %w", delErr)
		}
	}

	if wasActive {
		g.log.Info("Сессия завершена")
		for _, f := range callbacks {
			f()
		}
	}

	return err
}

// Close останавливает таймер, токен в хранилище остается
func (g *SessionGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimerLocked()
}

func (g *SessionGuard) activeLocked() bool {
	return g.state == SessionActive && g.token != "" && g.now().Before(g.deadline)
}

func (g *SessionGuard) startLocked(token string, now time.Time) {
	g.stopTimerLocked()

	g.token = token
	g.deadline = now.Add(g.ttl)
	g.state = SessionActive
	g.gen++

	gen := g.gen
	g.timer = g.newTimer(g.ttl, func() {
		g.fire(gen)
	})
}

// fire срабатывает по таймеру; таймер от предыдущей сессии игнорируется
func (g *SessionGuard) fire(gen uint64) {
	if err := g.expire(context.Background(), &gen); err != nil {
		g.log.Warn("Ошибка завершения сессии по таймеру", slog.String("error", err.Error()))
	}
}

func (g *SessionGuard) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
