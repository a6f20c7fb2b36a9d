package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentadmin/internal/app/client/config"
	"studentadmin/internal/app/server/api"
	"studentadmin/internal/domain/session"
	"studentadmin/internal/domain/student"
	"studentadmin/internal/domain/user"
	"studentadmin/internal/infrastructure/storage/memory"
	"studentadmin/internal/utils/logger"
)

const (
	e2eEmail    = "admin@example.com"
	e2ePassword = "correct-horse"
)

type e2eFixture struct {
	app      *App
	cfg      *config.Config
	clock    *fakeClock
	timers   *fakeTimers
	requests *atomic.Int64
}

// newE2E поднимает настоящий сервер в памяти и клиент с управляемыми часами
func newE2E(t *testing.T) *e2eFixture {
	t.Helper()

	log := logger.Discard()
	store := memory.New()
	users := user.NewService(store.Users(), user.NewCredentialsValidator(), log)
	require.NoError(t, users.EnsureAdmin(context.Background(), e2eEmail, e2ePassword))

	handler := api.New(api.Deps{
		Storage:  store,
		Users:    users,
		Sessions: session.NewService("e2e-secret", "studentadmin", time.Hour, log),
		Registry: prometheus.NewRegistry(),
	}, log)

	requests := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Env:            config.EnvLocal,
		ServerAddress:  srv.URL,
		DataPath:       filepath.Join(t.TempDir(), "client.db"),
		SessionTTL:     15 * time.Minute,
		RequestTimeout: 5 * time.Second,
		ExportPath:     filepath.Join(t.TempDir(), student.ExportFileName),
	}

	f := &e2eFixture{
		cfg:      cfg,
		clock:    newFakeClock(),
		timers:   &fakeTimers{},
		requests: requests,
	}
	f.app = f.open(t)

	return f
}

func (f *e2eFixture) open(t *testing.T) *App {
	t.Helper()

	app, err := New(context.Background(), f.cfg, logger.Discard(),
		WithClock(f.clock.Now), WithTimerFunc(f.timers.New))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app
}

func TestE2E_RosterLifecycle(t *testing.T) {
	f := newE2E(t)
	ctx := context.Background()

	require.ErrorIs(t, f.app.Login(ctx, e2eEmail, "wrong-password"), ErrUnauthorized)
	require.NoError(t, f.app.Login(ctx, e2eEmail, e2ePassword))
	assert.True(t, f.app.Session().HasActiveSession())

	editor := f.app.Editor()

	editor.StartCreate()
	require.NoError(t, editor.Set(
		student.SetName("Ann Lee"),
		student.SetCollege("State, North"),
		student.SetDSAScore(8),
		student.SetInterviewDate(student.NewDate(2024, time.March, 5)),
	))
	require.NoError(t, editor.Commit(ctx))
	assert.Equal(t, ModeIdle, editor.Mode())

	editor.StartCreate()
	require.NoError(t, editor.Set(student.SetName("Bob")))
	require.NoError(t, editor.Commit(ctx))

	snap := f.app.Roster().Snapshot()
	require.Len(t, snap, 2)
	ann, bob := snap[0], snap[1]
	assert.Positive(t, ann.ID)
	assert.Equal(t, "Ann Lee", ann.Name)
	assert.Equal(t, "2024-03-05", ann.InterviewDate.String())

	found, err := f.app.Find(ctx, bob.ID)
	require.NoError(t, err)
	editor.StartEdit(found)
	require.NoError(t, editor.Set(student.SetStatus("placed"), student.SetWebDevScore(9)))
	require.NoError(t, editor.Commit(ctx))

	snap = f.app.Roster().Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, ann, snap[0], "остальные записи не меняются")
	assert.Equal(t, "placed", snap[1].Status)
	assert.Equal(t, 9, snap[1].WebDevScore)

	out, n, err := f.app.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(student.ExportHeader, ","), lines[0])
	assert.Equal(t, strconv.Itoa(ann.ID)+`,Ann Lee,"State, North",,8,0,0,3/5/2024,,`, lines[1])

	require.NoError(t, f.app.Roster().Remove(ctx, ann.ID))
	snap = f.app.Roster().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, bob.ID, snap[0].ID)

	err = f.app.Roster().Remove(ctx, ann.ID)
	assert.ErrorIs(t, err, ErrRemote)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	assert.Len(t, f.app.Roster().Snapshot(), 1)

	path, n, err := f.app.ExportToFile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, f.cfg.ExportPath, path)
	assert.Equal(t, 1, n)
}

func TestE2E_ExpiredSessionMakesNoCalls(t *testing.T) {
	f := newE2E(t)
	ctx := context.Background()

	require.NoError(t, f.app.Login(ctx, e2eEmail, e2ePassword))
	_, err := f.app.Roster().List(ctx)
	require.NoError(t, err)

	f.clock.Advance(15 * time.Minute)
	f.timers.Get(f.timers.Len() - 1).f()

	assert.False(t, f.app.Session().HasActiveSession())
	assert.Equal(t, SessionExpired, f.app.Session().State())

	before := f.requests.Load()
	_, err = f.app.Roster().List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	f.app.Editor().StartCreate()
	assert.ErrorIs(t, f.app.Editor().Commit(ctx), ErrUnauthorized)
	assert.Equal(t, ModeCreate, f.app.Editor().Mode(), "буфер сохраняется для повтора")

	assert.Equal(t, before, f.requests.Load())
}

func TestE2E_RemoteUnauthorizedEndsSession(t *testing.T) {
	f := newE2E(t)
	ctx := context.Background()

	require.NoError(t, f.app.Session().Begin(ctx, "forged-token"))

	_, err := f.app.Roster().List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, f.app.Session().HasActiveSession())
}

func TestE2E_ResumeRenewsSession(t *testing.T) {
	f := newE2E(t)
	ctx := context.Background()

	require.NoError(t, f.app.Login(ctx, e2eEmail, e2ePassword))
	require.NoError(t, f.app.Close())

	f.clock.Advance(10 * time.Minute)

	resumed := f.open(t)
	require.True(t, resumed.Session().HasActiveSession())

	deadline, ok := resumed.Session().Deadline()
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), deadline)

	_, err := resumed.Roster().List(ctx)
	assert.NoError(t, err)

	require.NoError(t, resumed.Logout(ctx))
	require.NoError(t, resumed.Close())

	again := f.open(t)
	assert.Equal(t, SessionAbsent, again.Session().State())
}
