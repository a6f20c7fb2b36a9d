package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studentadmin/internal/domain/student"
)

type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Create(ctx context.Context, d student.Draft) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockCommitter) Update(ctx context.Context, id int, s student.Student) error {
	args := m.Called(ctx, id, s)
	return args.Error(0)
}

func TestEditBuffer_IdleByDefault(t *testing.T) {
	b := NewEditBuffer(new(MockCommitter))

	assert.Equal(t, ModeIdle, b.Mode())
	_, ok := b.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, b.Set(student.SetName("x")), ErrNoActiveBuffer)
	assert.ErrorIs(t, b.Commit(context.Background()), ErrNoActiveBuffer)
}

func TestEditBuffer_StartCreateIsBlank(t *testing.T) {
	b := NewEditBuffer(new(MockCommitter))
	b.StartCreate()

	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, ModeCreate, b.Mode())
	assert.Equal(t, student.Student{}, cur)
	assert.Zero(t, cur.ID)
	assert.False(t, cur.InterviewDate.Valid)
}

func TestEditBuffer_CommitEdit(t *testing.T) {
	ctx := context.Background()
	store := new(MockCommitter)
	b := NewEditBuffer(store)

	orig := student.Student{ID: 5, Draft: draft("Ann")}
	b.StartEdit(orig)
	require.NoError(t, b.Set(
		student.SetName("Anna"),
		student.SetFrameworkScore(88),
		student.SetInterviewDate(student.NewDate(2024, time.May, 5)),
	))

	want := orig
	want.Name = "Anna"
	want.FrameworkScore = 88
	want.InterviewDate = student.NewDate(2024, time.May, 5)

	store.On("Update", ctx, 5, want).Return(nil).Once()

	require.NoError(t, b.Commit(ctx))
	assert.Equal(t, ModeIdle, b.Mode())
	store.AssertExpectations(t)
}

func TestEditBuffer_CommitCreate(t *testing.T) {
	ctx := context.Background()
	store := new(MockCommitter)
	b := NewEditBuffer(store)

	b.StartCreate()
	u, err := student.ParseFieldUpdate("name", "Zed")
	require.NoError(t, err)
	require.NoError(t, b.Set(u, student.SetDSAScore(10)))

	store.On("Create", ctx, student.Draft{Name: "Zed", DSAScore: 10}).Return(nil).Once()

	require.NoError(t, b.Commit(ctx))
	_, ok := b.Current()
	assert.False(t, ok)
	store.AssertExpectations(t)
}

func TestEditBuffer_FailedCommitKeepsBuffer(t *testing.T) {
	ctx := context.Background()
	store := new(MockCommitter)
	b := NewEditBuffer(store)

	b.StartCreate()
	require.NoError(t, b.Set(student.SetName("Retry")))

	boom := &RemoteError{StatusCode: 422, Message: "bad"}
	store.On("Create", ctx, student.Draft{Name: "Retry"}).Return(boom).Once()
	store.On("Create", ctx, student.Draft{Name: "Retry"}).Return(nil).Once()

	err := b.Commit(ctx)
	assert.True(t, errors.Is(err, ErrRemote))

	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, ModeCreate, b.Mode())
	assert.Equal(t, "Retry", cur.Name)

	require.NoError(t, b.Commit(ctx))
	assert.Equal(t, ModeIdle, b.Mode())
	store.AssertExpectations(t)
}

func TestEditBuffer_CancelLeavesRosterUntouched(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	before, err := f.store.List(ctx)
	require.NoError(t, err)
	calls := f.auth.Calls()

	b := NewEditBuffer(f.store)
	b.StartEdit(before[0])
	require.NoError(t, b.Set(student.SetName("nope"), student.SetStatus("Dropped"), student.SetWebDevScore(1)))

	b.Cancel()

	assert.Equal(t, ModeIdle, b.Mode())
	_, ok := b.Current()
	assert.False(t, ok)
	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, calls, f.auth.Calls())

	b.StartCreate()
	require.NoError(t, b.Set(student.SetName("draft")))
	b.Cancel()
	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, calls, f.auth.Calls())
}

func TestEditBuffer_EditWorksOnCopy(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	list, err := f.store.List(ctx)
	require.NoError(t, err)

	b := NewEditBuffer(f.store)
	b.StartEdit(list[0])
	require.NoError(t, b.Set(student.SetCollege("Elsewhere")))

	assert.Equal(t, "NIT Trichy", f.store.Snapshot()[0].College)

	require.NoError(t, b.Commit(ctx))
	assert.Equal(t, "Elsewhere", f.store.Snapshot()[0].College)
}

func countNamed(a *fakeAuthority, name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, s := range a.students {
		if s.Name == name {
			n++
		}
	}
	return n
}

func TestEditBuffer_RefreshFailureClearsBuffer(t *testing.T) {
	ctx := context.Background()

	t.Run("create is not sent twice", func(t *testing.T) {
		f := newRosterFixture(t, seeded())
		b := NewEditBuffer(f.store)

		f.auth.failOn["list"] = &RemoteError{StatusCode: 503}

		b.StartCreate()
		require.NoError(t, b.Set(student.SetName("Dee")))

		err := b.Commit(ctx)
		assert.ErrorIs(t, err, ErrRefresh)
		assert.ErrorIs(t, err, ErrRemote)
		assert.Equal(t, ModeIdle, b.Mode())

		delete(f.auth.failOn, "list")
		assert.ErrorIs(t, b.Commit(ctx), ErrNoActiveBuffer)

		assert.Equal(t, 1, countNamed(f.auth, "Dee"))
		list, err := f.store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 4)
	})

	t.Run("edit is cleared", func(t *testing.T) {
		f := newRosterFixture(t, seeded())
		b := NewEditBuffer(f.store)

		list, err := f.store.List(ctx)
		require.NoError(t, err)

		f.auth.failOn["list"] = &RemoteError{StatusCode: 500}

		b.StartEdit(list[1])
		require.NoError(t, b.Set(student.SetStatus("Placed")))

		assert.ErrorIs(t, b.Commit(ctx), ErrRefresh)
		assert.Equal(t, ModeIdle, b.Mode())
		assert.Equal(t, "Active", f.store.Snapshot()[1].Status, "снимок не меняется без успешного перечитывания")
	})

	t.Run("session lapses before refetch", func(t *testing.T) {
		f := newRosterFixture(t, seeded())
		b := NewEditBuffer(f.store)

		f.auth.onList = func() { f.timers.Get(0).f() }

		b.StartCreate()
		require.NoError(t, b.Set(student.SetName("Eve")))

		err := b.Commit(ctx)
		assert.ErrorIs(t, err, ErrRefresh)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, ModeIdle, b.Mode())
		assert.Equal(t, 1, countNamed(f.auth, "Eve"))
	})
}

// blockingCommitter держит Create, пока тест не отпустит release
type blockingCommitter struct {
	started chan struct{}
	release chan struct{}
	drafts  chan student.Draft
}

func newBlockingCommitter() *blockingCommitter {
	return &blockingCommitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		drafts:  make(chan student.Draft, 2),
	}
}

func (c *blockingCommitter) Create(_ context.Context, d student.Draft) error {
	c.drafts <- d
	c.started <- struct{}{}
	<-c.release
	return nil
}

func (c *blockingCommitter) Update(context.Context, int, student.Student) error {
	return nil
}

func TestEditBuffer_CommitDoesNotBlockReaders(t *testing.T) {
	store := newBlockingCommitter()
	b := NewEditBuffer(store)

	b.StartCreate()
	require.NoError(t, b.Set(student.SetName("First")))

	done := make(chan error, 1)
	go func() { done <- b.Commit(context.Background()) }()
	<-store.started

	// запрос в полете: чтение и перезапуск буфера не ждут сервер
	assert.Equal(t, ModeCreate, b.Mode())
	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "First", cur.Name)

	b.StartCreate()
	require.NoError(t, b.Set(student.SetName("Second")))

	close(store.release)
	require.NoError(t, <-done)

	assert.Equal(t, "First", (<-store.drafts).Name)
	cur, ok = b.Current()
	require.True(t, ok, "новый черновик, начатый во время запроса, сохраняется")
	assert.Equal(t, "Second", cur.Name)
}

func TestEditBuffer_CancelDuringCommit(t *testing.T) {
	store := newBlockingCommitter()
	b := NewEditBuffer(store)

	b.StartCreate()

	done := make(chan error, 1)
	go func() { done <- b.Commit(context.Background()) }()
	<-store.started

	b.Cancel()
	assert.Equal(t, ModeIdle, b.Mode())

	close(store.release)
	require.NoError(t, <-done)
	assert.Equal(t, ModeIdle, b.Mode())
}
