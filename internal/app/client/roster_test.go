package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"studentadmin/internal/domain/student"
)

// fakeAuthority - транспорт с хранилищем в памяти, считает обращения
type fakeAuthority struct {
	mu       sync.Mutex
	nextID   int
	students []student.Student
	calls    int
	failOn   map[string]error
	onList   func()

	active    int
	maxActive int
}

func newFakeAuthority(seed ...student.Student) *fakeAuthority {
	a := &fakeAuthority{nextID: 1, failOn: map[string]error{}}
	for _, s := range seed {
		a.students = append(a.students, s)
		if s.ID >= a.nextID {
			a.nextID = s.ID + 1
		}
	}
	return a
}

func (a *fakeAuthority) enter(op, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	a.active++
	if a.active > a.maxActive {
		a.maxActive = a.active
	}
	if token == "" {
		return fmt.Errorf("%w: %w", ErrUnauthorized, &RemoteError{StatusCode: 401})
	}
	return a.failOn[op]
}

func (a *fakeAuthority) leave() {
	time.Sleep(time.Millisecond)
	a.mu.Lock()
	a.active--
	a.mu.Unlock()
}

func (a *fakeAuthority) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *fakeAuthority) ListStudents(_ context.Context, token string) ([]student.Student, error) {
	defer a.leave()
	if err := a.enter("list", token); err != nil {
		return nil, err
	}
	if a.onList != nil {
		a.onList()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	out := student.Clone(a.students)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *fakeAuthority) ExportStudents(ctx context.Context, token string) ([]student.Student, error) {
	defer a.leave()
	if err := a.enter("export", token); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return student.Clone(a.students), nil
}

func (a *fakeAuthority) CreateStudent(_ context.Context, token string, d student.Draft) error {
	defer a.leave()
	if err := a.enter("create", token); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.students = append(a.students, student.Student{ID: a.nextID, Draft: d})
	a.nextID++
	return nil
}

func (a *fakeAuthority) UpdateStudent(_ context.Context, token string, id int, s student.Student) error {
	defer a.leave()
	if err := a.enter("update", token); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.students {
		if a.students[i].ID == id {
			s.ID = id
			a.students[i] = s
			return nil
		}
	}
	return &RemoteError{StatusCode: 404, Message: "student not found"}
}

func (a *fakeAuthority) DeleteStudent(_ context.Context, token string, id int) error {
	defer a.leave()
	if err := a.enter("delete", token); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.students {
		if a.students[i].ID == id {
			a.students = append(a.students[:i], a.students[i+1:]...)
			return nil
		}
	}
	return &RemoteError{StatusCode: 404, Message: "student not found"}
}

func draft(name string) student.Draft {
	return student.Draft{
		Name:             name,
		College:          "NIT Trichy",
		Status:           "Active",
		DSAScore:         50,
		WebDevScore:      60,
		FrameworkScore:   70,
		InterviewDate:    student.NewDate(2024, time.April, 2),
		InterviewCompany: "Globex",
		InterviewResult:  "Pending",
	}
}

func seeded() *fakeAuthority {
	return newFakeAuthority(
		student.Student{ID: 1, Draft: draft("Ann")},
		student.Student{ID: 2, Draft: draft("Bob")},
		student.Student{ID: 3, Draft: draft("Cid")},
	)
}

type rosterFixture struct {
	*sessionFixture
	auth  *fakeAuthority
	store *RosterStore
}

func newRosterFixture(t *testing.T, auth *fakeAuthority) *rosterFixture {
	t.Helper()

	sf := newSessionFixture(15 * time.Minute)
	require.NoError(t, sf.guard.Begin(context.Background(), "tok"))

	return &rosterFixture{
		sessionFixture: sf,
		auth:           auth,
		store:          NewRosterStore(auth, sf.guard, slog.Default()),
	}
}

func TestRosterStore_RefusesWithoutSession(t *testing.T) {
	ctx := context.Background()

	setups := []struct {
		name  string
		setup func(f *rosterFixture)
	}{
		{
			name:  "logged out",
			setup: func(f *rosterFixture) { require.NoError(t, f.guard.Expire(ctx)) },
		},
		{
			name:  "ttl elapsed",
			setup: func(f *rosterFixture) { f.clock.Advance(15 * time.Minute) },
		},
		{
			name:  "timer fired",
			setup: func(f *rosterFixture) { f.timers.Get(0).f() },
		},
	}

	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			f := newRosterFixture(t, seeded())
			s.setup(f)

			_, err := f.store.List(ctx)
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.ErrorIs(t, f.store.Create(ctx, draft("New")), ErrUnauthorized)
			assert.ErrorIs(t, f.store.Update(ctx, 1, student.Student{ID: 1}), ErrUnauthorized)
			assert.ErrorIs(t, f.store.Remove(ctx, 1), ErrUnauthorized)
			_, err = f.store.Export(ctx)
			assert.ErrorIs(t, err, ErrUnauthorized)

			assert.Zero(t, f.auth.Calls())
			assert.Empty(t, f.store.Snapshot())
		})
	}
}

func TestRosterStore_CreateThenList(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	before, err := f.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, before, 3)

	d := draft("Dee")
	require.NoError(t, f.store.Create(ctx, d))

	after := f.store.Snapshot()
	require.Len(t, after, 4)

	var fresh []student.Student
	known := map[int]bool{}
	for _, s := range before {
		known[s.ID] = true
	}
	for _, s := range after {
		if !known[s.ID] {
			fresh = append(fresh, s)
		}
	}
	require.Len(t, fresh, 1)
	assert.Equal(t, d, fresh[0].Draft)
	assert.NotZero(t, fresh[0].ID)
}

func TestRosterStore_UpdateThenList(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	before, err := f.store.List(ctx)
	require.NoError(t, err)

	patch := before[1]
	patch.Name = "Robert"
	patch.DSAScore = 99
	patch.InterviewDate = student.Date{}

	require.NoError(t, f.store.Update(ctx, patch.ID, patch))

	after := f.store.Snapshot()
	require.Len(t, after, len(before))
	for i := range after {
		if after[i].ID == patch.ID {
			assert.Equal(t, patch, after[i])
		} else {
			assert.Equal(t, before[i], after[i])
		}
	}
}

func TestRosterStore_RemoveThenList(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	before, err := f.store.List(ctx)
	require.NoError(t, err)

	require.NoError(t, f.store.Remove(ctx, 2))

	after := f.store.Snapshot()
	assert.Equal(t, []student.Student{before[0], before[2]}, after)
}

func TestRosterStore_FailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		failOp  string
		failErr error
		call    func(s *RosterStore) error
		wantIs  error
	}{
		{
			name:    "create rejected",
			failOp:  "create",
			failErr: &RemoteError{StatusCode: 422, Message: "validation failed"},
			call:    func(s *RosterStore) error { return s.Create(ctx, draft("X")) },
			wantIs:  ErrRemote,
		},
		{
			name:    "update transport failure",
			failOp:  "update",
			failErr: fmt.Errorf("%w: connection refused", ErrTransport),
			call:    func(s *RosterStore) error { return s.Update(ctx, 1, student.Student{ID: 1}) },
			wantIs:  ErrTransport,
		},
		{
			name:   "remove missing",
			call:   func(s *RosterStore) error { return s.Remove(ctx, 42) },
			wantIs: ErrRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRosterFixture(t, seeded())
			before, err := f.store.List(ctx)
			require.NoError(t, err)

			if tt.failOp != "" {
				f.auth.failOn[tt.failOp] = tt.failErr
			}

			err = tt.call(f.store)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, before, f.store.Snapshot())
			assert.True(t, f.guard.HasActiveSession())
		})
	}
}

func TestRosterStore_RefreshFailureAfterMutation(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	before, err := f.store.List(ctx)
	require.NoError(t, err)

	f.auth.failOn["list"] = &RemoteError{StatusCode: 500}

	err = f.store.Create(ctx, draft("Eve"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh after create")
	assert.ErrorIs(t, err, ErrRefresh)
	assert.ErrorIs(t, err, ErrRemote)

	assert.Equal(t, before, f.store.Snapshot())
	assert.Len(t, f.auth.students, 4)
}

func TestRosterStore_RemoteUnauthorizedEndsSession(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	expired := false
	f.guard.OnExpire(func() { expired = true })

	f.auth.failOn["list"] = fmt.Errorf("%w: %w", ErrUnauthorized, &RemoteError{StatusCode: 401})

	_, err := f.store.List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, expired)
	assert.Equal(t, SessionExpired, f.guard.State())

	callsBefore := f.auth.Calls()
	_, err = f.store.List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, callsBefore, f.auth.Calls())
}

func TestRosterStore_LateResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	_, err := f.store.List(ctx)
	require.NoError(t, err)
	before := f.store.Snapshot()

	// сессия истекает, пока запрос в полете
	f.auth.onList = func() { f.timers.Get(0).f() }
	require.NoError(t, f.auth.CreateStudent(ctx, "tok", draft("Late")))

	_, err = f.store.List(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, before, f.store.Snapshot())
}

func TestRosterStore_ExportKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	exported, err := f.store.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, exported, 3)
	assert.Empty(t, f.store.Snapshot())
}

func TestRosterStore_SnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, seeded())

	list, err := f.store.List(ctx)
	require.NoError(t, err)
	list[0].Name = "changed"

	snap := f.store.Snapshot()
	snap[1].Name = "changed too"

	fresh := f.store.Snapshot()
	assert.Equal(t, "Ann", fresh[0].Name)
	assert.Equal(t, "Bob", fresh[1].Name)
}

func TestRosterStore_MutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	f := newRosterFixture(t, newFakeAuthority())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, f.store.Create(ctx, draft(fmt.Sprintf("s%d", i))))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, f.auth.maxActive)
	assert.Len(t, f.store.Snapshot(), 8)
}
