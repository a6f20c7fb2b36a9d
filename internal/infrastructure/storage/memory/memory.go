package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"studentadmin/internal/domain/student"
	"studentadmin/internal/domain/user"
)

// Storage хранит данные в памяти процесса, используется без DATABASE_URI и в тестах
type Storage struct {
	students *StudentRepository
	users    *UserRepository
}

func New() *Storage {
	return &Storage{
		students: NewStudentRepository(),
		users:    NewUserRepository(),
	}
}

func (s *Storage) Students() student.Repository { return s.students }
func (s *Storage) Users() user.Repository       { return s.users }
func (s *Storage) Name() string                 { return "memory" }
func (s *Storage) Ping(context.Context) error   { return nil }
func (s *Storage) Close() error                 { return nil }

type StudentRepository struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]student.Student
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{
		nextID: 1,
		rows:   make(map[int]student.Student),
	}
}

func (r *StudentRepository) List(_ context.Context) ([]student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]student.Student, 0, len(r.rows))
	for _, s := range r.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *StudentRepository) Get(_ context.Context, id int) (student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.rows[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (r *StudentRepository) Create(_ context.Context, d student.Draft) (student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := student.Student{ID: r.nextID, Draft: d}
	r.rows[s.ID] = s
	r.nextID++

	return s, nil
}

func (r *StudentRepository) Update(_ context.Context, s student.Student) (student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[s.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	r.rows[s.ID] = s

	return s, nil
}

func (r *StudentRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return student.ErrNotFound
	}
	delete(r.rows, id)

	return nil
}

type UserRepository struct {
	mu      sync.RWMutex
	nextID  int
	byEmail map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID:  1,
		byEmail: make(map[string]user.User),
	}
}

func (r *UserRepository) Create(_ context.Context, email, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := r.byEmail[key]; ok {
		return 0, user.ErrExists
	}

	u := user.User{
		ID:        r.nextID,
		Email:     key,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	r.byEmail[key] = u
	r.nextID++

	return u.ID, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
