package client

import (
	"context"
	"errors"
	"sync"

	"studentadmin/internal/domain/student"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeEdit
	ModeCreate
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeCreate:
		return "create"
	default:
		return "idle"
	}
}

// Committer принимает изменения из EditBuffer
type Committer interface {
	Create(ctx context.Context, d student.Draft) error
	Update(ctx context.Context, id int, s student.Student) error
}

// EditBuffer - рабочая копия одной записи (редактирование) или пустой черновик (создание).
// В RosterStore попадает только через Commit.
type EditBuffer struct {
	store Committer

	// commitMu не дает отправить один буфер дважды; mu на время запроса не держится
	commitMu sync.Mutex

	mu      sync.Mutex
	mode    Mode
	current student.Student
	gen     uint64
}

func NewEditBuffer(store Committer) *EditBuffer {
	return &EditBuffer{store: store}
}

// StartEdit загружает копию записи, предыдущее содержимое буфера теряется
func (b *EditBuffer) StartEdit(s student.Student) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = ModeEdit
	b.current = s
	b.gen++
}

func (b *EditBuffer) StartCreate() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = ModeCreate
	b.current = student.Student{Draft: student.Blank()}
	b.gen++
}

// Set применяет изменения полей по порядку. Проверок между полями нет, это делает сервер.
func (b *EditBuffer) Set(updates ...student.FieldUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == ModeIdle {
		return ErrNoActiveBuffer
	}

	for _, u := range updates {
		u.Apply(&b.current.Draft)
	}

	return nil
}

// Commit отправляет буфер: в режиме редактирования через Update, в режиме создания через Create.
// При успехе буфер очищается, при ошибке остается как был, чтобы можно было повторить.
// Если сервер принял изменение и не удалось только перечитать список (ErrRefresh),
// буфер тоже очищается: повтор создал бы запись второй раз.
func (b *EditBuffer) Commit(ctx context.Context) error {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	b.mu.Lock()
	mode, current, gen := b.mode, b.current, b.gen
	b.mu.Unlock()

	var err error
	switch mode {
	case ModeEdit:
		err = b.store.Update(ctx, current.ID, current)
	case ModeCreate:
		err = b.store.Create(ctx, current.Draft)
	default:
		return ErrNoActiveBuffer
	}
	if err != nil && !errors.Is(err, ErrRefresh) {
		return err
	}

	b.mu.Lock()
	// пока шел запрос, буфер могли сбросить или начать заново
	if b.gen == gen {
		b.resetLocked()
	}
	b.mu.Unlock()

	return err
}

// Cancel сбрасывает буфер без обращения к серверу
func (b *EditBuffer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetLocked()
}

func (b *EditBuffer) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.mode
}

// Current возвращает копию буфера; false, если редактирования нет
func (b *EditBuffer) Current() (student.Student, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current, b.mode != ModeIdle
}

func (b *EditBuffer) resetLocked() {
	b.mode = ModeIdle
	b.current = student.Student{}
	b.gen++
}
