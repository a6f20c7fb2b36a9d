package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"studentadmin/cmd/client/cmd/view"
	"studentadmin/internal/app/client"
	"studentadmin/internal/domain/student"
)

var errUsage = errors.New("неверные аргументы, наберите help")

// executor выполняет команды REPL поверх client.App
type executor struct {
	app     *client.App
	out     io.Writer
	scanner *bufio.Scanner
}

func (e *executor) isLoggedIn() bool {
	return e.app.Session().HasActiveSession()
}

func (e *executor) Login(ctx context.Context, email string) error {
	if email == "" {
		fmt.Fprint(e.out, "Email: ")
		if !e.scanner.Scan() {
			return io.ErrUnexpectedEOF
		}
		email = strings.TrimSpace(e.scanner.Text())
	}

	fmt.Fprint(e.out, "Пароль: ")
	password, err := e.readPassword()
	if err != nil {
		return fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	fmt.Fprintln(e.out)

	ctx, cancel := context.WithTimeout(ctx, e.app.Config().RequestTimeout)
	defer cancel()

	if err := e.app.Login(ctx, email, password); err != nil {
		return err
	}

	view.Success(e.out, "Вход выполнен")
	return nil
}

func (e *executor) readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		return string(raw), err
	}
	if !e.scanner.Scan() {
		return "", io.ErrUnexpectedEOF
	}
	return e.scanner.Text(), nil
}

func (e *executor) Logout(ctx context.Context) error {
	if err := e.app.Logout(ctx); err != nil {
		return err
	}
	view.Success(e.out, "Сессия завершена")
	return nil
}

func (e *executor) List(ctx context.Context) error {
	list, err := e.app.Roster().List(ctx)
	if err != nil {
		return err
	}
	return view.PrintStudents(e.out, list, view.FormatTable)
}

func (e *executor) New() error {
	e.app.Editor().StartCreate()
	return e.Show()
}

func (e *executor) Edit(ctx context.Context, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return errUsage
	}

	current, err := e.app.Find(ctx, id)
	if err != nil {
		return err
	}

	e.app.Editor().StartEdit(current)
	return e.Show()
}

func (e *executor) Set(field, value string) error {
	if field == "" {
		return errUsage
	}

	u, err := student.ParseFieldUpdate(field, value)
	if err != nil {
		return err
	}
	return e.app.Editor().Set(u)
}

func (e *executor) Show() error {
	current, ok := e.app.Editor().Current()
	if !ok {
		return client.ErrNoActiveBuffer
	}
	view.PrintDraft(e.out, current, e.app.Editor().Mode())
	return nil
}

func (e *executor) Save(ctx context.Context) error {
	mode := e.app.Editor().Mode()
	if err := e.app.Editor().Commit(ctx); err != nil {
		return err
	}

	if mode == client.ModeCreate {
		view.Success(e.out, "Студент добавлен")
	} else {
		view.Success(e.out, "Изменения сохранены")
	}
	return nil
}

func (e *executor) Cancel() error {
	e.app.Editor().Cancel()
	printlnFn("Изменения отменены")
	return nil
}

func (e *executor) Delete(ctx context.Context, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return errUsage
	}

	if err := e.app.Roster().Remove(ctx, id); err != nil {
		return err
	}
	view.Success(e.out, "Студент %d удален", id)
	return nil
}

func (e *executor) Export(ctx context.Context, path string) error {
	path, n, err := e.app.ExportToFile(ctx, path)
	if err != nil {
		return err
	}
	view.Success(e.out, "Выгружено записей: %d -> %s", n, path)
	return nil
}

func (e *executor) Status(_ context.Context) error {
	printlnFn("Сервер:", e.app.Config().ServerAddress)
	printlnFn("Сессия:", e.status())
	return nil
}

// status - строка для приглашения: состояние сессии, остаток времени и режим буфера
func (e *executor) status() string {
	session := e.app.Session()
	state := session.State()
	if state != client.SessionActive {
		return state.String()
	}

	s := state.String()
	if deadline, ok := session.Deadline(); ok {
		s += " " + time.Until(deadline).Round(time.Minute).String()
	}
	if mode := e.app.Editor().Mode(); mode != client.ModeIdle {
		s += " | " + mode.String()
	}
	return s
}
