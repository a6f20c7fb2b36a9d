package shell

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"studentadmin/cmd/client/cmd/view"
)

// printlnFn - точка подмены вывода для тестов
var printlnFn = fmt.Println

// execIface - команды, которые умеет выполнять REPL
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, email string) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	New() error
	Edit(ctx context.Context, id string) error
	Set(field, value string) error
	Show() error
	Save(ctx context.Context) error
	Cancel() error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, path string) error
	Status(ctx context.Context) error
}

const (
	helpAnon   = "Команды: login [email], status, exit"
	helpActive = "Команды: (l)ist, new, edit <id>, set <поле> <значение>, show, save, cancel, delete <id>, export [файл], status, logout, exit"
)

// runREPL читает команды построчно и передает их в a. Выходит по EOF, exit или quit.
// Ошибки команд печатаются и не прерывают цикл.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("students [%s] >", statusFn()))
		if !scanner.Scan() {
			return
		}

		name, rest := splitCommand(scanner.Text())
		if name == "" {
			continue
		}

		var err error
		switch name {
		case "help", "?":
			if a.isLoggedIn() {
				printlnFn(helpActive)
			} else {
				printlnFn(helpAnon)
			}

		case "login":
			err = a.Login(ctx, rest)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "new":
			err = a.New()

		case "edit":
			err = a.Edit(ctx, rest)

		case "set":
			field, value, _ := strings.Cut(rest, " ")
			err = a.Set(field, value)

		case "show":
			err = a.Show()

		case "save":
			err = a.Save(ctx)

		case "cancel":
			err = a.Cancel()

		case "delete", "rm":
			err = a.Delete(ctx, rest)

		case "export":
			err = a.Export(ctx, rest)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Пока!")
			return

		default:
			printlnFn("Неизвестная команда:", name)
		}

		if err != nil {
			printlnFn("Ошибка:", view.Explain(err))
		}
	}
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}
