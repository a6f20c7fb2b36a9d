package auth

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var email string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему",
	Long: `Аутентификация на сервере.

Токен сохраняется локально и действует 15 минут с момента последнего использования.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())

		if email == "" {
			fmt.Fprint(out, "Email: ")
			line, err := in.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("ошибка чтения email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Fprint(out, "Пароль: ")
		password, err := ReadPassword(in)
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Fprintln(out)

		ctx, cancel := context.WithTimeout(cmd.Context(), app.Config().RequestTimeout)
		defer cancel()

		if err := app.Login(ctx, email, password); err != nil {
			return view.Explain(err)
		}

		view.Success(out, "Вход выполнен")
		return nil
	},
}

// ReadPassword читает пароль без эха, если stdin - терминал, иначе берет строку из in
func ReadPassword(in *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "email администратора")
}
