package shell

import (
	"bufio"

	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
)

var ShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Интерактивный режим",
	Long: `Интерактивная консоль: сессия, список и буфер редактирования живут
все время работы, по истечении 15 минут сессия завершается автоматически.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		exec := &executor{app: app, out: cmd.OutOrStdout(), scanner: scanner}

		// Обработчик вызывается и изнутри Commit, поэтому буфер здесь не трогаем
		app.Session().OnExpire(func() {
			printlnFn("\nСессия истекла, выполните login")
		})

		printlnFn(helpAnon)
		if exec.isLoggedIn() {
			printlnFn(helpActive)
		}

		runREPL(cmd.Context(), exec, exec.status, scanner)
		return nil
	},
}
