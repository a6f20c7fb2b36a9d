package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
	"studentadmin/internal/app/client"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние сессии и доступность сервера",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Сервер: %s\n", app.Config().ServerAddress)

		ctx, cancel := context.WithTimeout(cmd.Context(), app.Config().RequestTimeout)
		defer cancel()
		if err := app.CheckConnection(ctx); err != nil {
			view.Warn(out, "Сервер недоступен: %v", err)
		} else {
			view.Success(out, "Сервер доступен")
		}

		session := app.Session()
		switch session.State() {
		case client.SessionActive:
			deadline, _ := session.Deadline()
			fmt.Fprintf(out, "Сессия активна до %s (осталось %s)\n",
				deadline.Format("15:04:05"), time.Until(deadline).Round(time.Second))
		case client.SessionExpired:
			fmt.Fprintln(out, "Сессия истекла, выполните вход")
		default:
			fmt.Fprintln(out, "Вход не выполнен")
		}

		return nil
	},
}
