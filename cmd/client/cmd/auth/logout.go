package auth

import (
	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и удалить сохраненный токен",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}

		view.Success(cmd.OutOrStdout(), "Сессия завершена")
		return nil
	},
}
