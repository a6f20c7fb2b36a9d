package student

import (
	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var DeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Удалить студента",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := app.Roster().Remove(cmd.Context(), id); err != nil {
			return view.Explain(err)
		}

		view.Success(cmd.OutOrStdout(), "Студент %d удален", id)
		return nil
	},
}
