package student

import (
	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var createSets []string

var CreateCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"add"},
	Short:   "Добавить студента",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		updates, err := parseSets(createSets)
		if err != nil {
			return err
		}

		editor := app.Editor()
		editor.StartCreate()
		if err := editor.Set(updates...); err != nil {
			return err
		}
		if err := editor.Commit(cmd.Context()); err != nil {
			return view.Explain(err)
		}

		view.Success(cmd.OutOrStdout(), "Студент добавлен, в списке %d записей", len(app.Roster().Snapshot()))
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringArrayVar(&createSets, "set", nil, "значение поля, поле=значение; "+fieldsHelp())
}
