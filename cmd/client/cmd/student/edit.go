package student

import (
	"errors"

	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var editSets []string

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Изменить поля студента",
	Long: `Загружает актуальную запись, применяет изменения --set и отправляет запись целиком.
Незатронутые поля остаются как на сервере.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		updates, err := parseSets(editSets)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return errors.New("нечего менять, укажите хотя бы один --set")
		}

		current, err := app.Find(cmd.Context(), id)
		if err != nil {
			return view.Explain(err)
		}

		editor := app.Editor()
		editor.StartEdit(current)
		if err := editor.Set(updates...); err != nil {
			return err
		}
		if err := editor.Commit(cmd.Context()); err != nil {
			return view.Explain(err)
		}

		view.Success(cmd.OutOrStdout(), "Студент %d обновлен", id)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringArrayVar(&editSets, "set", nil, "новое значение поля, поле=значение; "+fieldsHelp())
}
