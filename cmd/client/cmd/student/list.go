package student

import (
	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Список студентов",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		list, err := app.Roster().List(cmd.Context())
		if err != nil {
			return view.Explain(err)
		}

		return view.PrintStudents(cmd.OutOrStdout(), list, listFormat)
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", view.FormatTable, "формат вывода (table, json, csv)")
}
