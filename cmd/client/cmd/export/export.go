package export

import (
	"io"

	"github.com/spf13/cobra"

	"studentadmin/cmd/client/cmd/types"
	"studentadmin/cmd/client/cmd/view"
)

var (
	outPath  string
	toStdout bool
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить список студентов в CSV",
	Long: `Получает записи с сервера и сохраняет их в CSV файл (по умолчанию student_details.csv).

Даты выводятся в формате EXPORT_DATE_LAYOUT (по умолчанию 1/2/2006). Поля с запятыми,
кавычками и переводами строк экранируются; EXPORT_LEGACY=true включает старый формат без экранирования.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if toStdout {
			out, _, err := app.ExportCSV(cmd.Context())
			if err != nil {
				return view.Explain(err)
			}
			return writeCSV(cmd.OutOrStdout(), out)
		}

		path, n, err := app.ExportToFile(cmd.Context(), outPath)
		if err != nil {
			return view.Explain(err)
		}

		view.Success(cmd.OutOrStdout(), "Выгружено записей: %d -> %s", n, path)
		return nil
	},
}

// writeCSV выводит выгрузку как есть: файл и stdout должны совпадать байт в байт
func writeCSV(w io.Writer, out string) error {
	_, err := io.WriteString(w, out)
	return err
}

func init() {
	ExportCmd.Flags().StringVarP(&outPath, "out", "o", "", "путь к файлу выгрузки")
	ExportCmd.Flags().BoolVar(&toStdout, "stdout", false, "вывести CSV в stdout вместо файла")
}
