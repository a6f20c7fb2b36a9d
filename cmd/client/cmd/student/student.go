package student

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studentadmin/internal/domain/student"
)

// StudentCmd - родительская команда для операций со списком студентов
var StudentCmd = &cobra.Command{
	Use:     "student",
	Aliases: []string{"students", "s"},
	Short:   "Управление списком студентов",
	Long: `Просмотр, добавление, редактирование и удаление студентов.

Поля задаются флагом --set поле=значение, например:
  studentadmin student create --set name="Ann Lee" --set dsa=8 --set interview_date=2024-03-05`,
}

// parseSets разбирает значения --set вида поле=значение
func parseSets(sets []string) ([]student.FieldUpdate, error) {
	updates := make([]student.FieldUpdate, 0, len(sets))
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, fmt.Errorf("ожидается поле=значение, получено %q", set)
		}

		u, err := student.ParseFieldUpdate(strings.TrimSpace(name), value)
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный id %q", arg)
	}
	return id, nil
}

func fieldsHelp() string {
	return "поля: " + strings.Join(student.Fields, ", ")
}
