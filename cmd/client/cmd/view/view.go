// Package view печатает записи и сообщения CLI
package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"

	"studentadmin/internal/app/client"
	"studentadmin/internal/domain/student"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// Success печатает зеленую строку с галочкой
func Success(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠ "+format+"\n", args...)
}

// Explain добавляет к ошибке подсказку, что делать пользователю
func Explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrRefresh):
		return fmt.Errorf("изменение сохранено на сервере, но список не обновлен: %w\nПовторять не нужно, обновите список: studentadmin student list", err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w\nВыполните вход: studentadmin auth login", err)
	case client.IsTransport(err):
		return fmt.Errorf("%w\nПроверьте адрес сервера (--server или SERVER_ADDRESS)", err)
	default:
		return err
	}
}

func PrintStudents(w io.Writer, list []student.Student, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatCSV:
		_, err := fmt.Fprintln(w, student.ExportCSV(list, student.ExportOptions{}))
		return err
	case FormatTable, "":
		return printTable(w, list)
	default:
		return fmt.Errorf("неизвестный формат вывода %q (table, json, csv)", format)
	}
}

func printTable(w io.Writer, list []student.Student) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "Студенты не найдены")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tИмя\tКолледж\tСтатус\tDSA\tWebD\tReact\tИнтервью\tКомпания\tРезультат\t\n")
	fmt.Fprintf(tw, "---\t---\t---\t---\t---\t---\t---\t---\t---\t---\t\n")

	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t\n",
			s.ID,
			truncate(s.Name, 24),
			truncate(s.College, 24),
			s.Status,
			s.DSAScore,
			s.WebDevScore,
			s.FrameworkScore,
			dash(s.InterviewDate.String()),
			truncate(s.InterviewCompany, 20),
			truncate(s.InterviewResult, 20),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nВсего студентов: %d\n", len(list))
	return err
}

// PrintDraft печатает содержимое буфера редактирования по полям
func PrintDraft(w io.Writer, s student.Student, mode client.Mode) {
	id := "новая запись"
	if mode == client.ModeEdit {
		id = strconv.Itoa(s.ID)
	}

	fmt.Fprintf(w, "[%s] %s\n", mode, id)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldName, s.Name)
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldCollege, s.College)
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldStatus, s.Status)
	fmt.Fprintf(tw, "  %s\t%d\n", student.FieldDSAScore, s.DSAScore)
	fmt.Fprintf(tw, "  %s\t%d\n", student.FieldWebDevScore, s.WebDevScore)
	fmt.Fprintf(tw, "  %s\t%d\n", student.FieldFrameworkScore, s.FrameworkScore)
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldInterviewDate, dash(s.InterviewDate.String()))
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldInterviewCompany, s.InterviewCompany)
	fmt.Fprintf(tw, "  %s\t%s\n", student.FieldInterviewResult, s.InterviewResult)
	_ = tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	r := []rune(s)
	return string(r[:length-3]) + "..."
}
