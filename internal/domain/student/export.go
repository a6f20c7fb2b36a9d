package student

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

const (
	ExportFileName    = "student_details.csv"
	ExportContentType = "text/csv;charset=utf-8"

	// DefaultExportDateLayout - локальный формат даты для экспорта, не ISO
	DefaultExportDateLayout = "1/2/2006"
)

// ExportHeader - фиксированная строка заголовков
var ExportHeader = []string{
	"ID",
	"Name",
	"College",
	"Status",
	"DSA Score",
	"WebD Score",
	"React Score",
	"Interview Date",
	"Interview Company",
	"Interview Result",
}

// ExportOptions настраивает ExportCSV. Нулевое значение: формат даты по умолчанию и экранирование по RFC 4180.
type ExportOptions struct {
	DateLayout string
	// Legacy склеивает поля запятыми без экранирования, запятая внутри значения сдвигает колонки.
	Legacy bool
}

// ExportCSV формирует CSV: строка заголовков и по строке на запись,
// строки разделены "\n", в конце перевода строки нет.
func ExportCSV(records []Student, opts ExportOptions) string {
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultExportDateLayout
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, ExportHeader)
	for _, s := range records {
		rows = append(rows, exportRow(s, layout))
	}

	if opts.Legacy {
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, ",")
		}
		return strings.Join(lines, "\n")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// запись в bytes.Buffer не возвращает ошибок
	_ = w.WriteAll(rows)

	return strings.TrimSuffix(buf.String(), "\n")
}

func exportRow(s Student, layout string) []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Name,
		s.College,
		s.Status,
		strconv.Itoa(s.DSAScore),
		strconv.Itoa(s.WebDevScore),
		strconv.Itoa(s.FrameworkScore),
		s.InterviewDate.Format(layout),
		s.InterviewCompany,
		s.InterviewResult,
	}
}
