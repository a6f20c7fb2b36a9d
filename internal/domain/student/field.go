package student

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldUpdate изменяет ровно одно поле черновика. Набор вариантов закрыт.
type FieldUpdate interface {
	Apply(d *Draft)
	Field() string
}

type (
	SetName             string
	SetCollege          string
	SetStatus           string
	SetDSAScore         int
	SetWebDevScore      int
	SetFrameworkScore   int
	SetInterviewCompany string
	SetInterviewResult  string
	SetInterviewDate    Date
)

func (v SetName) Apply(d *Draft)             { d.Name = string(v) }
func (v SetCollege) Apply(d *Draft)          { d.College = string(v) }
func (v SetStatus) Apply(d *Draft)           { d.Status = string(v) }
func (v SetDSAScore) Apply(d *Draft)         { d.DSAScore = int(v) }
func (v SetWebDevScore) Apply(d *Draft)      { d.WebDevScore = int(v) }
func (v SetFrameworkScore) Apply(d *Draft)   { d.FrameworkScore = int(v) }
func (v SetInterviewCompany) Apply(d *Draft) { d.InterviewCompany = string(v) }
func (v SetInterviewResult) Apply(d *Draft)  { d.InterviewResult = string(v) }
func (v SetInterviewDate) Apply(d *Draft)    { d.InterviewDate = Date(v) }

func (SetName) Field() string             { return FieldName }
func (SetCollege) Field() string          { return FieldCollege }
func (SetStatus) Field() string           { return FieldStatus }
func (SetDSAScore) Field() string         { return FieldDSAScore }
func (SetWebDevScore) Field() string      { return FieldWebDevScore }
func (SetFrameworkScore) Field() string   { return FieldFrameworkScore }
func (SetInterviewCompany) Field() string { return FieldInterviewCompany }
func (SetInterviewResult) Field() string  { return FieldInterviewResult }
func (SetInterviewDate) Field() string    { return FieldInterviewDate }

// Имена редактируемых полей в JSON
const (
	FieldName             = "name"
	FieldCollege          = "student_college"
	FieldStatus           = "status"
	FieldDSAScore         = "dsa_score"
	FieldWebDevScore      = "webd_score"
	FieldFrameworkScore   = "react_score"
	FieldInterviewDate    = "interview_date"
	FieldInterviewCompany = "interview_company"
	FieldInterviewResult  = "interview_student_result"
)

// Fields - редактируемые поля в порядке колонок
var Fields = []string{
	FieldName,
	FieldCollege,
	FieldStatus,
	FieldDSAScore,
	FieldWebDevScore,
	FieldFrameworkScore,
	FieldInterviewDate,
	FieldInterviewCompany,
	FieldInterviewResult,
}

// ParseFieldUpdate строит изменение поля по его имени и текстовому значению.
// Баллы должны быть целыми числами, дата разбирается через ParseDate.
func ParseFieldUpdate(name, value string) (FieldUpdate, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FieldName:
		return SetName(value), nil
	case FieldCollege, "college":
		return SetCollege(value), nil
	case FieldStatus:
		return SetStatus(value), nil
	case FieldDSAScore, "dsa":
		n, err := parseScore(value)
		if err != nil {
			return nil, err
		}
		return SetDSAScore(n), nil
	case FieldWebDevScore, "webd":
		n, err := parseScore(value)
		if err != nil {
			return nil, err
		}
		return SetWebDevScore(n), nil
	case FieldFrameworkScore, "react":
		n, err := parseScore(value)
		if err != nil {
			return nil, err
		}
		return SetFrameworkScore(n), nil
	case FieldInterviewDate:
		d, err := ParseDate(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		return SetInterviewDate(d), nil
	case FieldInterviewCompany:
		return SetInterviewCompany(value), nil
	case FieldInterviewResult, "interview_result":
		return SetInterviewResult(value), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

func parseScore(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, value)
	}
	return n, nil
}
