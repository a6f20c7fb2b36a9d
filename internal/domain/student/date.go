package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// DateLayout - формат даты в JSON
const DateLayout = "2006-01-02"

// Date - календарная дата, которая может отсутствовать (null). Нулевое значение - отсутствие даты.
type Date struct {
	Time  time.Time
	Valid bool
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDate принимает "", "YYYY-MM-DD" и RFC 3339. У метки времени берётся день
// в её собственном смещении, в локальную зону она не переводится.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t.Date()), nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}

	return NewDate(t.Date()), nil
}

// Format форматирует дату по layout, для отсутствующей даты возвращает ""
func (d Date) Format(layout string) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(layout)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Equal - обе даты отсутствуют или указывают на один день
func (d Date) Equal(other Date) bool {
	if d.Valid != other.Valid {
		return false
	}
	if !d.Valid {
		return true
	}
	y1, m1, d1 := d.Time.Date()
	y2, m2, d2 := other.Time.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("interview date: %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Schema описывает Date в OpenAPI схеме
func (Date) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeString,
		Nullable:    true,
		Description: "Calendar date (YYYY-MM-DD), null or empty when not set",
		Examples:    []any{"2024-03-01"},
	}
}
