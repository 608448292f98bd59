package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate возвращается при некорректном формате даты
var ErrInvalidDate = errors.New("invalid date format")

// DateLayout формат календарной даты (ISO 8601)
const DateLayout = "2006-01-02"

// Date календарная дата без времени
// Внутри хранится полночь UTC, поэтому две даты с одинаковым днем всегда равны
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf возвращает календарную дату момента t в его часовом поясе
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate парсит строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(parsed), nil
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// IsZero возвращает true, если дата не указана
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Before возвращает true, если дата раньше other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal возвращает true, если даты совпадают
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Time возвращает полночь UTC указанной даты
func (d Date) Time() time.Time {
	return d.t
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON разбирает дату из "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
