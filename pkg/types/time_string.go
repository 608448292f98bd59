package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// форматы меток, которые отдает сервер записи
var timeStringLayouts = []string{"15:04", "15:04:05"}

// TimeString метка слота в том виде, в каком ее вернул сервер (обычно "14:30")
type TimeString string

// ParseTimeString принимает метку как есть, отбрасывая пробелы по краям
func ParseTimeString(s string) (TimeString, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty label", ErrInvalidTimeString)
	}
	return TimeString(trimmed), nil
}

// IsZero возвращает true, если время не указано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от начала суток
// Понимает "9:30", "09:30" и "09:30:00"
func (t TimeString) Minutes() (int, error) {
	for _, layout := range timeStringLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(string(t))); err == nil {
			return parsed.Hour()*60 + parsed.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
}

// SameSlot сообщает, обозначают ли две метки одно и то же время
func (t TimeString) SameSlot(other TimeString) bool {
	if t == other {
		return true
	}
	a, err := t.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	return err == nil && a == b
}
