package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString время суток в формате "HH:MM" (например: "09:30", "23:59")
type TimeString string

const (
	// TimeFormat формат времени для TimeString
	TimeFormat = "15:04"
)

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidTimeValue возвращается, когда время не задано
	ErrInvalidTimeValue = errors.New("invalid time value")
)

// NewTimeStringFromString создает TimeString из строки с валидацией
func NewTimeStringFromString(s string) (TimeString, error) {
	t := TimeString(s)
	if t.IsZero() {
		return "", ErrInvalidTimeValue
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не установлено
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет корректность формата времени
func (t TimeString) Validate() error {
	if _, err := time.Parse(TimeFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}
	return nil
}

// On возвращает момент времени t в день date (в часовом поясе date)
func (t TimeString) On(date time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrInvalidTimeValue
	}

	clock, err := time.Parse(TimeFormat, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

// Next возвращает ближайший после now момент с временем суток t
func (t TimeString) Next(now time.Time) (time.Time, error) {
	at, err := t.On(now)
	if err != nil {
		return time.Time{}, err
	}

	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}
