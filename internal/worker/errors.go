package worker

import "errors"

var (
	// ErrInvalidTime возвращается, когда время запуска не удалось разобрать
	ErrInvalidTime = errors.New("worker: invalid time, use 15:04, 2006-01-02 15:04 or RFC3339")

	// ErrSchedule возвращается, когда задачу не удалось запланировать
	ErrSchedule = errors.New("worker: failed to schedule job")
)
