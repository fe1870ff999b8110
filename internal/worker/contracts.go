package worker

import "context"

// Job отложенная задача; контекст отменяется вместе с процессом
type Job func(ctx context.Context) error

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
