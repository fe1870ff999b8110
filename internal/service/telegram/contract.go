package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI интерфейс для Telegram Bot API
// Абстракция над tgbotapi.BotAPI для упрощения тестирования
type BotAPI interface {
	// Send отправляет сообщение через Telegram Bot API
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)

	// Request выполняет кастомный запрос к Telegram API
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)

	// GetMe возвращает данные бота
	GetMe() (tgbotapi.User, error)

	// GetUpdates получает обновления (long polling с ручным offset)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс сбора метрик отправки
type Metrics interface {
	ObserveMessage(kind string, err error)
	ObserveSegments(n int)
	ObserveDelete(err error)
	ObserveRequest(method string, started time.Time)
}

type nopMetrics struct{}

func (nopMetrics) ObserveMessage(string, error) {}
func (nopMetrics) ObserveSegments(int) {}
func (nopMetrics) ObserveDelete(error) {}
func (nopMetrics) ObserveRequest(string, time.Time) {}
