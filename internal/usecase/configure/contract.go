package configure

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/service/telegram"
)

// Bot операции Telegram, нужные для настройки
type Bot interface {
	Me() (tgbotapi.User, error)
	Updates(offset, timeout int) ([]tgbotapi.Update, error)
	ProbeChat(recipient domain.Recipient) error
	Send(ctx context.Context, d telegram.Delivery, msg domain.Message) ([]int, error)
}

// Connector создает клиента Telegram для введенного токена
type Connector interface {
	Connect(token string) (Bot, error)
}

// ConfigWriter сохраняет найденные настройки
type ConfigWriter interface {
	Save(path string, settings domain.Settings) error
}

// FileManager интеграция с файловыми менеджерами
type FileManager interface {
	Install() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
