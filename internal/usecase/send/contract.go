package send

import (
	"context"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/service/telegram"
)

// TelegramService интерфейс для отправки и удаления сообщений
type TelegramService interface {
	Send(ctx context.Context, d telegram.Delivery, msg domain.Message) ([]int, error)
	Delete(ctx context.Context, recipient domain.Recipient, ids []int) int
}

// ConfigLoader читает параметры доставки из файла конфигурации
type ConfigLoader interface {
	// Load загружает настройки; пустой путь означает конфигурацию по умолчанию
	Load(path string) (domain.Settings, error)
}

// Connector создает клиента Telegram для токена бота
type Connector interface {
	Connect(token string) (TelegramService, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
