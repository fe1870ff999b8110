package main

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/telegram-send/internal/config"
	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/segment"
	"github.com/m04kA/telegram-send/internal/service/telegram"
	"github.com/m04kA/telegram-send/internal/usecase/configure"
	"github.com/m04kA/telegram-send/internal/usecase/send"
	"github.com/m04kA/telegram-send/pkg/logger"
	"github.com/m04kA/telegram-send/pkg/metrics"
)

// botConnector создает Telegram сервис для токена
type botConnector struct {
	client   *http.Client
	endpoint string
	splitter *segment.Splitter
	logger   *logger.Logger
	metrics  *metrics.Metrics // nil - метрики выключены
}

func (c *botConnector) service(token string) (*telegram.Service, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, c.endpoint, c.client)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Telegram Bot API initialized (@%s)", bot.Self.UserName)

	svc := telegram.NewService(bot, c.splitter, c.logger)
	if c.metrics != nil {
		svc.SetMetrics(c.metrics)
	}
	return svc, nil
}

type sendConnector struct{ *botConnector }

func (c sendConnector) Connect(token string) (send.TelegramService, error) {
	svc, err := c.service(token)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

type configureConnector struct{ *botConnector }

func (c configureConnector) Connect(token string) (configure.Bot, error) {
	svc, err := c.service(token)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// configStore адаптер пакета config для use case
type configStore struct{}

func (configStore) Load(path string) (domain.Settings, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return domain.Settings{}, err
	}
	return cfg.Settings(), nil
}

func (configStore) Save(path string, s domain.Settings) error {
	return config.Save(path, &config.Config{
		Telegram: config.TelegramConfig{
			Token:            s.Token,
			ChatID:           s.Recipient.String(),
			ReplyToMessageID: s.ReplyToMessageID,
		},
	})
}
