package send

import (
	"context"
	"fmt"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/service/telegram"
)

// UseCase отправляет сообщения всем получателям из конфигураций
type UseCase struct {
	configs   ConfigLoader
	connector Connector
	logger    Logger
}

// New создаёт новый use case отправки
func New(configs ConfigLoader, connector Connector, logger Logger) *UseCase {
	return &UseCase{
		configs:   configs,
		connector: connector,
		logger:    logger,
	}
}

// Execute удаляет сообщения из req.Delete и отправляет сообщения из req
// Возвращает id всех отправленных сообщений, в том числе при ошибке
func (uc *UseCase) Execute(ctx context.Context, req Request) ([]int, error) {
	msgs, err := BuildMessages(req)
	if err != nil {
		return nil, err
	}

	paths := req.Configs
	if len(paths) == 0 {
		paths = []string{""}
	}

	clients := make(map[string]TelegramService)
	connect := func(token string) (TelegramService, error) {
		if c, ok := clients[token]; ok {
			return c, nil
		}
		c, err := uc.connector.Connect(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnect, err)
		}
		clients[token] = c
		return c, nil
	}

	// Удаление всегда идет через первую конфигурацию
	settings, err := uc.configs.Load(paths[0])
	if err != nil {
		return nil, err
	}
	if len(req.Delete) > 0 {
		client, err := connect(settings.Token)
		if err != nil {
			return nil, err
		}
		deleted := client.Delete(ctx, settings.Recipient, req.Delete)
		uc.logger.Info("Deleted %d of %d messages in %s", deleted, len(req.Delete), settings.Recipient)
	}

	var ids []int
	for i, path := range paths {
		if i > 0 {
			if settings, err = uc.configs.Load(path); err != nil {
				return ids, err
			}
		}

		if len(msgs) == 0 {
			continue
		}

		client, err := connect(settings.Token)
		if err != nil {
			return ids, err
		}

		sent, err := uc.deliver(ctx, client, settings, req.Options, msgs)
		ids = append(ids, sent...)
		if err != nil {
			return ids, err
		}
	}

	return ids, nil
}

// deliver отправляет сообщения одному получателю по порядку и останавливается на первой ошибке
func (uc *UseCase) deliver(ctx context.Context, client TelegramService, settings domain.Settings, opts domain.SendOptions, msgs []domain.Message) ([]int, error) {
	d := telegram.Delivery{
		Recipient:        settings.Recipient,
		ReplyToMessageID: settings.ReplyToMessageID,
		Options:          opts,
	}

	uc.logger.Info("Sending %d messages to %s", len(msgs), settings.Recipient)

	var ids []int
	for _, msg := range msgs {
		sent, err := client.Send(ctx, d, msg)
		ids = append(ids, sent...)
		if err != nil {
			return ids, fmt.Errorf("usecase.send: send %s to %s: %w", msg.Kind(), settings.Recipient, err)
		}
	}

	return ids, nil
}
