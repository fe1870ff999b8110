package telegram

import (
	"context"
	"fmt"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/segment"
)

// Delivery куда и как отправлять сообщения
type Delivery struct {
	Recipient        domain.Recipient
	ReplyToMessageID int
	Options          domain.SendOptions
}

// Service сервис для отправки сообщений через Telegram Bot API
type Service struct {
	bot      BotAPI
	splitter *segment.Splitter
	logger   Logger
	metrics  Metrics
}

// NewService создает новый экземпляр Telegram сервиса
func NewService(bot BotAPI, splitter *segment.Splitter, logger Logger) *Service {
	return &Service{
		bot:      bot,
		splitter: splitter,
		logger:   logger,
		metrics:  nopMetrics{},
	}
}

// SetMetrics подключает сбор метрик
func (s *Service) SetMetrics(m Metrics) {
	if m == nil {
		s.metrics = nopMetrics{}
		return
	}
	s.metrics = m
}

// Send отправляет одно сообщение и возвращает id доставленных сообщений
// Длинный текст уходит несколькими сообщениями; при ошибке на сегменте
// возвращаются id уже доставленных сегментов и *DeliveryError
func (s *Service) Send(ctx context.Context, d Delivery, msg domain.Message) ([]int, error) {
	if d.Recipient.IsZero() {
		return nil, ErrInvalidRecipient
	}

	base := baseChat(d)
	parseMode := d.Options.Format.ParseMode()

	switch m := msg.(type) {
	case domain.Text:
		return s.sendText(ctx, d, m)

	case domain.Document:
		cfg := tgbotapi.NewDocument(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		cfg.Caption, cfg.ParseMode = caption(m.Attachment, parseMode)
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendDocument)

	case domain.Photo:
		cfg := tgbotapi.NewPhoto(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		cfg.Caption, cfg.ParseMode = caption(m.Attachment, parseMode)
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendPhoto)

	case domain.Sticker:
		cfg := tgbotapi.NewSticker(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendSticker)

	case domain.Animation:
		cfg := tgbotapi.NewAnimation(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		cfg.Caption, cfg.ParseMode = caption(m.Attachment, parseMode)
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendAnimation)

	case domain.Video:
		cfg := tgbotapi.NewVideo(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		cfg.SupportsStreaming = true
		cfg.Caption, cfg.ParseMode = caption(m.Attachment, parseMode)
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendVideo)

	case domain.Audio:
		cfg := tgbotapi.NewAudio(0, tgbotapi.FilePath(m.Path))
		cfg.BaseChat = base
		cfg.Caption, cfg.ParseMode = caption(m.Attachment, parseMode)
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendAudio)

	case domain.Location:
		cfg := tgbotapi.NewLocation(0, m.Latitude, m.Longitude)
		cfg.BaseChat = base
		return s.sendOne(ctx, m.Kind(), cfg, ErrSendLocation)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

// sendText отправляет текст, разбивая его на сегменты по лимиту Telegram
func (s *Service) sendText(ctx context.Context, d Delivery, m domain.Text) ([]int, error) {
	segments := s.splitter.Split(m.Body)
	if len(segments) == 0 {
		s.logger.Debug("Skipping empty text message")
		return nil, nil
	}

	if s.splitter.Exceeds(m.Body) {
		s.logger.Warn("Message longer than MAX_MESSAGE_LENGTH=%d, splitting into %d messages", s.splitter.Limit(), len(segments))
		s.metrics.ObserveSegments(len(segments))
	}

	ids := make([]int, 0, len(segments))
	for i, text := range segments {
		if d.Options.Pre {
			text = "<pre>" + html.EscapeString(text) + "</pre>"
		}

		cfg := tgbotapi.NewMessage(0, text)
		cfg.BaseChat = baseChat(d)
		cfg.ParseMode = d.Options.TextParseMode()
		cfg.DisableWebPagePreview = d.Options.DisableWebPagePreview

		sent, err := s.sendOne(ctx, m.Kind(), cfg, ErrSendMessage)
		if err != nil {
			if len(segments) == 1 {
				return ids, err
			}
			return ids, &DeliveryError{
				Segment:   i + 1,
				Total:     len(segments),
				Delivered: len(ids),
				Err:       err,
			}
		}
		ids = append(ids, sent...)
	}

	return ids, nil
}

// sendOne выполняет один запрос sendXxx
func (s *Service) sendOne(ctx context.Context, kind domain.MessageKind, c tgbotapi.Chattable, sentinel error) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel, err)
	}

	started := time.Now()
	msg, err := s.bot.Send(c)
	s.metrics.ObserveRequest(string(kind), started)
	s.metrics.ObserveMessage(string(kind), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel, err)
	}

	s.logger.Debug("Sent %s message_id=%d", kind, msg.MessageID)

	return []int{msg.MessageID}, nil
}

// Delete удаляет сообщения по id
// Ошибка удаления одного сообщения не прерывает удаление остальных
func (s *Service) Delete(ctx context.Context, recipient domain.Recipient, ids []int) (deleted int) {
	for _, id := range ids {
		if ctx.Err() != nil {
			return deleted
		}

		cfg := tgbotapi.DeleteMessageConfig{
			ChatID:          recipient.ChatID,
			ChannelUsername: recipient.ChannelUsername,
			MessageID:       id,
		}

		started := time.Now()
		_, err := s.bot.Request(cfg)
		s.metrics.ObserveRequest("delete", started)
		s.metrics.ObserveDelete(err)
		if err != nil {
			s.logger.Warn("Deleting message with id=%d failed: %v", id, err)
			continue
		}
		deleted++
	}

	return deleted
}

// ProbeChat отправляет chat action "typing", чтобы проверить доступ бота к чату
func (s *Service) ProbeChat(recipient domain.Recipient) error {
	cfg := tgbotapi.NewChatAction(recipient.ChatID, tgbotapi.ChatTyping)
	cfg.ChannelUsername = recipient.ChannelUsername

	if _, err := s.bot.Request(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrChatAction, err)
	}

	return nil
}

// Me возвращает данные бота
func (s *Service) Me() (tgbotapi.User, error) {
	user, err := s.bot.GetMe()
	if err != nil {
		return tgbotapi.User{}, fmt.Errorf("%w: %w", ErrGetMe, err)
	}
	return user, nil
}

// Updates получает обновления начиная с offset (long polling)
func (s *Service) Updates(offset, timeout int) ([]tgbotapi.Update, error) {
	cfg := tgbotapi.NewUpdate(offset)
	cfg.Timeout = timeout

	updates, err := s.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetUpdates, err)
	}

	return updates, nil
}

func baseChat(d Delivery) tgbotapi.BaseChat {
	return tgbotapi.BaseChat{
		ChatID:              d.Recipient.ChatID,
		ChannelUsername:     d.Recipient.ChannelUsername,
		ReplyToMessageID:    d.ReplyToMessageID,
		DisableNotification: d.Options.Silent,
	}
}

// caption возвращает подпись и режим парсинга; без подписи режим не задается
func caption(a domain.Attachment, parseMode string) (string, string) {
	if !a.HasCaption() {
		return "", ""
	}
	return a.Caption, parseMode
}
