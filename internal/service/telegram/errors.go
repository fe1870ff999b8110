package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	// ErrSendMessage возвращается при ошибке отправки текстового сообщения
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrSendDocument возвращается при ошибке отправки файла
	ErrSendDocument = errors.New("service.telegram: failed to send document")

	// ErrSendPhoto возвращается при ошибке отправки фото
	ErrSendPhoto = errors.New("service.telegram: failed to send photo")

	// ErrSendSticker возвращается при ошибке отправки стикера
	ErrSendSticker = errors.New("service.telegram: failed to send sticker")

	// ErrSendAnimation возвращается при ошибке отправки анимации
	ErrSendAnimation = errors.New("service.telegram: failed to send animation")

	// ErrSendVideo возвращается при ошибке отправки видео
	ErrSendVideo = errors.New("service.telegram: failed to send video")

	// ErrSendAudio возвращается при ошибке отправки аудио
	ErrSendAudio = errors.New("service.telegram: failed to send audio")

	// ErrSendLocation возвращается при ошибке отправки геопозиции
	ErrSendLocation = errors.New("service.telegram: failed to send location")

	// ErrDeleteMessage возвращается при ошибке удаления сообщения
	ErrDeleteMessage = errors.New("service.telegram: failed to delete message")

	// ErrChatAction возвращается при ошибке отправки chat action
	ErrChatAction = errors.New("service.telegram: failed to send chat action")

	// ErrGetMe возвращается при ошибке получения данных бота
	ErrGetMe = errors.New("service.telegram: failed to get bot info")

	// ErrGetUpdates возвращается при ошибке получения обновлений
	ErrGetUpdates = errors.New("service.telegram: failed to get updates")

	// ErrInvalidRecipient возвращается, когда получатель не задан
	ErrInvalidRecipient = errors.New("service.telegram: invalid chat_id")

	// ErrUnknownMessage возвращается для неподдерживаемого варианта сообщения
	ErrUnknownMessage = errors.New("service.telegram: unknown message kind")
)

// DeliveryError сообщает, на каком сегменте длинного текста остановилась доставка
// Оставшиеся сегменты не отправляются
type DeliveryError struct {
	Segment   int // номер сегмента с ошибкой, с 1
	Total     int
	Delivered int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery stopped at segment %d of %d (%d delivered): %v", e.Segment, e.Total, e.Delivered, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsTimeout проверяет, что ошибка вызвана таймаутом сети
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsForbidden проверяет, что Telegram отклонил запрос из-за прав бота
// Для приватного канала без прав администратора Telegram отвечает Bad Request
func IsForbidden(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusBadRequest
}
