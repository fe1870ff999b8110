package domain

import (
	"strconv"
	"strings"
)

// Recipient получатель: числовой chat_id или username канала (@name)
type Recipient struct {
	ChatID          int64
	ChannelUsername string
}

// ParseRecipient разбирает chat_id из конфигурации
// Целое число (в том числе отрицательное, для групп и каналов) считается chat_id,
// всё остальное считается username канала
func ParseRecipient(raw string) Recipient {
	raw = strings.TrimSpace(raw)

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Recipient{ChatID: id}
	}

	return Recipient{ChannelUsername: raw}
}

// IsZero проверяет, что получатель не задан
func (r Recipient) IsZero() bool {
	return r.ChatID == 0 && r.ChannelUsername == ""
}

// String возвращает значение в формате конфигурации
func (r Recipient) String() string {
	if r.ChannelUsername != "" {
		return r.ChannelUsername
	}
	return strconv.FormatInt(r.ChatID, 10)
}

// Settings параметры доставки, прочитанные из файла конфигурации
type Settings struct {
	Token            string
	Recipient        Recipient
	ReplyToMessageID int // 0 - не отвечать на сообщение
}
