package domain

import (
	"fmt"
	"strings"
)

// ParseMode константы для режимов парсинга текста в Telegram
const (
	ParseModeHTML       = "HTML"       // HTML форматирование
	ParseModeMarkdownV2 = "MarkdownV2" // Markdown форматирование (v2)
	ParseModePlain      = ""           // Без форматирования
)

// Format формат, выбираемый пользователем в CLI
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat проверяет формат и возвращает его
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (choose from text, markdown, html)", s)
	}
}

// ParseMode возвращает режим парсинга Telegram для формата
func (f Format) ParseMode() string {
	switch f {
	case FormatMarkdown:
		return ParseModeMarkdownV2
	case FormatHTML:
		return ParseModeHTML
	default:
		return ParseModePlain
	}
}

// SendOptions параметры отправки, общие для всех сообщений вызова
type SendOptions struct {
	Format                Format
	Pre                   bool // моноширинный текст, включает HTML
	Silent                bool // уведомление без звука
	DisableWebPagePreview bool
}

// TextParseMode режим парсинга для текстовых сообщений с учетом Pre
func (o SendOptions) TextParseMode() string {
	if o.Pre {
		return ParseModeHTML
	}
	return o.Format.ParseMode()
}
