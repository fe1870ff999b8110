package segment

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TelegramTextLimit максимальная длина текстового сообщения Telegram (в символах)
const TelegramTextLimit = 4096

// Splitter делит длинный текст на сегменты не длиннее лимита
type Splitter struct {
	limit int
}

// NewSplitter создает Splitter с заданным лимитом
// Лимит <= 0 является ошибкой конфигурации и отклоняется здесь, а не в Split
func NewSplitter(limit int) (*Splitter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: segment limit must be positive, got %d", ErrInvalidConfiguration, limit)
	}

	return &Splitter{limit: limit}, nil
}

// Limit возвращает лимит длины сегмента
func (s *Splitter) Limit() int {
	return s.limit
}

// Exceeds проверяет, нужно ли делить текст
func (s *Splitter) Exceeds(text string) bool {
	return utf8.RuneCountInString(text) > s.limit
}

// Split делит текст на упорядоченные сегменты
// Пустой текст дает пустую последовательность: отправлять нечего
// Разрез ищется сначала по переводу строки, затем по пробельному символу,
// иначе текст режется ровно по лимиту. Символ-разделитель в сегменты не попадает
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	rest := []rune(text)
	if len(rest) <= s.limit {
		return []string{text}
	}

	var segments []string
	for len(rest) > s.limit {
		cut, sep := s.cutPoint(rest)
		segments = append(segments, string(rest[:cut]))
		rest = rest[cut+sep:]
	}

	// Остаток может оказаться пустым, если разделитель был последним символом
	if len(rest) > 0 {
		segments = append(segments, string(rest))
	}

	return segments
}

// cutPoint возвращает длину префикса и количество поглощаемых символов-разделителей (0 или 1)
// Кандидаты на разрез лежат в [1, limit]: префикс не бывает пустым и не длиннее лимита
func (s *Splitter) cutPoint(text []rune) (int, int) {
	if i := lastIndexIn(text, s.limit, isNewline); i > 0 {
		return i, 1
	}

	if i := lastIndexIn(text, s.limit, unicode.IsSpace); i > 0 {
		return i, 1
	}

	return s.limit, 0
}

// lastIndexIn ищет последнюю позицию i в [1, upper], где match(text[i]) истинно
func lastIndexIn(text []rune, upper int, match func(rune) bool) int {
	if upper > len(text)-1 {
		upper = len(text) - 1
	}

	for i := upper; i > 0; i-- {
		if match(text[i]) {
			return i
		}
	}

	return -1
}

func isNewline(r rune) bool {
	return r == '\n'
}

