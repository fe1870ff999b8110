package configure

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/m04kA/telegram-send/internal/domain"
)

// Ссылка на приватный канал из legacy-версии web.telegram.org
var privateChannelURL = regexp.MustCompile(`.+web\.(telegram|tlgr)\.org/\?legacy=1#/im\?p=c(\d+)_\d+`)

// NormalizeChannel приводит имя или ссылку публичного канала к виду @name
func NormalizeChannel(raw string) string {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.Contains(raw, "/"):
		parts := strings.Split(strings.TrimRight(raw, "/"), "/")
		return "@" + parts[len(parts)-1]
	case strings.HasPrefix(raw, "@"):
		return raw
	default:
		return "@" + raw
	}
}

// ParsePrivateChannelURL извлекает chat_id приватного канала (-100<id>) из ссылки
func ParsePrivateChannelURL(url string) (domain.Recipient, error) {
	m := privateChannelURL.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return domain.Recipient{}, fmt.Errorf("%w: %q", ErrInvalidChannelURL, url)
	}

	id, err := strconv.ParseInt("-100"+m[2], 10, 64)
	if err != nil {
		return domain.Recipient{}, fmt.Errorf("%w: %w", ErrInvalidChannelURL, err)
	}

	return domain.Recipient{ChatID: id}, nil
}
