package send

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/m04kA/telegram-send/internal/domain"
)

// Request все, что нужно отправить за один запуск
type Request struct {
	Messages   []string
	Files      []string
	Images     []string
	Stickers   []string
	Animations []string
	Videos     []string
	Audios     []string
	Captions   []string // подписи по порядку для каждого вида вложений
	Locations  []string // "lat,lon", "lat lon" или lat и lon отдельными аргументами

	Options domain.SendOptions

	// Configs пути к конфигурациям; пусто - конфигурация по умолчанию
	Configs []string

	// Delete id сообщений для удаления (через первую конфигурацию)
	Delete []int
}

// BuildMessages собирает сообщения в порядке отправки:
// тексты, файлы, изображения, стикеры, анимации, видео, аудио, геопозиции
func BuildMessages(req Request) ([]domain.Message, error) {
	locations, err := ParseLocations(req.Locations)
	if err != nil {
		return nil, err
	}

	var msgs []domain.Message

	for _, body := range req.Messages {
		msgs = append(msgs, domain.Text{Body: body})
	}
	for _, a := range pairCaptions(req.Files, req.Captions) {
		msgs = append(msgs, domain.Document{Attachment: a})
	}
	for _, a := range pairCaptions(req.Images, req.Captions) {
		msgs = append(msgs, domain.Photo{Attachment: a})
	}
	for _, path := range req.Stickers {
		msgs = append(msgs, domain.Sticker{Path: path})
	}
	for _, a := range pairCaptions(req.Animations, req.Captions) {
		msgs = append(msgs, domain.Animation{Attachment: a})
	}
	for _, a := range pairCaptions(req.Videos, req.Captions) {
		msgs = append(msgs, domain.Video{Attachment: a})
	}
	for _, a := range pairCaptions(req.Audios, req.Captions) {
		msgs = append(msgs, domain.Audio{Attachment: a})
	}
	for _, l := range locations {
		msgs = append(msgs, l)
	}

	if err := checkFiles(msgs); err != nil {
		return nil, err
	}

	return msgs, nil
}

// pairCaptions сопоставляет подписи с файлами по позиции
// Файлы без подписи получают пустую подпись, лишние подписи игнорируются
func pairCaptions(paths, captions []string) []domain.Attachment {
	attachments := make([]domain.Attachment, 0, len(paths))
	for i, path := range paths {
		a := domain.Attachment{Path: path}
		if i < len(captions) {
			a.Caption = captions[i]
		}
		attachments = append(attachments, a)
	}
	return attachments
}

// ParseLocations разбирает координаты из аргументов командной строки
// Аргументы объединяются и делятся по пробелам и запятым, значения берутся парами
func ParseLocations(args []string) ([]domain.Location, error) {
	tokens := strings.FieldsFunc(strings.Join(args, " "), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: expected latitude and longitude pairs, got %d values", ErrInvalidLocation, len(tokens))
	}

	locations := make([]domain.Location, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		lat, err := parseCoordinate(tokens[i], 90)
		if err != nil {
			return nil, fmt.Errorf("%w: latitude %q: %w", ErrInvalidLocation, tokens[i], err)
		}

		lon, err := parseCoordinate(tokens[i+1], 180)
		if err != nil {
			return nil, fmt.Errorf("%w: longitude %q: %w", ErrInvalidLocation, tokens[i+1], err)
		}

		locations = append(locations, domain.Location{Latitude: lat, Longitude: lon})
	}

	return locations, nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.Abs(v) > limit {
		return 0, fmt.Errorf("out of range [-%g, %g]", limit, limit)
	}
	return v, nil
}

// checkFiles проверяет, что все вложения существуют до начала отправки
func checkFiles(msgs []domain.Message) error {
	for _, m := range msgs {
		path, ok := domain.FilePath(m)
		if !ok {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
		}
	}
	return nil
}
