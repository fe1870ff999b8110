package domain

// MessageKind тип отправляемого сообщения
type MessageKind string

const (
	MessageKindText      MessageKind = "text"
	MessageKindDocument  MessageKind = "document"
	MessageKindPhoto     MessageKind = "photo"
	MessageKindSticker   MessageKind = "sticker"
	MessageKindAnimation MessageKind = "animation"
	MessageKindVideo     MessageKind = "video"
	MessageKindAudio     MessageKind = "audio"
	MessageKindLocation  MessageKind = "location"
)

// Message закрытый набор вариантов сообщения
// Реализации существуют только в этом пакете (см. неэкспортируемый метод message)
type Message interface {
	Kind() MessageKind
	message()
}

// Attachment файл для загрузки с необязательной подписью
type Attachment struct {
	Path    string
	Caption string
}

// HasCaption проверяет, задана ли подпись
func (a Attachment) HasCaption() bool {
	return a.Caption != ""
}

// Text текстовое сообщение (длинный текст делится на сегменты при отправке)
type Text struct {
	Body string
}

// Document произвольный файл
type Document struct {
	Attachment
}

// Photo изображение
type Photo struct {
	Attachment
}

// Sticker стикер (подпись не поддерживается Telegram)
type Sticker struct {
	Path string
}

// Animation GIF или видео без звука (H.264/MPEG-4 AVC)
type Animation struct {
	Attachment
}

// Video видео, всегда отправляется с поддержкой стриминга
type Video struct {
	Attachment
}

// Audio аудиофайл
type Audio struct {
	Attachment
}

// Location геопозиция
type Location struct {
	Latitude  float64
	Longitude float64
}

func (Text) Kind() MessageKind      { return MessageKindText }
func (Document) Kind() MessageKind  { return MessageKindDocument }
func (Photo) Kind() MessageKind     { return MessageKindPhoto }
func (Sticker) Kind() MessageKind   { return MessageKindSticker }
func (Animation) Kind() MessageKind { return MessageKindAnimation }
func (Video) Kind() MessageKind     { return MessageKindVideo }
func (Audio) Kind() MessageKind     { return MessageKindAudio }
func (Location) Kind() MessageKind  { return MessageKindLocation }

func (Text) message()      {}
func (Document) message()  {}
func (Photo) message()     {}
func (Sticker) message()   {}
func (Animation) message() {}
func (Video) message()     {}
func (Audio) message()     {}
func (Location) message()  {}

// FilePath возвращает путь к файлу для сообщений с вложением
// Второе значение false для текста и геопозиции
func FilePath(m Message) (string, bool) {
	switch v := m.(type) {
	case Document:
		return v.Path, true
	case Photo:
		return v.Path, true
	case Sticker:
		return v.Path, true
	case Animation:
		return v.Path, true
	case Video:
		return v.Path, true
	case Audio:
		return v.Path, true
	default:
		return "", false
	}
}
