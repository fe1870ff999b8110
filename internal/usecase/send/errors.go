package send

import "errors"

var (
	// ErrInvalidLocation возвращается при некорректных координатах
	ErrInvalidLocation = errors.New("usecase.send: invalid location")

	// ErrFileNotFound возвращается, когда файл для отправки не существует
	ErrFileNotFound = errors.New("usecase.send: file not found")

	// ErrConnect возвращается, когда не удалось подключиться к боту
	ErrConnect = errors.New("usecase.send: failed to connect to bot")
)
