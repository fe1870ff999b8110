package configure

import "errors"

var (
	// ErrAborted возвращается, когда ввод закончился до завершения настройки
	ErrAborted = errors.New("usecase.configure: input closed before configuration finished")

	// ErrInvalidChannelURL возвращается, когда в ссылке нет id приватного канала
	ErrInvalidChannelURL = errors.New("usecase.configure: invalid private channel URL")

	// ErrSave возвращается при ошибке сохранения конфигурации
	ErrSave = errors.New("usecase.configure: failed to save config")
)
