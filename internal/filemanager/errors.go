package filemanager

import "errors"

var (
	// ErrUnsupported возвращается на системах без поддерживаемых файловых менеджеров
	ErrUnsupported = errors.New("filemanager: file manager integration is unavailable on Windows")

	// ErrInstall возвращается при ошибке установки интеграции
	ErrInstall = errors.New("filemanager: failed to install integration")

	// ErrRemoveGlobalConfig возвращается, когда не удалось удалить глобальную конфигурацию
	ErrRemoveGlobalConfig = errors.New("filemanager: can't delete global config")
)
