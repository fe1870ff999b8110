package config

import "errors"

var (
	// ErrConfigNotFound возвращается, когда файл конфигурации отсутствует или пуст
	ErrConfigNotFound = errors.New("config: config not found")

	// ErrMissingOptions возвращается, когда не заданы обязательные параметры
	ErrMissingOptions = errors.New("config: missing options in config")

	// ErrInvalidValue возвращается при некорректном значении параметра
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrDecode возвращается при ошибке разбора TOML
	ErrDecode = errors.New("config: failed to decode TOML config")

	// ErrWrite возвращается при ошибке записи файла конфигурации
	ErrWrite = errors.New("config: failed to write config")

	// ErrConfigPath возвращается, когда не удалось определить путь к конфигурации
	ErrConfigPath = errors.New("config: failed to resolve config path")
)

// IsConfigError проверяет, что ошибка связана с отсутствующей или неполной конфигурацией
// Для таких ошибок CLI предлагает запустить --configure
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrMissingOptions) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrDecode)
}
