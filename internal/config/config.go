package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/telegram-send/internal/domain"
)

const (
	// FileName имя файла конфигурации
	FileName = "telegram-send.conf"

	// GlobalPath путь к глобальной конфигурации
	GlobalPath = "/etc/" + FileName

	defaultLogLevel = "warn"
)

// Config представляет файл конфигурации telegram-send
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	Logs     LogsConfig     `toml:"logs"`
}

// TelegramConfig содержит данные бота и получателя
type TelegramConfig struct {
	Token            string `toml:"token"`
	ChatID           string `toml:"chat_id"` // число или @username канала
	ReplyToMessageID int    `toml:"reply_to_message_id,omitempty"`
}

// LogsConfig содержит настройки логирования
type LogsConfig struct {
	Level string `toml:"level,omitempty"`
	File  string `toml:"file,omitempty"` // пусто - stderr
}

// Settings возвращает параметры доставки
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		Token:            c.Telegram.Token,
		Recipient:        domain.ParseRecipient(c.Telegram.ChatID),
		ReplyToMessageID: c.Telegram.ReplyToMessageID,
	}
}

// DefaultPath возвращает путь к пользовательской конфигурации
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigPath, err)
	}
	return filepath.Join(dir, FileName), nil
}

// Resolve раскрывает "~" в пути; пустой путь означает пользовательскую конфигурацию
func Resolve(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrConfigPath, err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	return path, nil
}

// Load загружает конфигурацию из TOML файла с поддержкой переменных окружения
func Load(path string) (*Config, error) {
	path, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	var cfg Config

	// Читаем TOML файл
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Переопределяем значения из переменных окружения (если они установлены)
	overrideFromEnv(&cfg)

	if !meta.IsDefined("telegram") && cfg.Telegram.Token == "" && cfg.Telegram.ChatID == "" {
		return nil, fmt.Errorf("%w: no [telegram] table in %s", ErrConfigNotFound, path)
	}

	// Валидация конфигурации
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadLogs читает только настройки логирования
// Отсутствующий или битый файл не ошибка: логгер нужен и до настройки бота
func LoadLogs(path string) LogsConfig {
	var cfg Config

	if resolved, err := Resolve(path); err == nil {
		_, _ = toml.DecodeFile(resolved, &cfg)
	}

	overrideFromEnv(&cfg)
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = defaultLogLevel
	}

	return cfg.Logs
}

// Save записывает конфигурацию, создавая каталог при необходимости
func Save(path string, cfg *Config) error {
	path, err := Resolve(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// overrideFromEnv переопределяет значения из переменных окружения
func overrideFromEnv(cfg *Config) {
	// Telegram
	if v := os.Getenv("TELEGRAM_SEND_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_SEND_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_SEND_REPLY_TO_MESSAGE_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Telegram.ReplyToMessageID = id
		}
	}

	// Logs
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logs.File = v
	}
}

// validate проверяет корректность конфигурации
func validate(cfg *Config) error {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Telegram.ChatID = strings.TrimSpace(cfg.Telegram.ChatID)

	var missing []string
	if cfg.Telegram.Token == "" {
		missing = append(missing, "token")
	}
	if cfg.Telegram.ChatID == "" {
		missing = append(missing, "chat_id")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingOptions, strings.Join(missing, ", "))
	}

	if cfg.Telegram.ReplyToMessageID < 0 {
		return fmt.Errorf("%w: reply_to_message_id must not be negative", ErrInvalidValue)
	}

	// Logs defaults
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = defaultLogLevel
	}

	return nil
}
