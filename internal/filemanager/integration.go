package filemanager

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const name = "telegram-send"

const desktopEntry = `[%s]
Version=1.0
Type=Application
Encoding=UTF-8
Exec=telegram-send --file %%f
Icon=telegram
Name=%s
Selection=any
Extensions=nodirs;
Quote=double
`

// Каждому файлу нужен свой --file
const nautilusScript = `#!/bin/sh
IFS='
'
set --
for f in $NAUTILUS_SCRIPT_SELECTED_FILE_PATHS; do
	set -- "$@" --file "$f"
done
exec telegram-send "$@"
`

// target пункт "отправить в Telegram" одного файлового менеджера
type target struct {
	binary  string
	dir     string // относительно домашнего каталога
	file    string
	content string
	mode    fs.FileMode
}

var targets = []target{
	{
		binary:  "thunar",
		dir:     ".local/share/Thunar/sendto",
		file:    name + ".desktop",
		content: fmt.Sprintf(desktopEntry, "Desktop Entry", "Telegram"),
		mode:    0o644,
	},
	{
		binary:  "nemo",
		dir:     ".local/share/nemo/actions",
		file:    name + ".nemo_action",
		content: fmt.Sprintf(desktopEntry, "Nemo Action", "Send to Telegram"),
		mode:    0o644,
	},
	{
		binary:  "nautilus",
		dir:     ".local/share/nautilus/scripts",
		file:    name,
		content: nautilusScript,
		mode:    0o755,
	},
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Integration устанавливает и удаляет пункты меню файловых менеджеров
type Integration struct {
	home     string
	lookPath func(file string) (string, error)
	logger   Logger
}

// New создает интеграцию для домашнего каталога home
func New(home string, logger Logger) *Integration {
	return &Integration{
		home:     home,
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// Install создает пункты меню для установленных файловых менеджеров
func (i *Integration) Install() error {
	if runtime.GOOS == "windows" {
		return ErrUnsupported
	}

	for _, t := range targets {
		if _, err := i.lookPath(t.binary); err != nil {
			continue
		}

		dir := filepath.Join(i.home, t.dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrInstall, err)
		}

		path := filepath.Join(dir, t.file)
		if err := os.WriteFile(path, []byte(t.content), t.mode); err != nil {
			return fmt.Errorf("%w: %w", ErrInstall, err)
		}
		// WriteFile не меняет права существующего файла
		if err := os.Chmod(path, t.mode); err != nil {
			return fmt.Errorf("%w: %w", ErrInstall, err)
		}

		i.logger.Info("Installed %s integration at %s", t.binary, path)
	}

	return nil
}

// Clean удаляет пункты меню и файлы конфигурации
// Ошибка удаления глобальной конфигурации возвращается как ErrRemoveGlobalConfig
func (i *Integration) Clean(userConfig, globalConfig string) error {
	for _, t := range targets {
		path := filepath.Join(i.home, t.dir, t.file)
		if err := remove(path); err != nil {
			i.logger.Warn("Failed to remove %s: %v", path, err)
		}
	}

	if userConfig != "" {
		if err := remove(userConfig); err != nil {
			i.logger.Warn("Failed to remove %s: %v", userConfig, err)
		}
	}

	if globalConfig != "" {
		if err := remove(globalConfig); err != nil {
			return fmt.Errorf("%w: %w", ErrRemoveGlobalConfig, err)
		}
	}

	return nil
}

// remove удаляет файл; отсутствие файла не ошибка
func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
