package markup

import (
	"os"
	"runtime"
)

// Style стиль оформления текста в терминале
type Style string

const (
	Bold    Style = "bold"
	Red     Style = "red"
	Green   Style = "green"
	Cyan    Style = "cyan"
	Magenta Style = "magenta"
)

const reset = "\033[0m"

var codes = map[Style]string{
	Bold:    "\033[1m",
	Red:     "\033[31m",
	Green:   "\033[32m",
	Cyan:    "\033[36m",
	Magenta: "\033[35m",
}

// Enabled включает ANSI-оформление; по умолчанию только если stdout является терминалом
var Enabled = detect()

// Apply оформляет текст стилем, если оформление включено
func Apply(text string, style Style) string {
	code, ok := codes[style]
	if !Enabled || !ok {
		return text
	}
	return code + text + reset
}

func detect() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "ANSI" {
		return true
	}
	if runtime.GOOS == "windows" {
		return false
	}

	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice == 0 {
			return false
		}
	}
	return true
}
