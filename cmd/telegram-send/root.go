package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/m04kA/telegram-send/internal/config"
	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/filemanager"
	"github.com/m04kA/telegram-send/internal/segment"
	"github.com/m04kA/telegram-send/internal/service/telegram"
	"github.com/m04kA/telegram-send/internal/usecase/configure"
	"github.com/m04kA/telegram-send/internal/usecase/send"
	"github.com/m04kA/telegram-send/internal/worker"
	"github.com/m04kA/telegram-send/pkg/logger"
	"github.com/m04kA/telegram-send/pkg/markup"
	"github.com/m04kA/telegram-send/pkg/metrics"
)

const (
	serviceName = "telegram_send"

	// configureTimeout нижняя граница таймаута HTTP при настройке (long polling 10s)
	configureTimeout = 20 * time.Second
)

// options флаги командной строки
type options struct {
	format                string
	stdin                 bool
	pre                   bool
	disableWebPagePreview bool
	silent                bool

	configure        bool
	configureChannel bool
	configureGroup   bool

	files      []string
	images     []string
	stickers   []string
	animations []string
	videos     []string
	audios     []string
	locations  []string
	captions   []string

	showIDs bool
	delete  []int

	configs      []string
	globalConfig bool
	fileManager  bool
	clean        bool
	timeout      float64

	at          string
	metricsFile string
	logLevel    string
}

// app состояние одного запуска CLI
type app struct {
	opts options

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	endpoint string // адрес Bot API, %s - токен и метод
	home     string // домашний каталог для интеграции с файловыми менеджерами
}

// execute разбирает аргументы, выполняет команду и возвращает код выхода
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return newApp(stdin, stdout, stderr).execute(ctx, args)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		endpoint: tgbotapi.APIEndpoint,
	}
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "telegram-send [message ...]",
		Short:         "Send messages and files over Telegram.",
		Long:          "Send messages and files over Telegram.\n\nHomepage: https://github.com/rahiel/telegram-send",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.run(cmd.Context(), args)
		},
	}

	f := cmd.Flags()
	o := &a.opts

	f.StringVar(&o.format, "format", string(domain.FormatText), "how to format the message(s): text, markdown or html")
	f.BoolVar(&o.stdin, "stdin", false, "send text from stdin")
	f.BoolVar(&o.pre, "pre", false, "send preformatted fixed-width (monospace) text")
	f.BoolVar(&o.disableWebPagePreview, "disable-web-page-preview", false, "disable link previews in the message(s)")
	f.BoolVar(&o.silent, "silent", false, "send silently, user will receive a notification without sound")

	f.BoolVarP(&o.configure, "configure", "c", false, "configure telegram-send")
	f.BoolVar(&o.configureChannel, "configure-channel", false, "configure telegram-send for a channel")
	f.BoolVar(&o.configureGroup, "configure-group", false, "configure telegram-send for a group")

	f.StringArrayVarP(&o.files, "file", "f", nil, "send file(s)")
	f.StringArrayVarP(&o.images, "image", "i", nil, "send image(s)")
	f.StringArrayVarP(&o.stickers, "sticker", "s", nil, "send sticker(s)")
	f.StringArrayVar(&o.animations, "animation", nil, "send animation(s) (GIF or soundless H.264/MPEG-4 AVC video)")
	f.StringArrayVar(&o.videos, "video", nil, "send video(s)")
	f.StringArrayVar(&o.audios, "audio", nil, "send audio(s)")
	f.StringArrayVarP(&o.locations, "location", "l", nil, "send location(s) via latitude and longitude (separated by whitespace or a comma)")
	f.StringArrayVar(&o.captions, "caption", nil, "caption for image(s), file(s), animation(s), video(s) or audio(s)")

	f.BoolVar(&o.showIDs, "showids", false, "show message ids, used to delete messages after they're sent")
	f.IntSliceVarP(&o.delete, "delete", "d", nil, "delete sent messages by id (only last 48h), see --showids")

	f.StringArrayVar(&o.configs, "config", nil, "specify configuration file (repeatable)")
	f.BoolVarP(&o.globalConfig, "global-config", "g", false, "use the global configuration at "+config.GlobalPath)
	f.BoolVar(&o.fileManager, "file-manager", false, "integrate telegram-send in the file manager")
	f.BoolVar(&o.clean, "clean", false, "clean telegram-send configuration files")
	f.Float64Var(&o.timeout, "timeout", 30, "read timeout for network operations (in seconds)")

	f.StringVar(&o.at, "at", "", "send at the given time (15:04, \"2006-01-02 15:04\" or RFC3339)")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	f.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	return cmd
}

// action сообщает, выбран ли режим вместо отправки
func (o *options) action() bool {
	return o.configure || o.configureChannel || o.configureGroup || o.fileManager || o.clean
}

// configPaths пути к конфигурациям с учетом -g и --config
func (a *app) configPaths() []string {
	switch {
	case a.opts.globalConfig:
		return []string{config.GlobalPath}
	case len(a.opts.configs) == 0:
		return []string{""}
	default:
		return a.opts.configs
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	// Пустой stdin ничего не отправляет, конфигурация не читается
	messages := args
	if a.opts.stdin && !a.opts.action() {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) == 0 {
			return nil
		}
		messages = append([]string{string(data)}, args...)
	}

	// .env не обязателен
	_ = godotenv.Load()

	paths := a.configPaths()

	logs := config.LoadLogs(paths[0])
	if a.opts.logLevel != "" {
		logs.Level = a.opts.logLevel
	}

	var (
		base *logger.Logger
		err  error
	)
	if logs.File == "" {
		base, err = logger.NewWithWriter(a.stderr, logs.Level)
	} else {
		base, err = logger.New(logs.File, logs.Level)
	}
	if err != nil {
		return err
	}
	defer base.Close()
	log := base.With("run_id", uuid.NewString())

	var m *metrics.Metrics
	if a.opts.metricsFile != "" {
		m = metrics.New(serviceName)
		defer func() {
			if err := m.WriteToTextfile(a.opts.metricsFile); err != nil {
				log.Warn("Failed to write metrics: %v", err)
			}
		}()
	}

	splitter, err := segment.NewSplitter(segment.TelegramTextLimit)
	if err != nil {
		return err
	}

	timeout := time.Duration(a.opts.timeout * float64(time.Second))
	connector := &botConnector{
		client:   &http.Client{Timeout: timeout},
		endpoint: a.endpoint,
		splitter: splitter,
		logger:   log,
		metrics:  m,
	}

	switch {
	case a.opts.configure:
		return a.configure(ctx, connector, log, configure.ModePrivate, paths[0])
	case a.opts.configureChannel:
		return a.configure(ctx, connector, log, configure.ModeChannel, paths[0])
	case a.opts.configureGroup:
		return a.configure(ctx, connector, log, configure.ModeGroup, paths[0])
	case a.opts.fileManager:
		return a.integration(log).Install()
	case a.opts.clean:
		return a.cleanup(log)
	}

	format, err := domain.ParseFormat(a.opts.format)
	if err != nil {
		return err
	}

	req := send.Request{
		Messages:   messages,
		Files:      a.opts.files,
		Images:     a.opts.images,
		Stickers:   a.opts.stickers,
		Animations: a.opts.animations,
		Videos:     a.opts.videos,
		Audios:     a.opts.audios,
		Captions:   a.opts.captions,
		Locations:  a.opts.locations,
		Options: domain.SendOptions{
			Format:                format,
			Pre:                   a.opts.pre,
			Silent:                a.opts.silent,
			DisableWebPagePreview: a.opts.disableWebPagePreview,
		},
		Configs: paths,
		Delete:  a.opts.delete,
	}

	uc := send.New(configStore{}, sendConnector{connector}, log)

	var (
		mu  sync.Mutex
		ids []int
	)
	job := func(ctx context.Context) error {
		sent, err := uc.Execute(ctx, req)
		mu.Lock()
		ids = sent
		mu.Unlock()
		return err
	}

	if a.opts.at != "" {
		at, parseErr := worker.ParseAt(a.opts.at, time.Now())
		if parseErr != nil {
			return parseErr
		}
		err = worker.NewScheduler(time.Local, log).RunAt(ctx, at, job)
	} else {
		err = job(ctx)
	}

	mu.Lock()
	defer mu.Unlock()
	if a.opts.showIDs && len(ids) > 0 {
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = strconv.Itoa(id)
		}
		fmt.Fprintln(a.stdout, "message_ids "+strings.Join(strs, " "))
	}

	return err
}

func (a *app) configure(ctx context.Context, connector *botConnector, log *logger.Logger, mode configure.Mode, path string) error {
	// Long polling держит соединение 10 секунд
	if connector.client.Timeout < configureTimeout {
		connector.client = &http.Client{Timeout: configureTimeout}
	}

	var fm configure.FileManager
	if mode == configure.ModePrivate {
		fm = a.integration(log)
	}

	uc := configure.New(configureConnector{connector}, configStore{}, fm, log, a.stdin, a.stdout)
	return uc.Execute(ctx, mode, path)
}

func (a *app) integration(log *logger.Logger) *filemanager.Integration {
	home := a.home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filemanager.New(home, log)
}

func (a *app) cleanup(log *logger.Logger) error {
	userConfig, err := config.DefaultPath()
	if err != nil {
		return err
	}
	return a.integration(log).Clean(userConfig, config.GlobalPath)
}

// report выводит ошибку и подсказку, как ее исправить
func (a *app) report(err error) {
	out := a.stdout

	switch {
	case config.IsConfigError(err):
		fmt.Fprintln(out, markup.Apply(err.Error(), markup.Red))
		cmd := "telegram-send --configure"
		if a.opts.globalConfig {
			cmd = "sudo " + cmd + " --global-config"
		}
		fmt.Fprintln(out, "Please run: "+markup.Apply(cmd, markup.Bold))

	case telegram.IsTimeout(err):
		fmt.Fprintln(out, markup.Apply("Error: Connection timed out", markup.Red))
		fmt.Fprintln(out, "Please run with a longer timeout.\nTry with the option: "+
			markup.Apply(fmt.Sprintf("--timeout %g", a.opts.timeout+10), markup.Bold))

	case errors.Is(err, filemanager.ErrRemoveGlobalConfig):
		fmt.Fprintln(out, markup.Apply("Can't delete "+config.GlobalPath, markup.Red))
		fmt.Fprintln(out, "Please run: "+markup.Apply("sudo telegram-send --clean", markup.Bold))

	case errors.Is(err, filemanager.ErrUnsupported):
		fmt.Fprintln(out, markup.Apply("File manager integration is unavailable on Windows.", markup.Red))

	default:
		fmt.Fprintln(out, markup.Apply("Error: "+err.Error(), markup.Red))
	}
}
