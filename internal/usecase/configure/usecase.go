package configure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/service/telegram"
	"github.com/m04kA/telegram-send/internal/service/telegram/templates"
	"github.com/m04kA/telegram-send/pkg/markup"
)

// Mode куда будет отправлять настроенный бот
type Mode int

const (
	ModePrivate Mode = iota // личный чат с ботом
	ModeGroup               // группа
	ModeChannel             // публичный или приватный канал
)

const (
	// pollTimeout таймаут long polling в секундах
	pollTimeout = 10

	passwordDigits = 5
)

// UseCase интерактивная настройка бота и получателя
type UseCase struct {
	connector   Connector
	configs     ConfigWriter
	fileManager FileManager
	logger      Logger

	in  *bufio.Reader
	out io.Writer

	password   func() string
	retryDelay time.Duration
}

// New создаёт use case настройки, читающий ответы из in и пишущий подсказки в out
// fileManager может быть nil
func New(connector Connector, configs ConfigWriter, fileManager FileManager, logger Logger, in io.Reader, out io.Writer) *UseCase {
	return &UseCase{
		connector:   connector,
		configs:     configs,
		fileManager: fileManager,
		logger:      logger,
		in:          bufio.NewReader(in),
		out:         out,
		password:    randomPassword,
		retryDelay:  time.Second,
	}
}

// Execute проводит пользователя через настройку и сохраняет конфигурацию в path
func (uc *UseCase) Execute(ctx context.Context, mode Mode, path string) error {
	token, bot, botName, err := uc.connect(ctx)
	if err != nil {
		return err
	}

	var recipient domain.Recipient
	if mode == ModeChannel {
		recipient, err = uc.configureChannel(ctx, bot, botName)
	} else {
		recipient, err = uc.configureChat(ctx, bot, botName, mode == ModeGroup)
	}
	if err != nil {
		return err
	}

	settings := domain.Settings{Token: token, Recipient: recipient}
	if err := uc.configs.Save(path, settings); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	uc.logger.Info("Saved configuration for %s", recipient)

	if mode == ModePrivate && uc.fileManager != nil && runtime.GOOS != "windows" {
		if err := uc.fileManager.Install(); err != nil {
			uc.logger.Warn("File manager integration failed: %v", err)
		}
	}

	return nil
}

// connect запрашивает токен, пока бот не ответит на getMe
func (uc *UseCase) connect(ctx context.Context) (string, Bot, string, error) {
	for {
		fmt.Fprintf(uc.out, "Talk with the %s on Telegram (%s), create a bot and insert the token\n",
			markup.Apply(templates.BotFather, markup.Cyan), templates.BotURL(templates.BotFather))

		token, err := uc.prompt(ctx)
		if err != nil {
			return "", nil, "", err
		}

		bot, err := uc.connector.Connect(token)
		if err == nil {
			var me tgbotapi.User
			if me, err = bot.Me(); err == nil {
				fmt.Fprintf(uc.out, "Connected with %s.\n\n", markup.Apply(me.UserName, markup.Cyan))
				return token, bot, me.UserName, nil
			}
		}

		fmt.Fprintf(uc.out, "Error: %v\n", err)
		fmt.Fprintln(uc.out, markup.Apply("Something went wrong, please try again.\n", markup.Red))
	}
}

// configureChannel определяет канал и ждет, пока бот станет администратором
func (uc *UseCase) configureChannel(ctx context.Context, bot Bot, botName string) (domain.Recipient, error) {
	fmt.Fprintf(uc.out, "Do you want to send to a %s or a %s channel? [pub/priv]\n",
		markup.Apply("public", markup.Bold), markup.Apply("private", markup.Bold))

	kind, err := uc.prompt(ctx)
	if err != nil {
		return domain.Recipient{}, err
	}

	var recipient domain.Recipient
	if strings.HasPrefix(kind, "pub") {
		fmt.Fprintln(uc.out, "\nEnter your channel's public name or link: \nExample: @username or https://t.me/username")
		name, err := uc.prompt(ctx)
		if err != nil {
			return domain.Recipient{}, err
		}
		recipient = domain.Recipient{ChannelUsername: NormalizeChannel(name)}
	} else {
		for {
			fmt.Fprintln(uc.out, "\nOpen https://web.telegram.org/?legacy=1#/im in your browser, sign in and open your private channel."+
				"\nNow copy the URL in the address bar and enter it here:"+
				"\nExample: https://web.telegram.org/?legacy=1#/im?p=c1498081025_17886896740758033425")
			url, err := uc.prompt(ctx)
			if err != nil {
				return domain.Recipient{}, err
			}
			if recipient, err = ParsePrivateChannelURL(url); err == nil {
				break
			}
			fmt.Fprintln(uc.out, markup.Apply(err.Error(), markup.Red))
		}
	}

	for {
		err := bot.ProbeChat(recipient)
		if err == nil {
			break
		}
		if !telegram.IsForbidden(err) {
			return domain.Recipient{}, err
		}

		fmt.Fprintf(uc.out, "Please add %s as administrator to your channel and press Enter", markup.Apply(botName, markup.Cyan))
		if _, err := uc.readLine(ctx); err != nil {
			return domain.Recipient{}, err
		}
	}

	fmt.Fprintln(uc.out, markup.Apply("\nCongratulations! telegram-send can now post to your channel!", markup.Green))

	return recipient, nil
}

// configureChat ждет пароль от пользователя в личном чате или в группе
func (uc *UseCase) configureChat(ctx context.Context, bot Bot, botName string, group bool) (domain.Recipient, error) {
	password := uc.password()
	fancyName := markup.Apply(botName, markup.Cyan)

	if group {
		password = templates.GroupPassword(password, botName)
		fmt.Fprintf(uc.out, "Please add %s to your group\nand send the following message to the group: %s\n\n",
			fancyName, markup.Apply(password, markup.Bold))
	} else {
		fmt.Fprintf(uc.out, "Please add %s on Telegram (%s)\nand send it the password: %s\n\n",
			fancyName, templates.BotURL(botName), markup.Apply(password, markup.Bold))
	}

	msg, err := uc.waitForPassword(ctx, bot, password)
	if err != nil {
		return domain.Recipient{}, err
	}

	user := ""
	if msg.From != nil {
		user = msg.From.UserName
		if user == "" {
			user = msg.From.FirstName
		}
	}

	fmt.Fprintln(uc.out, markup.Apply(templates.Congratulation(user), markup.Green))

	recipient := domain.Recipient{ChatID: msg.Chat.ID}
	if _, err := bot.Send(ctx, telegram.Delivery{Recipient: recipient}, domain.Text{Body: templates.ChatCongratulation(user)}); err != nil {
		return domain.Recipient{}, err
	}

	return recipient, nil
}

// waitForPassword опрашивает getUpdates, пока не придет сообщение с паролем
// Ошибки опроса выводятся, опрос продолжается до отмены контекста
func (uc *UseCase) waitForPassword(ctx context.Context, bot Bot, password string) (*tgbotapi.Message, error) {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		updates, err := bot.Updates(offset, pollTimeout)
		if err != nil {
			fmt.Fprintf(uc.out, "Error! %v\n", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.Message != nil && u.Message.Chat != nil && u.Message.Text == password {
				return u.Message, nil
			}
		}

		if len(updates) > 0 {
			offset = updates[len(updates)-1].UpdateID + 1
		}
	}
}

func (uc *UseCase) prompt(ctx context.Context) (string, error) {
	symbol := "❯ "
	if runtime.GOOS == "windows" {
		symbol = "> "
	}
	fmt.Fprint(uc.out, markup.Apply(symbol, markup.Magenta))

	return uc.readLine(ctx)
}

// readLine читает строку ввода; чтение прерывается отменой контекста
func (uc *UseCase) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		line, err := uc.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if !errors.Is(r.err, io.EOF) {
				return "", r.err
			}
			if r.line == "" {
				return "", ErrAborted
			}
		}
		return strings.TrimSpace(r.line), nil
	}
}

func randomPassword() string {
	var b strings.Builder
	for i := 0; i < passwordDigits; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}
