package configure

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/service/telegram"
	"github.com/m04kA/telegram-send/pkg/markup"
)

type fakeBot struct {
	updates   [][]tgbotapi.Update // ответы getUpdates по очереди
	offsets   []int
	probeErrs []error
	probes    int
	sent      []telegram.Delivery
	texts     []string
}

func (b *fakeBot) Me() (tgbotapi.User, error) {
	return tgbotapi.User{UserName: "my_bot"}, nil
}

func (b *fakeBot) Updates(offset, _ int) ([]tgbotapi.Update, error) {
	b.offsets = append(b.offsets, offset)
	if len(b.updates) == 0 {
		return nil, errors.New("no more updates")
	}
	next := b.updates[0]
	b.updates = b.updates[1:]
	return next, nil
}

func (b *fakeBot) ProbeChat(domain.Recipient) error {
	b.probes++
	if len(b.probeErrs) == 0 {
		return nil
	}
	err := b.probeErrs[0]
	b.probeErrs = b.probeErrs[1:]
	return err
}

func (b *fakeBot) Send(_ context.Context, d telegram.Delivery, msg domain.Message) ([]int, error) {
	b.sent = append(b.sent, d)
	b.texts = append(b.texts, msg.(domain.Text).Body)
	return []int{1}, nil
}

type fakeConnector struct {
	bot    *fakeBot
	tokens []string
}

func (c *fakeConnector) Connect(token string) (Bot, error) {
	c.tokens = append(c.tokens, token)
	if token != "123:good" {
		return nil, errors.New("Not Found")
	}
	return c.bot, nil
}

type fakeWriter struct {
	path     string
	settings domain.Settings
	saves    int
}

func (w *fakeWriter) Save(path string, s domain.Settings) error {
	w.path, w.settings = path, s
	w.saves++
	return nil
}

type fakeFileManager struct{ installs int }

func (f *fakeFileManager) Install() error {
	f.installs++
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}

func message(updateID int, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{FirstName: "Alice"},
		},
	}
}

func newUseCase(bot *fakeBot, input string) (*UseCase, *fakeConnector, *fakeWriter, *fakeFileManager, *bytes.Buffer) {
	connector := &fakeConnector{bot: bot}
	writer := &fakeWriter{}
	fm := &fakeFileManager{}
	out := &bytes.Buffer{}
	markup.Enabled = false

	uc := New(connector, writer, fm, nopLogger{}, strings.NewReader(input), out)
	uc.password = func() string { return "12345" }
	uc.retryDelay = time.Millisecond

	return uc, connector, writer, fm, out
}

func TestExecute_PrivateChat(t *testing.T) {
	bot := &fakeBot{updates: [][]tgbotapi.Update{
		{message(7, 99, "hello"), message(8, 99, "00000")},
		{message(9, 555, "12345")},
	}}
	uc, connector, writer, fm, out := newUseCase(bot, "bad-token\n123:good\n")

	err := uc.Execute(context.Background(), ModePrivate, "/tmp/conf")

	require.NoError(t, err)
	assert.Equal(t, []string{"bad-token", "123:good"}, connector.tokens)
	assert.Equal(t, []int{0, 9}, bot.offsets)
	assert.Equal(t, "/tmp/conf", writer.path)
	assert.Equal(t, domain.Settings{Token: "123:good", Recipient: domain.Recipient{ChatID: 555}}, writer.settings)
	assert.Equal(t, []string{"🎊 Congratulations Alice! 🎊\ntelegram-send is now ready for use!"}, bot.texts)
	assert.Equal(t, int64(555), bot.sent[0].Recipient.ChatID)
	assert.Equal(t, 1, fm.installs)

	output := out.String()
	assert.Contains(t, output, "Something went wrong, please try again.")
	assert.Contains(t, output, "Connected with my_bot.")
	assert.Contains(t, output, "send it the password: 12345")
}

func TestExecute_Group(t *testing.T) {
	bot := &fakeBot{updates: [][]tgbotapi.Update{
		{message(1, -200, "12345"), message(2, -200, "/12345@my_bot")},
	}}
	uc, _, writer, fm, out := newUseCase(bot, "123:good\n")

	err := uc.Execute(context.Background(), ModeGroup, "")

	require.NoError(t, err)
	assert.Equal(t, int64(-200), writer.settings.Recipient.ChatID)
	assert.Zero(t, fm.installs, "file manager integration only runs for the private chat flow")
	assert.Contains(t, out.String(), "send the following message to the group: /12345@my_bot")
}

func TestExecute_PollingErrorsAreReported(t *testing.T) {
	bot := &fakeBot{}
	uc, _, writer, _, out := newUseCase(bot, "123:good\n")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := uc.Execute(ctx, ModePrivate, "")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, out.String(), "Error! no more updates")
	assert.Zero(t, writer.saves)
}

func TestExecute_PublicChannel(t *testing.T) {
	forbidden := &tgbotapi.Error{Code: 403, Message: "Forbidden: bot is not a member of the channel chat"}
	bot := &fakeBot{probeErrs: []error{forbidden}}
	uc, _, writer, fm, out := newUseCase(bot, "123:good\npub\nhttps://t.me/astropod\n\n")

	err := uc.Execute(context.Background(), ModeChannel, "")

	require.NoError(t, err)
	assert.Equal(t, domain.Recipient{ChannelUsername: "@astropod"}, writer.settings.Recipient)
	assert.Equal(t, 2, bot.probes)
	assert.Zero(t, fm.installs)
	assert.Contains(t, out.String(), "Please add my_bot as administrator to your channel")
	assert.Contains(t, out.String(), "can now post to your channel!")
}

func TestExecute_PrivateChannel(t *testing.T) {
	bot := &fakeBot{}
	input := "123:good\npriv\nnot a url\nhttps://web.telegram.org/?legacy=1#/im?p=c1498081025_17886896740758033425\n"
	uc, _, writer, _, _ := newUseCase(bot, input)

	err := uc.Execute(context.Background(), ModeChannel, "")

	require.NoError(t, err)
	assert.Equal(t, domain.Recipient{ChatID: -1001498081025}, writer.settings.Recipient)
}

func TestExecute_ProbeUnexpectedError(t *testing.T) {
	bot := &fakeBot{probeErrs: []error{errors.New("connection reset")}}
	uc, _, writer, _, _ := newUseCase(bot, "123:good\npub\n@news\n")

	err := uc.Execute(context.Background(), ModeChannel, "")

	assert.EqualError(t, err, "connection reset")
	assert.Zero(t, writer.saves)
}

func TestExecute_InputClosed(t *testing.T) {
	uc, _, _, _, _ := newUseCase(&fakeBot{}, "bad-token\n")

	err := uc.Execute(context.Background(), ModePrivate, "")

	assert.ErrorIs(t, err, ErrAborted)
}

func TestNormalizeChannel(t *testing.T) {
	assert.Equal(t, "@astropod", NormalizeChannel("astropod"))
	assert.Equal(t, "@astropod", NormalizeChannel("@astropod"))
	assert.Equal(t, "@astropod", NormalizeChannel("https://t.me/astropod"))
	assert.Equal(t, "@astropod", NormalizeChannel("https://t.me/astropod/"))
}

func TestParsePrivateChannelURL(t *testing.T) {
	r, err := ParsePrivateChannelURL("https://web.tlgr.org/?legacy=1#/im?p=c42_1")
	require.NoError(t, err)
	assert.Equal(t, int64(-10042), r.ChatID)

	_, err = ParsePrivateChannelURL("https://t.me/c/42")
	assert.ErrorIs(t, err, ErrInvalidChannelURL)
}

func TestRandomPassword(t *testing.T) {
	p := randomPassword()

	assert.Len(t, p, passwordDigits)
	for _, r := range p {
		assert.True(t, r >= '0' && r <= '9')
	}
}
