package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/telegram-send/internal/domain"
	"github.com/m04kA/telegram-send/internal/segment"
)

type fakeBot struct {
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	nextID    int
	failAt    int // номер вызова Send (с 1), который вернет sendErr
	sendErr   error
	requestFn func(c tgbotapi.Chattable) error
	me        tgbotapi.User
	updates   []tgbotapi.Update
	updateCfg tgbotapi.UpdateConfig
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	if b.failAt == len(b.sent) {
		return tgbotapi.Message{}, b.sendErr
	}
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	if b.requestFn != nil {
		if err := b.requestFn(c); err != nil {
			return nil, err
		}
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetMe() (tgbotapi.User, error) {
	return b.me, nil
}

func (b *fakeBot) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	b.updateCfg = cfg
	return b.updates, nil
}

type fakeLogger struct {
	warnings []string
}

func (l *fakeLogger) Debug(string, ...interface{}) {}
func (l *fakeLogger) Info(string, ...interface{}) {}
func (l *fakeLogger) Error(string, ...interface{}) {}
func (l *fakeLogger) Warn(format string, v ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

type fakeMetrics struct {
	kinds    []string
	segments int
	deletes  int
}

func (m *fakeMetrics) ObserveMessage(kind string, _ error) { m.kinds = append(m.kinds, kind) }
func (m *fakeMetrics) ObserveSegments(n int) { m.segments += n }
func (m *fakeMetrics) ObserveDelete(error) { m.deletes++ }
func (m *fakeMetrics) ObserveRequest(string, time.Time) {}

func newTestService(t *testing.T, bot *fakeBot, limit int) (*Service, *fakeLogger) {
	t.Helper()
	splitter, err := segment.NewSplitter(limit)
	require.NoError(t, err)
	log := &fakeLogger{}
	return NewService(bot, splitter, log), log
}

var chat = Delivery{Recipient: domain.Recipient{ChatID: 42}}

func TestSend_Text(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	d := chat
	d.ReplyToMessageID = 7
	d.Options = domain.SendOptions{Format: domain.FormatMarkdown, Silent: true, DisableWebPagePreview: true}

	ids, err := svc.Send(context.Background(), d, domain.Text{Body: "*hi*"})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)
	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "*hi*", msg.Text)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Equal(t, 7, msg.ReplyToMessageID)
	assert.True(t, msg.DisableNotification)
	assert.True(t, msg.DisableWebPagePreview)
}

func TestSend_EmptyTextIsNoop(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	ids, err := svc.Send(context.Background(), chat, domain.Text{})

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, bot.sent)
}

func TestSend_PreEscapesEverySegment(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, 6)

	d := chat
	d.Options = domain.SendOptions{Format: domain.FormatText, Pre: true}

	_, err := svc.Send(context.Background(), d, domain.Text{Body: "a<b>c\nd&e"})

	require.NoError(t, err)
	require.Len(t, bot.sent, 2)
	first := bot.sent[0].(tgbotapi.MessageConfig)
	second := bot.sent[1].(tgbotapi.MessageConfig)
	assert.Equal(t, "<pre>a&lt;b&gt;c</pre>", first.Text)
	assert.Equal(t, "<pre>d&amp;e</pre>", second.Text)
	assert.Equal(t, tgbotapi.ModeHTML, first.ParseMode)
}

func TestSend_LongTextIsSplit(t *testing.T) {
	bot := &fakeBot{}
	svc, log := newTestService(t, bot, segment.TelegramTextLimit)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)

	body := strings.Repeat("a", 5000)
	ids, err := svc.Send(context.Background(), chat, domain.Text{Body: body})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
	require.Len(t, bot.sent, 2)
	assert.Len(t, bot.sent[0].(tgbotapi.MessageConfig).Text, 4096)
	assert.Len(t, bot.sent[1].(tgbotapi.MessageConfig).Text, 904)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "MAX_MESSAGE_LENGTH=4096")
	assert.Equal(t, 2, metrics.segments)
}

func TestSend_TextAtLimitIsNotSplit(t *testing.T) {
	bot := &fakeBot{}
	svc, log := newTestService(t, bot, segment.TelegramTextLimit)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)

	ids, err := svc.Send(context.Background(), chat, domain.Text{Body: strings.Repeat("я", segment.TelegramTextLimit)})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)
	assert.Empty(t, log.warnings)
	assert.Zero(t, metrics.segments)
}

func TestSend_SegmentFailureStopsDelivery(t *testing.T) {
	cause := errors.New("Bad Request: message is too long")
	bot := &fakeBot{failAt: 2, sendErr: cause}
	svc, _ := newTestService(t, bot, 4)

	ids, err := svc.Send(context.Background(), chat, domain.Text{Body: "aaa\nbbb\nccc"})

	require.Error(t, err)
	var delivery *DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.Equal(t, 2, delivery.Segment)
	assert.Equal(t, 3, delivery.Total)
	assert.Equal(t, 1, delivery.Delivered)
	assert.ErrorIs(t, err, ErrSendMessage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []int{1}, ids)
	assert.Len(t, bot.sent, 2, "remaining segments must not be sent")
}

func TestSend_SingleTextFailureIsNotDeliveryError(t *testing.T) {
	bot := &fakeBot{failAt: 1, sendErr: errors.New("boom")}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	_, err := svc.Send(context.Background(), chat, domain.Text{Body: "hi"})

	require.ErrorIs(t, err, ErrSendMessage)
	var delivery *DeliveryError
	assert.False(t, errors.As(err, &delivery))
}

func TestSend_Dispatch(t *testing.T) {
	attachment := domain.Attachment{Path: "/tmp/f", Caption: "cap"}

	tests := []struct {
		name  string
		msg   domain.Message
		check func(t *testing.T, c tgbotapi.Chattable)
	}{
		{"document", domain.Document{Attachment: attachment}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.DocumentConfig)
			require.True(t, ok)
			assert.Equal(t, tgbotapi.FilePath("/tmp/f"), cfg.File)
			assert.Equal(t, "cap", cfg.Caption)
			assert.Equal(t, tgbotapi.ModeHTML, cfg.ParseMode)
		}},
		{"photo", domain.Photo{Attachment: attachment}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.PhotoConfig)
			require.True(t, ok)
			assert.Equal(t, "cap", cfg.Caption)
		}},
		{"sticker", domain.Sticker{Path: "/tmp/s.webp"}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.StickerConfig)
			require.True(t, ok)
			assert.Equal(t, tgbotapi.FilePath("/tmp/s.webp"), cfg.File)
		}},
		{"animation", domain.Animation{Attachment: attachment}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.AnimationConfig)
			require.True(t, ok)
			assert.Equal(t, "cap", cfg.Caption)
		}},
		{"video", domain.Video{Attachment: attachment}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.VideoConfig)
			require.True(t, ok)
			assert.True(t, cfg.SupportsStreaming)
			assert.Equal(t, "cap", cfg.Caption)
		}},
		{"audio", domain.Audio{Attachment: attachment}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.AudioConfig)
			require.True(t, ok)
			assert.Equal(t, "cap", cfg.Caption)
		}},
		{"location", domain.Location{Latitude: 52.37, Longitude: 4.89}, func(t *testing.T, c tgbotapi.Chattable) {
			cfg, ok := c.(tgbotapi.LocationConfig)
			require.True(t, ok)
			assert.InDelta(t, 52.37, cfg.Latitude, 1e-9)
			assert.InDelta(t, 4.89, cfg.Longitude, 1e-9)
			assert.Equal(t, int64(42), cfg.ChatID)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			svc, _ := newTestService(t, bot, segment.TelegramTextLimit)
			metrics := &fakeMetrics{}
			svc.SetMetrics(metrics)

			d := chat
			d.Options = domain.SendOptions{Format: domain.FormatHTML}

			ids, err := svc.Send(context.Background(), d, tt.msg)

			require.NoError(t, err)
			assert.Equal(t, []int{1}, ids)
			require.Len(t, bot.sent, 1)
			tt.check(t, bot.sent[0])
			assert.Equal(t, []string{tt.name}, metrics.kinds)
		})
	}
}

func TestSend_NoCaptionNoParseMode(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	d := chat
	d.Options = domain.SendOptions{Format: domain.FormatHTML}

	_, err := svc.Send(context.Background(), d, domain.Photo{Attachment: domain.Attachment{Path: "/tmp/p.png"}})

	require.NoError(t, err)
	cfg := bot.sent[0].(tgbotapi.PhotoConfig)
	assert.Empty(t, cfg.Caption)
	assert.Empty(t, cfg.ParseMode)
}

func TestSend_ChannelUsername(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	d := Delivery{Recipient: domain.Recipient{ChannelUsername: "@news"}}
	_, err := svc.Send(context.Background(), d, domain.Text{Body: "hi"})

	require.NoError(t, err)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, "@news", msg.ChannelUsername)
	assert.Zero(t, msg.ChatID)
}

func TestSend_InvalidRecipient(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	_, err := svc.Send(context.Background(), Delivery{}, domain.Text{Body: "hi"})

	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Empty(t, bot.sent)
}

func TestSend_CancelledContext(t *testing.T) {
	bot := &fakeBot{}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Send(ctx, chat, domain.Location{Latitude: 1, Longitude: 2})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrSendLocation)
	assert.Empty(t, bot.sent)
}

func TestDelete_ContinuesAfterFailure(t *testing.T) {
	bot := &fakeBot{requestFn: func(c tgbotapi.Chattable) error {
		if c.(tgbotapi.DeleteMessageConfig).MessageID == 2 {
			return &tgbotapi.Error{Code: 400, Message: "Bad Request: message to delete not found"}
		}
		return nil
	}}
	svc, log := newTestService(t, bot, segment.TelegramTextLimit)
	metrics := &fakeMetrics{}
	svc.SetMetrics(metrics)

	deleted := svc.Delete(context.Background(), domain.Recipient{ChatID: 42}, []int{1, 2, 3})

	assert.Equal(t, 2, deleted)
	assert.Len(t, bot.requests, 3)
	assert.Equal(t, 3, metrics.deletes)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "id=2")
}

func TestProbeChat(t *testing.T) {
	forbidden := &tgbotapi.Error{Code: 403, Message: "Forbidden: bot is not a member of the channel chat"}
	bot := &fakeBot{requestFn: func(tgbotapi.Chattable) error { return forbidden }}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	err := svc.ProbeChat(domain.Recipient{ChannelUsername: "@news"})

	require.ErrorIs(t, err, ErrChatAction)
	assert.True(t, IsForbidden(err))
	action, ok := bot.requests[0].(tgbotapi.ChatActionConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.ChatTyping, action.Action)
	assert.Equal(t, "@news", action.ChannelUsername)
}

func TestUpdates_PassesOffsetAndTimeout(t *testing.T) {
	bot := &fakeBot{updates: []tgbotapi.Update{{UpdateID: 10}}}
	svc, _ := newTestService(t, bot, segment.TelegramTextLimit)

	updates, err := svc.Updates(9, 10)

	require.NoError(t, err)
	assert.Len(t, updates, 1)
	assert.Equal(t, 9, bot.updateCfg.Offset)
	assert.Equal(t, 10, bot.updateCfg.Timeout)
}

func TestErrorClassifiers(t *testing.T) {
	timeout := fmt.Errorf("%w: %w", ErrSendMessage, &net.DNSError{IsTimeout: true})
	assert.True(t, IsTimeout(timeout))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(errors.New("boom")))

	assert.True(t, IsForbidden(&tgbotapi.Error{Code: 400}))
	assert.False(t, IsForbidden(&tgbotapi.Error{Code: 429}))
	assert.False(t, IsForbidden(errors.New("boom")))
}
