// Package monitor polls a Telegram channel and feeds announcement posts
// through the parsing pipeline into the schedule store.
package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lion-killer/FiatLux/internal/events"
	"github.com/Lion-killer/FiatLux/internal/metrics"
	"github.com/Lion-killer/FiatLux/internal/parser"
	"github.com/Lion-killer/FiatLux/internal/store"
)

type telegramClient interface {
	GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	SelfUser() tgbotapi.User
}

type realTelegramClient struct {
	api *tgbotapi.BotAPI
}

func (c *realTelegramClient) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.api.GetUpdatesChan(cfg)
}

func (c *realTelegramClient) SelfUser() tgbotapi.User {
	return c.api.Self
}

// Options configures the channel monitor.
type Options struct {
	// ChannelID filters posts by numeric chat id; ChannelUsername by channel
	// username. When both are zero every channel post is considered.
	ChannelID       int64
	ChannelUsername string
	PollTimeout     int
	// Strict drops schedules dated outside the two-day relevance window.
	Strict bool
	// Location is the calendar the announcements live in.
	Location *time.Location
	Logger   *zerolog.Logger
	// Bus, when set, receives a TypeScheduleSaved event per saved schedule.
	Bus *events.Bus
}

// Monitor reads channel updates and saves parsed schedules.
type Monitor struct {
	tg    telegramClient
	store *store.Store
	opts  Options
	now   func() time.Time
}

// New connects to Telegram and builds a monitor.
func New(token string, debug bool, st *store.Store, opts Options) (*Monitor, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	return newMonitor(&realTelegramClient{api: api}, st, opts)
}

// NewWithTelegramClient allows injecting a mocked Telegram client for tests.
func NewWithTelegramClient(tg telegramClient, st *store.Store, opts Options) (*Monitor, error) {
	return newMonitor(tg, st, opts)
}

func newMonitor(tg telegramClient, st *store.Store, opts Options) (*Monitor, error) {
	if tg == nil {
		return nil, fmt.Errorf("telegram client is nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60
	}
	return &Monitor{
		tg:    tg,
		store: st,
		opts:  opts,
		now:   func() time.Time { return time.Now().In(opts.Location) },
	}, nil
}

// Start runs the update loop until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = m.opts.PollTimeout
	u.AllowedUpdates = []string{"channel_post", "edited_channel_post"}
	updates := m.tg.GetUpdatesChan(u)

	if m.opts.Logger != nil {
		m.opts.Logger.Info().Str("username", m.tg.SelfUser().UserName).Msg("channel monitor authorized")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			requestID := uuid.New().String()
			l := logger(m.opts.Logger).With().Str("request_id", requestID).Logger()
			m.HandleUpdate(l.WithContext(ctx), &update)
		}
	}
}

// HandleUpdate routes one Telegram update. Edited posts go through the same
// path as new ones: a re-parse of an edited announcement lands on the same
// schedule id and becomes an idempotent update in the store.
func (m *Monitor) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	switch {
	case update.ChannelPost != nil:
		m.processPost(ctx, update.ChannelPost)
	case update.EditedChannelPost != nil:
		m.processPost(ctx, update.EditedChannelPost)
	}
}

func (m *Monitor) processPost(ctx context.Context, post *tgbotapi.Message) {
	l := zerolog.Ctx(ctx)

	if post.Chat == nil || !m.watched(post.Chat) {
		return
	}

	text := post.Text
	if text == "" {
		// Photo announcements carry the schedule in the caption.
		text = post.Caption
	}
	if text == "" {
		metrics.IncMessageProcessed("empty")
		return
	}

	now := m.now()
	schedule := parser.ParseMessage(parser.Message{
		ID:       post.MessageID,
		Text:     text,
		UnixTime: int64(post.Date),
		ChatID:   strconv.FormatInt(post.Chat.ID, 10),
	}, now, m.opts.Strict)

	if schedule == nil {
		metrics.IncMessageProcessed("rejected")
		l.Debug().Int("message_id", post.MessageID).Msg("post is not a schedule")
		return
	}

	archived := m.store.SaveSchedule(schedule)
	metrics.IncMessageProcessed("parsed")
	metrics.IncScheduleSaved(string(schedule.Type))
	metrics.AddSchedulesArchived(archived)
	metrics.SetStoreSize(m.store.GetCount())

	if m.opts.Bus != nil {
		m.opts.Bus.Publish(events.Event{Type: events.TypeScheduleSaved, Payload: schedule.ID})
	}

	l.Info().
		Str("schedule_id", schedule.ID).
		Str("date", schedule.DateKey()).
		Str("type", string(schedule.Type)).
		Int("queues", len(schedule.Queues)).
		Int("archived", archived).
		Msg("schedule saved")
}

func (m *Monitor) watched(chat *tgbotapi.Chat) bool {
	if m.opts.ChannelID != 0 {
		return chat.ID == m.opts.ChannelID
	}
	if m.opts.ChannelUsername != "" {
		want := strings.TrimPrefix(m.opts.ChannelUsername, "@")
		return strings.EqualFold(chat.UserName, want)
	}
	return chat.IsChannel()
}

func logger(l *zerolog.Logger) *zerolog.Logger {
	if l != nil {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
