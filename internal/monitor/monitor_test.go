package monitor

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lion-killer/FiatLux/internal/store"
)

type mockTelegramClient struct {
	updates chan tgbotapi.Update
}

func (m *mockTelegramClient) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updates
}

func (m *mockTelegramClient) SelfUser() tgbotapi.User {
	return tgbotapi.User{UserName: "fiatlux_test_bot"}
}

var testNow = time.Date(2026, 2, 15, 12, 0, 0, 0, time.Local)

func newTestMonitor(t *testing.T, opts Options) (*Monitor, *store.Store) {
	t.Helper()

	st := store.NewWithClock(func() time.Time { return testNow })
	mon, err := NewWithTelegramClient(&mockTelegramClient{updates: make(chan tgbotapi.Update, 1)}, st, opts)
	require.NoError(t, err)
	mon.now = func() time.Time { return testNow }
	return mon, st
}

func channelPost(id int, chatID int64, username, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: id,
		Date:      int(testNow.Add(-time.Hour).Unix()),
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "channel", UserName: username},
	}
}

func TestProcessPostSavesSchedule(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelID: -100, Strict: true})

	update := tgbotapi.Update{
		ChannelPost: channelPost(421, -100, "oblenergo", "Графік на 15 лютого\n1.1: 08:00-10:00"),
	}
	mon.HandleUpdate(context.Background(), &update)

	require.Equal(t, 1, st.GetCount())
	current := st.GetCurrentSchedule()
	require.NotNil(t, current)
	assert.Equal(t, "421-2026-02-15", current.ID)
	assert.Equal(t, "-100", current.ChannelID)
}

func TestProcessPostIgnoresOtherChannels(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelID: -100})

	update := tgbotapi.Update{
		ChannelPost: channelPost(1, -200, "elsewhere", "Графік на 15 лютого\n1.1: 08:00-10:00"),
	}
	mon.HandleUpdate(context.Background(), &update)

	assert.Equal(t, 0, st.GetCount())
}

func TestProcessPostMatchesUsername(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelUsername: "@Oblenergo"})

	update := tgbotapi.Update{
		ChannelPost: channelPost(1, -300, "oblenergo", "Графік на 15 лютого\n1.1: 08:00-10:00"),
	}
	mon.HandleUpdate(context.Background(), &update)

	assert.Equal(t, 1, st.GetCount())
}

func TestProcessPostRejectsChatter(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelID: -100})

	update := tgbotapi.Update{
		ChannelPost: channelPost(2, -100, "oblenergo", "Доброго ранку! Як справи?"),
	}
	mon.HandleUpdate(context.Background(), &update)

	assert.Equal(t, 0, st.GetCount())
}

func TestEditedPostIsIdempotentUpdate(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelID: -100, Strict: true})

	original := tgbotapi.Update{
		ChannelPost: channelPost(5, -100, "oblenergo", "Графік на 15 лютого\n1.1: 08:00-10:00"),
	}
	mon.HandleUpdate(context.Background(), &original)

	edited := tgbotapi.Update{
		EditedChannelPost: channelPost(5, -100, "oblenergo", "Графік на 15 лютого\n1.1: 08:00-12:00"),
	}
	mon.HandleUpdate(context.Background(), &edited)

	require.Equal(t, 1, st.GetCount(), "edit lands on the same schedule id")
	current := st.GetCurrentSchedule()
	require.NotNil(t, current)
	assert.Equal(t, "12:00", current.Queues[0].TimeSlots[0].End)
}

func TestProcessPostUsesCaption(t *testing.T) {
	mon, st := newTestMonitor(t, Options{ChannelID: -100})

	post := channelPost(7, -100, "oblenergo", "")
	post.Caption = "Графік на 15 лютого\n1.1: 08:00-10:00"
	mon.HandleUpdate(context.Background(), &tgbotapi.Update{ChannelPost: post})

	assert.Equal(t, 1, st.GetCount())
}

func TestNewMonitorValidation(t *testing.T) {
	_, err := NewWithTelegramClient(nil, store.New(), Options{})
	assert.Error(t, err)

	_, err = NewWithTelegramClient(&mockTelegramClient{}, nil, Options{})
	assert.Error(t, err)
}
