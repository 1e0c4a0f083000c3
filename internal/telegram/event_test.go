package telegram

import (
	"testing"

	"github.com/apela812/server-stat-TG/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 5,
		From:      &tgbotapi.User{ID: 111, FirstName: "Ann"},
		Chat:      &tgbotapi.Chat{ID: 900},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestEventFromUpdateCommand(t *testing.T) {
	ev, ok := EventFromUpdate(tgbotapi.Update{Message: commandMessage("/status@stat_bot")}, "stat_bot")
	require.True(t, ok)
	assert.Equal(t, bot.Command, ev.Kind)
	assert.Equal(t, "status", ev.Trigger)
	assert.Equal(t, int64(111), ev.UserID)
	assert.Equal(t, "Ann", ev.FirstName)
	assert.Equal(t, int64(900), ev.ChatID)
}

func TestEventFromUpdateText(t *testing.T) {
	ev, ok := EventFromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "🔥 CPU",
	}}, "stat_bot")
	require.True(t, ok)
	assert.Equal(t, bot.Text, ev.Kind)
	assert.Equal(t, "🔥 CPU", ev.Trigger)
}

func TestEventFromUpdateCallback(t *testing.T) {
	ev, ok := EventFromUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: 222, FirstName: "Bob"},
		Data: "processes_cpu",
		Message: &tgbotapi.Message{
			MessageID: 77,
			Chat:      &tgbotapi.Chat{ID: 901},
		},
	}}, "stat_bot")
	require.True(t, ok)
	assert.Equal(t, &bot.Event{
		Kind:       bot.Callback,
		Trigger:    "processes_cpu",
		UserID:     222,
		FirstName:  "Bob",
		ChatID:     901,
		MessageID:  77,
		CallbackID: "cb-1",
	}, ev)
}

func TestEventFromUpdateSkipsUnroutable(t *testing.T) {
	updates := []tgbotapi.Update{
		{},
		{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "no sender"}},
		{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}}},
		{CallbackQuery: &tgbotapi.CallbackQuery{ID: "x", Data: "refresh"}},
	}
	for i, u := range updates {
		_, ok := EventFromUpdate(u, "stat_bot")
		assert.False(t, ok, "update %d", i)
	}
}

func TestEventFromUpdateCommandMention(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"/status", true},
		{"/status@stat_bot", true},
		{"/status@Stat_Bot", true},
		{"/status@some_other_bot", false},
	}
	for _, tt := range tests {
		_, ok := EventFromUpdate(tgbotapi.Update{Message: commandMessage(tt.text)}, "stat_bot")
		assert.Equal(t, tt.want, ok, tt.text)
	}
}
