package telegram

import (
	"strings"

	"github.com/apela812/server-stat-TG/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EventFromUpdate converts an update into a router event. Updates without
// a sender or routable content are skipped, as are commands addressed to
// a bot other than botName.
func EventFromUpdate(u tgbotapi.Update, botName string) (*bot.Event, bool) {
	if cq := u.CallbackQuery; cq != nil {
		if cq.From == nil {
			return nil, false
		}
		ev := &bot.Event{
			Kind:       bot.Callback,
			Trigger:    cq.Data,
			UserID:     cq.From.ID,
			FirstName:  cq.From.FirstName,
			CallbackID: cq.ID,
		}
		if cq.Message != nil {
			ev.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				ev.ChatID = cq.Message.Chat.ID
			}
		}
		return ev, true
	}

	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil, false
	}

	ev := &bot.Event{
		UserID:    msg.From.ID,
		FirstName: msg.From.FirstName,
		ChatID:    msg.Chat.ID,
	}
	switch {
	case msg.IsCommand():
		if !addressedTo(msg.CommandWithAt(), botName) {
			return nil, false
		}
		ev.Kind = bot.Command
		ev.Trigger = msg.Command()
	case msg.Text != "":
		ev.Kind = bot.Text
		ev.Trigger = msg.Text
	default:
		return nil, false
	}
	return ev, true
}

// addressedTo reports whether a "cmd@name" command is meant for botName.
// Commands without a mention are meant for every bot.
func addressedTo(command, botName string) bool {
	_, mention, ok := strings.Cut(command, "@")
	return !ok || strings.EqualFold(mention, botName)
}
