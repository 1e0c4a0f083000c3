// Package telegram connects the bot router to the Telegram Bot API, either
// by long polling or through a webhook served by gin.
package telegram

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/apela812/server-stat-TG/internal/bot"
	"github.com/apela812/server-stat-TG/internal/logging"
	"github.com/apela812/server-stat-TG/internal/models"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// FailureText is shown when a handler could not collect server data
const FailureText = "⚠️ Не удалось получить данные сервера"

const pollTimeout = 60

// SecretHeader carries the webhook secret on every update Telegram posts
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Dispatcher turns one event into a response
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *bot.Event) (*models.Response, error)
}

// Transport receives updates and delivers responses. Each update is
// handled on its own goroutine.
type Transport struct {
	api        *tgbotapi.BotAPI
	dispatcher Dispatcher
	log        *zap.Logger
	wg         sync.WaitGroup
}

// New authorizes against the Bot API with token
func New(token string, debugMode bool, dispatcher Dispatcher, logger *zap.Logger) (*Transport, error) {
	logger = logger.Named("telegram")
	if err := tgbotapi.SetLogger(logging.NewBotLogger(logger.Named("sdk"))); err != nil {
		return nil, fmt.Errorf("failed to set bot logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	api.Debug = debugMode

	return NewWithAPI(api, dispatcher, logger), nil
}

// NewWithAPI wraps an already authorized client
func NewWithAPI(api *tgbotapi.BotAPI, dispatcher Dispatcher, logger *zap.Logger) *Transport {
	logger.Info("authorized", zap.String("account", api.Self.UserName))
	return &Transport{
		api:        api,
		dispatcher: dispatcher,
		log:        logger,
	}
}

// RunPolling long-polls for updates until ctx is done
func (t *Transport) RunPolling(ctx context.Context) error {
	// A registered webhook makes getUpdates fail
	if _, err := t.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := t.api.GetUpdatesChan(u)
	t.log.Info("polling for updates")

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.Handle(ctx, update)
		}
	}
}

// RunWebhook registers link with Telegram and blocks until ctx is done.
// Telegram echoes secret in SecretHeader; updates arrive through
// WebhookHandler.
func (t *Transport) RunWebhook(ctx context.Context, link, secret string) error {
	if _, err := url.ParseRequestURI(link); err != nil {
		return fmt.Errorf("failed to parse webhook url: %w", err)
	}
	// WebhookConfig has no secret_token field
	params := tgbotapi.Params{"url": link, "secret_token": secret}
	if _, err := t.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	t.log.Info("webhook registered", zap.String("path", WebhookPath(link)))

	<-ctx.Done()
	return nil
}

// WebhookHandler decodes an update posted by Telegram and handles it in
// the background. Requests without the matching secret are rejected.
func (t *Transport) WebhookHandler(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(SecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			t.log.Warn("rejected webhook request", zap.String("ip", c.ClientIP()))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		update, err := t.api.HandleUpdate(c.Request)
		if err != nil {
			t.log.Warn("bad webhook request", zap.Error(err))
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		t.Handle(c.Request.Context(), *update)
		c.Status(http.StatusOK)
	}
}

// WebhookPath returns the local route for a webhook URL
func WebhookPath(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// Handle dispatches one update on a new goroutine. The handler outlives
// ctx cancellation; Close waits for it.
func (t *Transport) Handle(ctx context.Context, update tgbotapi.Update) {
	ev, ok := EventFromUpdate(update, t.api.Self.UserName)
	if !ok {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.log.Error("handler panic",
					zap.Any("panic", r),
					zap.String("trigger", ev.Trigger),
					zap.ByteString("stack", debug.Stack()))
			}
		}()
		t.process(context.WithoutCancel(ctx), ev)
	}()
}

func (t *Transport) process(ctx context.Context, ev *bot.Event) {
	resp, err := t.dispatcher.Dispatch(ctx, ev)
	if err != nil {
		t.log.Error("handler failed", zap.Int64("user", ev.UserID), zap.Error(err))
		t.notifyFailure(ev)
		return
	}

	// Callback queries are always answered so the client spinner stops
	if ev.Kind == bot.Callback {
		if _, err := t.api.Request(tgbotapi.NewCallback(ev.CallbackID, "")); err != nil {
			t.log.Warn("failed to answer callback", zap.Error(err))
		}
	}

	if resp == nil {
		return
	}
	if err := t.deliver(ev, resp); err != nil {
		t.log.Error("delivery failed", zap.Int64("chat", ev.ChatID), zap.Error(err))
	}
}

func (t *Transport) deliver(ev *bot.Event, resp *models.Response) error {
	// Callbacks from inline-mode messages carry no chat
	if ev.ChatID == 0 {
		t.log.Debug("no chat to deliver to", zap.String("trigger", ev.Trigger))
		return nil
	}
	inPlace := resp.Edit && ev.MessageID != 0

	switch {
	case inPlace && resp.KeyboardOnly:
		if resp.Keyboard == nil || resp.Keyboard.Kind != models.InlineKeyboard {
			return errors.New("keyboard-only edit needs an inline keyboard")
		}
		return t.request(tgbotapi.NewEditMessageReplyMarkup(ev.ChatID, ev.MessageID, inlineMarkup(resp.Keyboard)))

	case inPlace:
		edit := tgbotapi.NewEditMessageText(ev.ChatID, ev.MessageID, resp.Text)
		edit.ParseMode = resp.ParseMode
		if resp.Keyboard != nil && resp.Keyboard.Kind == models.InlineKeyboard {
			markup := inlineMarkup(resp.Keyboard)
			edit.ReplyMarkup = &markup
		}
		return t.request(edit)

	case resp.KeyboardOnly:
		// Nothing to edit and no text to send
		return nil
	}

	msg := tgbotapi.NewMessage(ev.ChatID, resp.Text)
	msg.ParseMode = resp.ParseMode
	msg.ReplyMarkup = replyMarkup(resp.Keyboard)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// request sends an edit. Re-rendering identical content is not an error.
func (t *Transport) request(c tgbotapi.Chattable) error {
	_, err := t.api.Request(c)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (t *Transport) notifyFailure(ev *bot.Event) {
	var err error
	if ev.Kind == bot.Callback {
		_, err = t.api.Request(tgbotapi.NewCallbackWithAlert(ev.CallbackID, FailureText))
	} else {
		_, err = t.api.Send(tgbotapi.NewMessage(ev.ChatID, FailureText))
	}
	if err != nil {
		t.log.Warn("failed to send failure notice", zap.Error(err))
	}
}

// Close waits for in-flight handlers, giving up when ctx is done
func (t *Transport) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.log.Info("session closed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain handlers: %w", ctx.Err())
	}
}
