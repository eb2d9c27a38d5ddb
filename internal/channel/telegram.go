package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sheetbot/internal/bot"
	"sheetbot/internal/config"
)

// telegramMessageLimit is the Telegram API cap on a single message.
const telegramMessageLimit = 4096

// Telegram polls the Telegram bot API and answers messages with the same
// pipeline as the webhook channel.
type Telegram struct {
	api       *tgbotapi.BotAPI
	responder *bot.Responder
	logger    *slog.Logger
	allowFrom map[int64]bool // empty = allow everyone
}

type TelegramOptions struct {
	Config    config.TelegramConfig
	Responder *bot.Responder
	Logger    *slog.Logger
}

func NewTelegram(opts TelegramOptions) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(opts.Config.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}

	allow := make(map[int64]bool, len(opts.Config.AllowFrom))
	for _, raw := range opts.Config.AllowFrom {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram allowFrom entry %q is not a user id: %w", raw, err)
		}
		allow[id] = true
	}

	return &Telegram{
		api:       api,
		responder: opts.Responder,
		logger:    opts.Logger,
		allowFrom: allow,
	}, nil
}

// Start long-polls for updates until ctx is cancelled.
func (t *Telegram) Start(ctx context.Context) error {
	t.logger.Info("telegram channel connected", "bot", t.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *Telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if len(t.allowFrom) > 0 {
		if msg.From == nil || !t.allowFrom[msg.From.ID] {
			t.logger.Warn("ignoring message from unauthorized sender", "chat_id", msg.Chat.ID)
			return
		}
	}

	var reply string
	switch msg.Command() {
	case "start", "help":
		reply = bot.HelpMessage()
	default:
		reply = t.responder.Respond(ctx, "telegram", msg.Text)
	}

	t.send(msg.Chat.ID, reply)
}

// send delivers reply text, splitting anything over the API message cap.
func (t *Telegram) send(chatID int64, text string) {
	for _, chunk := range splitMessage(text, telegramMessageLimit) {
		out := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.api.Send(out); err != nil {
			t.logger.Error("telegram send failed", "chat_id", chatID, "err", err)
			return
		}
	}
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		chunks = append(chunks, text[:limit])
		text = text[limit:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
