package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/core/soundtrack"
)

const usageText = `Send me a song title and I'll list the films, series and novelas it appeared in.

Commands:
/find <song> - look up a song
/help - show this message`

// Sender delivers outgoing messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Finder runs a song lookup. *soundtrack.Finder satisfies it.
type Finder interface {
	Find(ctx context.Context, query string) (recovery.Result, error)
}

// Bot answers chat messages with lookup results.
type Bot struct {
	sender Sender
	finder Finder
	logger *slog.Logger
}

// NewBot creates a Bot. A nil logger falls back to slog.Default().
func NewBot(sender Sender, finder Finder, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{sender: sender, finder: finder, logger: logger}
}

// HandleUpdate processes one update. Updates without a message are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}

	if !msg.IsCommand() {
		b.lookup(ctx, msg, msg.Text)
		return
	}

	switch msg.Command() {
	case "start", "help":
		b.reply(msg, usageText)
	case "find":
		b.lookup(ctx, msg, msg.CommandArguments())
	default:
		b.reply(msg, "Unknown command. Try /help.")
	}
}

func (b *Bot) lookup(ctx context.Context, msg *tgbotapi.Message, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.reply(msg, "Usage: /find <song>")
		return
	}

	result, err := b.finder.Find(ctx, query)
	if err != nil {
		b.logger.Warn("telegram lookup failed",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		b.reply(msg, soundtrack.Message(err))
		return
	}

	b.reply(msg, FormatResult(query, result))
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	out.AllowSendingWithoutReply = true
	if _, err := b.sender.Send(out); err != nil {
		b.logger.Error("telegram send failed",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.String("error", err.Error()),
		)
	}
}
