package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// longPollTimeout is the getUpdates timeout in seconds.
const longPollTimeout = 30

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// Updater fetches pending updates. *tgbotapi.BotAPI satisfies it.
type Updater interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

type pollConfig struct {
	baseDelay time.Duration
	maxDelay  time.Duration
	idleDelay time.Duration
	logger    *slog.Logger
}

// PollOption configures Poll.
type PollOption func(*pollConfig)

// WithBackoff bounds the delay after a failed getUpdates call.
func WithBackoff(base, limit time.Duration) PollOption {
	return func(c *pollConfig) {
		c.baseDelay = base
		c.maxDelay = limit
	}
}

// WithIdleDelay sets the pause after an empty batch.
func WithIdleDelay(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.idleDelay = d
	}
}

// WithPollLogger sets the logger for polling errors.
func WithPollLogger(logger *slog.Logger) PollOption {
	return func(c *pollConfig) {
		c.logger = logger
	}
}

// Poll long-polls updater and passes every update to handle, in order. It
// retries failed calls with a bounded delay and returns ctx.Err() once ctx is
// cancelled.
func Poll(ctx context.Context, updater Updater, handle func(context.Context, tgbotapi.Update), opts ...PollOption) error {
	cfg := pollConfig{
		baseDelay: time.Second,
		maxDelay:  15 * time.Second,
		idleDelay: 200 * time.Millisecond,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = longPollTimeout

		updates, err := updater.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), cfg.baseDelay), cfg.maxDelay)
			cfg.logger.Warn("telegram polling failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", d),
			)
			if !sleep(ctx, d) {
				return ctx.Err()
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(ctx, upd)
		}

		if len(updates) == 0 && !sleep(ctx, cfg.idleDelay) {
			return ctx.Err()
		}
	}
}

// retryDelayFromError honours Telegram's "retry after N" on 429 responses.
func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return time.Second
}

// sleep waits for d or until ctx is done, reporting whether the full delay
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
