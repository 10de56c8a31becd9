package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/shared"
)

// Notifier delivers a composed digest to subscribers. Delivery failure
// is fatal for the run: the caller must not record the digest as sent.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// TelegramNotifier sends digests to a Telegram channel via the Bot API
type TelegramNotifier struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

// NewTelegramNotifier creates a notifier for the given bot token and
// chat. The chat ID may be a numeric channel ID or a negative group
// ID; @-style usernames are not accepted.
func NewTelegramNotifier(botToken, chatID string, maxRetries int, retryDelay time.Duration) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	numericChatID, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat ID %q: %w", chatID, err)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	logrus.WithFields(logrus.Fields{
		"component": "TelegramNotifier",
		"bot_user":  bot.Self.UserName,
		"chat_id":   numericChatID,
	}).Info("Telegram notifier initialized")

	return &TelegramNotifier{
		bot:        bot,
		chatID:     numericChatID,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Name identifies the sink in logs
func (n *TelegramNotifier) Name() string { return "telegram" }

// Send delivers the digest, retrying transient API failures with a
// linearly growing delay.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	logger := logrus.WithFields(logrus.Fields{
		"component": "TelegramNotifier",
		"method":    "Send",
		"chat_id":   n.chatID,
	})

	message := tgbotapi.NewMessage(n.chatID, text)

	var lastErr error
	for attempt := 1; attempt <= n.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, err := n.bot.Send(message)
		if err == nil {
			logger.WithField("attempt", attempt).Info("Digest delivered to Telegram")
			return nil
		}

		lastErr = err
		logger.WithError(err).WithField("attempt", attempt).Warn("Telegram send failed")
		if !shared.IsRetryableError(err) {
			break
		}

		if attempt < n.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return shared.WrapError(lastErr, shared.ErrorCategoryNotification, "SEND_FAILED",
		"TelegramNotifier", "Send", false)
}

// ConsoleNotifier writes digests to the log instead of a chat channel.
// Used for dry runs when telegram delivery is disabled in config.
type ConsoleNotifier struct{}

// Name identifies the sink in logs
func (ConsoleNotifier) Name() string { return "console" }

// Send logs the digest and always succeeds
func (ConsoleNotifier) Send(_ context.Context, text string) error {
	logrus.WithField("component", "ConsoleNotifier").Info("Digest (dry run):\n" + text)
	return nil
}
