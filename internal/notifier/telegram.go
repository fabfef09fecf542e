package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tele "gopkg.in/telebot.v3"

	"PortfolioSentinel/internal/common"
)

// DefaultRetries is how many times a failed message is retried.
const DefaultRetries = 3

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// NewBot creates a long-polling Telegram bot with optional proxy support.
// offline skips the getMe call, for tests and dry runs.
func NewBot(token, proxyURL string, offline bool) (*tele.Bot, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		Client:  &http.Client{Timeout: 30 * time.Second, Transport: transport},
		Offline: offline,
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// TelegramNotifier pushes messages and charts to one chat.
type TelegramNotifier struct {
	sender  messageSender
	chat    tele.Recipient
	logger  *common.Logger
	backoff func(attempt int) time.Duration
}

// NewTelegramNotifier creates a notifier sending to chatID through sender
// (usually a *tele.Bot).
func NewTelegramNotifier(sender messageSender, chatID int64, logger *common.Logger) *TelegramNotifier {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &TelegramNotifier{
		sender: sender,
		chat:   tele.ChatID(chatID),
		logger: logger,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
	}
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	if _, err := t.sender.Send(t.chat, text, tele.ModeHTML, tele.NoPreview); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendPhoto sends a PNG image with a caption.
func (t *TelegramNotifier) SendPhoto(png []byte, caption string) error {
	photo := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(png)),
		Caption: caption,
	}
	if _, err := t.sender.Send(t.chat, photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry. Long texts
// are split into several messages.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := t.retry(ctx, maxRetries, func() error { return t.Send(chunk) }); err != nil {
			return err
		}
	}
	return nil
}

// SendPhotoWithRetry is SendPhoto with the same retry policy as SendWithRetry.
func (t *TelegramNotifier) SendPhotoWithRetry(ctx context.Context, png []byte, caption string, maxRetries int) error {
	return t.retry(ctx, maxRetries, func() error { return t.SendPhoto(png, caption) })
}

func (t *TelegramNotifier) retry(ctx context.Context, maxRetries int, send func() error) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := send()
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.backoff(i)
		t.logger.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries+1).Dur("backoff", backoff).Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
