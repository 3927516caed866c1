// Package telegram delivers rendered notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	Token string
	// APIURL is the Bot API base URL. Empty means telebot's default
	// (https://api.telegram.org).
	APIURL  string
	Timeout time.Duration
}

// Sender posts HTML messages with sendMessage. It never polls for updates.
type Sender struct {
	bot *tele.Bot
}

func New(cfg Config) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	// Offline skips the getMe round-trip at construction.
	b, err := tele.NewBot(tele.Settings{
		URL:     strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/"),
		Token:   strings.TrimSpace(cfg.Token),
		Client:  &http.Client{Timeout: timeout},
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	return &Sender{bot: b}, nil
}

// chatRecipient passes the destination through verbatim so both numeric ids
// and @channel usernames work.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// SendHTML sends text to chatID with parse_mode=HTML and link previews disabled.
func (s *Sender) SendHTML(ctx context.Context, chatID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.bot.Send(chatRecipient(strings.TrimSpace(chatID)), text, &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	return err
}
