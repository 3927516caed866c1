package alert

import (
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the public Telegram Bot API endpoint.
	DefaultAPIURL = "https://api.telegram.org"
	// DefaultTimeout bounds a single delivery call.
	DefaultTimeout = 5 * time.Second
)

// Config is resolved once when the sink is built.
type Config struct {
	// Token is the bot token used in the sendMessage URL.
	Token string
	// ChatID is the destination chat: a numeric id or an @channel name.
	ChatID string

	AppName     string
	Environment string

	MinSeverity Severity

	// UseRecordTime prints the record's emission time instead of the time
	// the message was formatted.
	UseRecordTime bool

	// Timeout bounds delivery. Zero means DefaultTimeout.
	Timeout time.Duration
	// APIURL overrides DefaultAPIURL.
	APIURL string
}

// Enabled reports whether both the token and the destination are set.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.ChatID) != ""
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return c
}
