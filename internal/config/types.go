package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Config is the on-disk configuration of the logalert CLI.
//
// Example (YAML):
//
//	app: {name: Shop, env: prod}
//	telegram:
//	  token: ${TELEGRAM_BOT_TOKEN}
//	  chat_id: "-1001234567890"
//	alert: {min_level: error}
//	logging: {level: info, console: true}
type Config struct {
	App      AppConfig      `json:"app"`
	Telegram TelegramConfig `json:"telegram"`
	Alert    AlertConfig    `json:"alert"`
	Logging  LoggingConfig  `json:"logging"`
}

type AppConfig struct {
	Name string `json:"name"`
	Env  string `json:"env"`
}

// TelegramConfig holds the delivery endpoint. Leaving token or chat_id empty
// turns alerting into a silent no-op.
type TelegramConfig struct {
	Token  string `json:"token"` // do not log
	ChatID ChatID `json:"chat_id"`
	// APIURL overrides https://api.telegram.org (self-hosted Bot API server).
	APIURL string `json:"api_url,omitempty"`
	// Timeout is a Go duration string (e.g. "5s"). Default: 5s.
	Timeout string `json:"timeout,omitempty"`
}

type AlertConfig struct {
	// MinLevel is the lowest severity that is delivered. Default: ERROR.
	MinLevel string `json:"min_level"`
	// UseRecordTime prints the time the record was emitted rather than the
	// time it was formatted.
	UseRecordTime bool `json:"use_record_time,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// ChatID accepts a JSON string or number. Telegram chat ids are often
// written unquoted in YAML (-1001234567890) and usernames as "@channel".
type ChatID string

func (c *ChatID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ChatID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("chat_id: want string or number: %w", err)
	}
	*c = ChatID(n.String())
	return nil
}
