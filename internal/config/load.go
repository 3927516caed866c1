package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"logalert/pkg/alert"
	"logalert/pkg/logx"
)

const defaultMinLevel = "ERROR"

// Load reads path (JSON, or YAML when the extension is .yaml/.yml), expands
// ${VAR} references from the environment and decodes it strictly.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, b)
}

// Parse decodes data as if it had been read from path.
func Parse(path string, data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	jb, format, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s config: %w", format, err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// SinkConfig resolves the alert.Config for this file.
func (c *Config) SinkConfig() (alert.Config, error) {
	minRaw := strings.TrimSpace(c.Alert.MinLevel)
	if minRaw == "" {
		minRaw = defaultMinLevel
	}
	minSev, err := alert.ParseSeverity(minRaw)
	if err != nil {
		return alert.Config{}, fmt.Errorf("alert.min_level: %w", err)
	}
	timeout, err := ParseDurationOrDefault("telegram.timeout", c.Telegram.Timeout, alert.DefaultTimeout)
	if err != nil {
		return alert.Config{}, err
	}
	return alert.Config{
		Token:         strings.TrimSpace(c.Telegram.Token),
		ChatID:        strings.TrimSpace(string(c.Telegram.ChatID)),
		AppName:       c.App.Name,
		Environment:   c.App.Env,
		MinSeverity:   minSev,
		UseRecordTime: c.Alert.UseRecordTime,
		Timeout:       timeout,
		APIURL:        strings.TrimSpace(c.Telegram.APIURL),
	}, nil
}

// LogConfig maps the logging block onto logx.Config.
func (c *Config) LogConfig() logx.Config {
	return logx.Config{
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File:    logx.FileConfig{Enabled: c.Logging.File.Enabled, Path: c.Logging.File.Path},
	}
}
