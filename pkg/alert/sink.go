package alert

import (
	"context"
	"time"

	"logalert/internal/adapters/telegram"
)

// Sender delivers an already rendered HTML message to a chat.
type Sender interface {
	SendHTML(ctx context.Context, chatID, text string) error
}

// Sink formats records and delivers them best-effort. It holds no mutable
// state and is safe for concurrent use.
type Sink struct {
	cfg    Config
	form   *Formatter
	sender Sender
}

// Option customizes a Sink.
type Option func(*Sink)

// WithSender replaces the Telegram transport.
func WithSender(s Sender) Option {
	return func(k *Sink) { k.sender = s }
}

// WithClock sets the clock used for the message timestamp.
func WithClock(now func() time.Time) Option {
	return func(k *Sink) {
		if now != nil {
			k.form.Now = now
		}
	}
}

// New builds a Sink. When cfg is not Enabled the sink is a no-op and no
// transport is created.
func New(cfg Config, opts ...Option) *Sink {
	cfg = cfg.withDefaults()
	s := &Sink{cfg: cfg, form: NewFormatter(cfg)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sender == nil && cfg.Enabled() {
		tg, err := telegram.New(telegram.Config{Token: cfg.Token, APIURL: cfg.APIURL, Timeout: cfg.Timeout})
		if err == nil {
			s.sender = tg
		}
	}
	return s
}

// Config returns the resolved configuration.
func (s *Sink) Config() Config { return s.cfg }

// Formatter returns the formatter used to render records.
func (s *Sink) Formatter() *Formatter { return s.form }

// Enabled reports whether a record of severity sev would be delivered.
func (s *Sink) Enabled(sev Severity) bool {
	return s != nil && s.cfg.Enabled() && s.sender != nil && sev >= s.cfg.MinSeverity
}

// Handle delivers rec without request info. See HandleContext.
func (s *Sink) Handle(rec Record) {
	s.HandleContext(context.Background(), rec)
}

// HandleContext formats rec, taking server info from the RequestInfo stored
// in ctx (if any), and sends it. It always returns; every failure is dropped.
// ctx only supplies request info: delivery runs under its own timeout.
func (s *Sink) HandleContext(ctx context.Context, rec Record) {
	if !s.Enabled(rec.Severity) {
		return
	}
	// Swallow everything, including panics. Logging here could feed back into
	// the pipeline this sink is attached to.
	defer func() { _ = recover() }()

	text := s.form.Format(rec, RequestFromContext(ctx))

	sendCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	_ = s.sender.SendHTML(sendCtx, s.cfg.ChatID, text)
}
