// Package app wires configuration, logging and the alert sink for the
// logalert command.
package app

import (
	"fmt"

	"logalert/internal/config"
	"logalert/pkg/alert"
	"logalert/pkg/logx"
)

type App struct {
	cfg  *config.Config
	sink *alert.Sink

	log  logx.Logger
	logs *logx.Service
}

// NewApp loads cfgPath and builds the sink and loggers.
func NewApp(cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", cfgPath, err)
	}
	return New(cfg)
}

// New builds an App from an already loaded config. opts are passed to alert.New.
func New(cfg *config.Config, opts ...alert.Option) (*App, error) {
	sc, err := cfg.SinkConfig()
	if err != nil {
		return nil, err
	}
	sink := alert.New(sc, opts...)

	// The app logger only writes locally. Records are sent to Telegram
	// explicitly (send/pipe), never as a side effect of the CLI's own logs.
	logSvc, log := logx.New(cfg.LogConfig(), nil)
	log = log.With(logx.String("comp", "app"))

	if !sc.Enabled() {
		log.Warn("telegram token or chat_id not set; alerts are disabled")
	} else {
		log.Debug("alert sink ready",
			logx.String("chat_id", sc.ChatID),
			logx.String("min_level", sc.MinSeverity.String()),
			logx.Duration("timeout", sink.Config().Timeout),
			logx.String("api_url", sink.Config().APIURL),
		)
	}

	return &App{cfg: cfg, sink: sink, log: log, logs: logSvc}, nil
}

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Sink() *alert.Sink { return a.sink }

func (a *App) Logger() logx.Logger { return a.log }

func (a *App) Close() error {
	if a.logs == nil {
		return nil
	}
	return a.logs.Close()
}
