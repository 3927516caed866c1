package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"logalert/internal/app"
	"logalert/pkg/alert"
	"logalert/pkg/logx"
)

type recordFlags struct {
	level     string
	message   string
	ctx       []string
	exception string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.level, "level", "l", "ERROR", "record severity (DEBUG..EMERGENCY)")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "record message")
	cmd.Flags().StringArrayVarP(&f.ctx, "ctx", "c", nil, "context entry key=value (repeatable; JSON values are decoded)")
	cmd.Flags().StringVar(&f.exception, "exception", "", "attach an error with this message under the exception key")
}

func (f *recordFlags) record() (alert.Record, error) {
	sev, err := alert.ParseSeverity(f.level)
	if err != nil {
		return alert.Record{}, err
	}
	fields, err := parseContext(f.ctx)
	if err != nil {
		return alert.Record{}, err
	}
	if f.exception != "" {
		fields = append(fields, alert.Field{Key: alert.ExceptionKey, Value: pkgerrors.New(f.exception)})
	}
	return alert.Record{Severity: sev, Message: f.message, Context: fields}, nil
}

// parseContext turns key=value pairs into ordered fields. Values that parse as
// JSON (numbers, booleans, arrays, objects) keep their structure.
func parseContext(kvs []string) (alert.Fields, error) {
	out := make(alert.Fields, 0, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --ctx %q: want key=value", kv)
		}
		out = append(out, alert.Field{Key: k, Value: contextValue(v)})
	}
	return out, nil
}

func contextValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "logalert",
		Short:         "Send log records to a Telegram chat",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "./logalert.yaml", "path to config (yaml or json)")

	load := func() (*app.App, error) { return app.NewApp(cfgPath) }

	root.AddCommand(
		newSendCmd(load),
		newPreviewCmd(load, logx.Stdout()),
		newPipeCmd(load),
	)
	return root
}

type loader func() (*app.App, error)

func newSendCmd(load loader) *cobra.Command {
	var rf recordFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Format one record and deliver it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := rf.record()
			if err != nil {
				return err
			}
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			sink := a.Sink()
			if !sink.Enabled(rec.Severity) {
				a.Logger().Warn("record not sent (sink disabled or below min level)",
					logx.String("level", rec.Severity.String()),
					logx.String("min_level", sink.Config().MinSeverity.String()))
				return nil
			}
			sink.HandleContext(cmd.Context(), rec)
			a.Logger().Info("record handed to telegram",
				logx.String("level", rec.Severity.String()),
				logx.Any("context", rec.Context))
			return nil
		},
	}
	rf.register(cmd)
	return cmd
}

func newPreviewCmd(load loader, out io.Writer) *cobra.Command {
	var rf recordFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the rendered message without sending it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := rf.record()
			if err != nil {
				return err
			}
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprintln(out, a.Sink().Formatter().Format(rec, nil))
			return err
		},
	}
	rf.register(cmd)
	return cmd
}

func newPipeCmd(load loader) *cobra.Command {
	var (
		follow    bool
		fromStart bool
	)
	cmd := &cobra.Command{
		Use:   "pipe [file]",
		Short: "Forward zerolog/JSON log lines from stdin or a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if follow && len(args) == 0 {
				return errors.New("--follow needs a file argument")
			}
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			log := a.Logger().With(logx.String("comp", "pipe"))
			w := logx.NewAlertWriter(a.Sink())
			ctx := cmd.Context()

			if follow {
				log.Info("following", logx.String("path", args[0]), logx.Bool("from_start", fromStart))
				return app.Follow(ctx, args[0], w, log, app.FollowOptions{FromStart: fromStart})
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			n, err := app.Pipe(ctx, in, w)
			log.Info("pipe finished", logx.Int("lines", n))
			return err
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep reading as the file grows (tail -F)")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "with --follow, forward existing content first")
	return cmd
}
