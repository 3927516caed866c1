package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logalert/pkg/alert"
	"logalert/pkg/render"
)

type captureSender struct {
	mu    sync.Mutex
	texts []string
}

func (c *captureSender) SendHTML(ctx context.Context, chatID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = append(c.texts, text)
	return nil
}

func (c *captureSender) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

func newTestSink(min alert.Severity) (*alert.Sink, *captureSender) {
	cs := &captureSender{}
	s := alert.New(alert.Config{
		Token: "t", ChatID: "1", AppName: "Shop", Environment: "test", MinSeverity: min,
	}, alert.WithSender(cs))
	return s, cs
}

func TestDecodeLineKeepsFieldOrder(t *testing.T) {
	t.Parallel()
	line := []byte(`{"level":"error","zeta":1,"time":"2026-01-02T03:04:05.000Z","alpha":"a","message":"DB down","nested":{"b":2,"a":1}}` + "\n")

	rec, ok := DecodeLine(line)
	require.True(t, ok)
	assert.Equal(t, alert.SeverityError, rec.Severity)
	assert.Equal(t, "DB down", rec.Message)
	assert.False(t, rec.Time.IsZero())
	require.Len(t, rec.Context, 3)
	assert.Equal(t, "zeta", rec.Context[0].Key)
	assert.Equal(t, json.Number("1"), rec.Context[0].Value)
	assert.Equal(t, "alpha", rec.Context[1].Key)
	assert.Equal(t, "nested", rec.Context[2].Key)
}

func TestDecodeLineKeepsNestedOrder(t *testing.T) {
	t.Parallel()
	rec, ok := DecodeLine([]byte(`{"level":"error","req":{"zeta":1,"alpha":{"y":"<b>","x":[{"k2":true,"k1":null}]}},"message":"m"}`))
	require.True(t, ok)
	require.Len(t, rec.Context, 1)

	req, ok := rec.Context[0].Value.(alert.Fields)
	require.True(t, ok, "nested object decodes as alert.Fields, got %T", rec.Context[0].Value)
	assert.Equal(t, "zeta", req[0].Key)
	assert.Equal(t, "alpha", req[1].Key)

	want := "{\n" +
		"    \"zeta\": 1,\n" +
		"    \"alpha\": {\n" +
		"        \"y\": \"<b>\",\n" +
		"        \"x\": [\n" +
		"            {\n" +
		"                \"k2\": true,\n" +
		"                \"k1\": null\n" +
		"            }\n" +
		"        ]\n" +
		"    }\n" +
		"}"
	assert.Equal(t, want, render.Value(req))
}

func TestAlertWriterRendersNestedObjectsInOrder(t *testing.T) {
	t.Parallel()
	sink, cs := newTestSink(alert.SeverityError)
	w := NewAlertWriter(sink)

	_, err := w.WriteLevel(zerolog.ErrorLevel, []byte(`{"level":"error","req":{"zeta":1,"alpha":2},"message":"m"}`))
	require.NoError(t, err)

	texts := cs.all()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "req: {\n    &#34;zeta&#34;: 1,\n    &#34;alpha&#34;: 2\n}\n")
}

func TestDecodeLineNonJSON(t *testing.T) {
	t.Parallel()
	rec, ok := DecodeLine([]byte("  plain text line \n"))
	require.True(t, ok)
	assert.Equal(t, "plain text line", rec.Message)
	assert.Equal(t, alert.SeverityInfo, rec.Severity)

	rec, ok = DecodeLine([]byte(`[1,2]`))
	require.True(t, ok)
	assert.Equal(t, "[1,2]", rec.Message)

	_, ok = DecodeLine([]byte("   \n"))
	assert.False(t, ok)
}

func TestSeverityFromZerolog(t *testing.T) {
	t.Parallel()
	tests := map[zerolog.Level]alert.Severity{
		zerolog.TraceLevel: alert.SeverityDebug,
		zerolog.DebugLevel: alert.SeverityDebug,
		zerolog.InfoLevel:  alert.SeverityInfo,
		zerolog.WarnLevel:  alert.SeverityWarning,
		zerolog.ErrorLevel: alert.SeverityError,
		zerolog.FatalLevel: alert.SeverityCritical,
		zerolog.PanicLevel: alert.SeverityEmergency,
	}
	for in, want := range tests {
		assert.Equal(t, want, SeverityFromZerolog(in), in.String())
	}
}

func TestAlertWriterThroughZerolog(t *testing.T) {
	t.Parallel()
	sink, cs := newTestSink(alert.SeverityError)
	zl := zerolog.New(NewAlertWriter(sink))

	zl.Warn().Msg("below threshold")
	zl.Error().Int("user_id", 42).Str("route", "/pay").Msg("DB down")

	texts := cs.all()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "❌ Shop Error (test)")
	assert.Contains(t, texts[0], "Level: ERROR")
	assert.Contains(t, texts[0], "Message:\nDB down")
	assert.Contains(t, texts[0], "user_id: 42\nroute: /pay\n")
	assert.NotContains(t, texts[0], "level: ")
}

func TestAlertWriterPlainWrite(t *testing.T) {
	t.Parallel()
	sink, cs := newTestSink(alert.SeverityWarning)
	w := NewAlertWriter(sink)

	n, err := w.Write([]byte(`{"level":"warn","message":"disk 91%"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"level":"warn","message":"disk 91%"}`), n)

	_, _ = w.Write([]byte(`{"level":"info","message":"fine"}`))
	_, _ = w.Write([]byte("not json at all"))

	texts := cs.all()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "⚡ Shop Error (test)")
}

// Not parallel: New sets zerolog globals.
func TestServiceWiresAlertWriter(t *testing.T) {
	sink, cs := newTestSink(alert.SeverityError)
	svc, log := New(Config{Level: "debug"}, sink)
	t.Cleanup(func() { _ = svc.Close() })

	log.With(String("component", "billing")).Error("charge failed", Int("attempt", 2))
	log.Info("started")

	texts := cs.all()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "component: billing\n")
	assert.Contains(t, texts[0], "attempt: 2\n")
	assert.Contains(t, texts[0], "caller: alert_writer_test.go:")
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	var zero Logger
	assert.True(t, zero.IsZero())
	assert.NotPanics(t, func() {
		zero.Error("dropped")
		Nop().Info("dropped")
	})
	assert.False(t, Nop().IsZero())
}

func TestFieldHelpersWriteJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Logger{base: zerolog.New(&buf), hasBase: true}

	log.Info("sent",
		Any("context", alert.Ctx("zeta", 1, "alpha", "a")),
		Bool("ok", true),
		Err(errors.New("boom")),
		Err(nil),
	)

	line := buf.String()
	assert.Contains(t, line, `"context":{"zeta":1,"alpha":"a"}`)
	assert.Contains(t, line, `"ok":true`)
	assert.Contains(t, line, `"message":"sent"`)
	assert.Equal(t, 1, strings.Count(line, `boom`))
}
