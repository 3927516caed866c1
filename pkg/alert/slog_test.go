package alert

import (
	"context"
	"log/slog"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFromSlog(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   slog.Level
		want Severity
	}{
		{slog.LevelDebug, SeverityDebug},
		{slog.LevelInfo, SeverityInfo},
		{slog.LevelWarn, SeverityWarning},
		{slog.LevelError, SeverityError},
		{slog.LevelError + 4, SeverityCritical},
		{slog.LevelError + 8, SeverityEmergency},
		{slog.LevelError + 100, SeverityEmergency},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFromSlog(tt.in), tt.in.String())
	}
}

func TestSlogHandlerForwards(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(enabledConfig(), WithSender(fs))
	log := slog.New(NewSlogHandler(s)).With("service", "billing").WithGroup("req")

	log.Info("not forwarded")
	assert.Zero(t, fs.count())

	err := pkgerrors.New("card declined")
	log.Error("charge failed", "amount", 12.5, slog.Group("user", "id", 7))
	slog.New(NewSlogHandler(s)).Error("boom", slog.Any(ExceptionKey, err), "retry", false)

	require.Equal(t, 2, fs.count())
	first := fs.calls[0].text
	assert.Contains(t, first, "Message:\ncharge failed")
	assert.Contains(t, first, "service: billing\n")
	assert.Contains(t, first, "req.amount: 12.5\n")
	assert.Contains(t, first, "req.user.id: 7\n")

	second := fs.calls[1].text
	assert.Contains(t, second, "<b>Exception:</b>")
	assert.Contains(t, second, "Message: card declined")
	assert.Contains(t, second, "retry: false\n")
	assert.NotContains(t, second, "exception: ")
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewSlogHandler(New(enabledConfig(), WithSender(&fakeSender{})))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	off := NewSlogHandler(New(Config{}))
	assert.False(t, off.Enabled(context.Background(), slog.LevelError+8))
}

func TestSlogHandlerCarriesRequestAndTime(t *testing.T) {
	t.Parallel()
	fs := &fakeSender{}
	s := New(enabledConfig(), WithSender(fs))
	h := NewSlogHandler(s)

	ctx := context.WithValue(context.Background(), requestCtxKey{}, &RequestInfo{Method: "PATCH"})
	r := slog.NewRecord(time.Now(), slog.LevelError, "m", 0)
	require.NoError(t, h.Handle(ctx, r))

	require.Equal(t, 1, fs.count())
	assert.Contains(t, fs.calls[0].text, "Method: PATCH")
}

func TestSlogHandlerSkipsEmptyAttrs(t *testing.T) {
	t.Parallel()
	fs := appendAttr(nil, "", slog.Attr{})
	assert.Empty(t, fs)

	fs = appendAttr(nil, "", slog.Group("", slog.Int("n", 1)))
	assert.Equal(t, Fields{{Key: "n", Value: int64(1)}}, fs)
}
