package alert

import (
	"context"
	"log/slog"
)

// SlogHandler adapts a Sink to log/slog.
type SlogHandler struct {
	sink   *Sink
	attrs  Fields
	prefix string
}

var _ slog.Handler = (*SlogHandler)(nil)

func NewSlogHandler(s *Sink) *SlogHandler {
	return &SlogHandler{sink: s}
}

// SeverityFromSlog maps slog levels onto the severity scale. Levels above
// ERROR step up every 4 (slog's spacing): ERROR+4 is CRITICAL, ERROR+8 and
// beyond EMERGENCY.
func SeverityFromSlog(l slog.Level) Severity {
	switch {
	case l < slog.LevelInfo:
		return SeverityDebug
	case l < slog.LevelWarn:
		return SeverityInfo
	case l < slog.LevelError:
		return SeverityWarning
	case l < slog.LevelError+4:
		return SeverityError
	case l < slog.LevelError+8:
		return SeverityCritical
	default:
		return SeverityEmergency
	}
}

func (h *SlogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.sink.Enabled(SeverityFromSlog(l))
}

func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := Record{
		Severity: SeverityFromSlog(r.Level),
		Message:  r.Message,
		Time:     r.Time,
	}
	if n := len(h.attrs) + r.NumAttrs(); n > 0 {
		rec.Context = make(Fields, 0, n)
		rec.Context = append(rec.Context, h.attrs...)
		r.Attrs(func(a slog.Attr) bool {
			rec.Context = appendAttr(rec.Context, h.prefix, a)
			return true
		})
	}
	h.sink.HandleContext(ctx, rec)
	return nil
}

func (h *SlogHandler) WithAttrs(as []slog.Attr) slog.Handler {
	if len(as) == 0 {
		return h
	}
	cp := *h
	cp.attrs = append(Fields(nil), h.attrs...)
	for _, a := range as {
		cp.attrs = appendAttr(cp.attrs, h.prefix, a)
	}
	return &cp
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix = h.prefix + name + "."
	return &cp
}

func appendAttr(fs Fields, prefix string, a slog.Attr) Fields {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fs
	}
	v := a.Value
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			fs = appendAttr(fs, p, ga)
		}
		return fs
	}
	return append(fs, Field{Key: prefix + a.Key, Value: slogValue(v)})
}

func slogValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration()
	case slog.KindTime:
		return v.Time()
	default:
		return v.Any()
	}
}
