package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"logalert/pkg/alert"
)

// AlertWriter is a zerolog.LevelWriter that forwards JSON log lines to an
// alert.Sink. It always reports the full write as successful so a broken
// notification channel never disturbs the other zerolog outputs.
type AlertWriter struct{ sink *alert.Sink }

var _ zerolog.LevelWriter = (*AlertWriter)(nil)

func NewAlertWriter(sink *alert.Sink) *AlertWriter { return &AlertWriter{sink: sink} }

func (w *AlertWriter) Write(p []byte) (int, error) {
	rec, ok := DecodeLine(p)
	if ok && w.sink != nil {
		w.sink.Handle(rec)
	}
	return len(p), nil
}

func (w *AlertWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level == zerolog.NoLevel {
		return w.Write(p)
	}
	sev := SeverityFromZerolog(level)
	if !w.sink.Enabled(sev) {
		return len(p), nil
	}
	rec, ok := DecodeLine(p)
	if !ok {
		return len(p), nil
	}
	rec.Severity = sev
	w.sink.Handle(rec)
	return len(p), nil
}

// SeverityFromZerolog maps zerolog levels onto the alert severity scale.
func SeverityFromZerolog(l zerolog.Level) alert.Severity {
	switch l {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return alert.SeverityDebug
	case zerolog.InfoLevel:
		return alert.SeverityInfo
	case zerolog.WarnLevel:
		return alert.SeverityWarning
	case zerolog.ErrorLevel:
		return alert.SeverityError
	case zerolog.FatalLevel:
		return alert.SeverityCritical
	case zerolog.PanicLevel:
		return alert.SeverityEmergency
	default:
		return alert.SeverityInfo
	}
}

// DecodeLine turns one zerolog JSON line into a Record, keeping the order of
// the remaining fields. Lines that are not JSON objects become the message of
// an INFO record. Blank lines report ok=false.
func DecodeLine(p []byte) (alert.Record, bool) {
	p = bytes.TrimSpace(p)
	if len(p) == 0 {
		return alert.Record{}, false
	}

	rec := alert.Record{Severity: alert.SeverityInfo}
	fields, err := decodeObject(p)
	if err != nil {
		rec.Message = string(p)
		return rec, true
	}

	for _, f := range fields {
		switch f.Key {
		case zerolog.LevelFieldName:
			if s, ok := f.Value.(string); ok {
				if lvl, err := zerolog.ParseLevel(s); err == nil {
					rec.Severity = SeverityFromZerolog(lvl)
				}
			}
		case zerolog.MessageFieldName:
			if s, ok := f.Value.(string); ok {
				rec.Message = s
			}
		case zerolog.TimestampFieldName:
			rec.Time = parseTime(f.Value)
		default:
			rec.Context = append(rec.Context, f)
		}
	}
	return rec, true
}

func decodeObject(p []byte) (alert.Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}
	out, err := decodeFields(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errNotObject
	}
	return out, nil
}

// decodeFields reads object members up to and including the closing '}'.
// Nested objects become alert.Fields so their key order survives rendering.
func decodeFields(dec *json.Decoder) (alert.Fields, error) {
	out := alert.Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, alert.Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeFields(dec)
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, errNotObject
	}
}

func parseTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{zerolog.TimeFieldFormat, time.RFC3339Nano, consoleTimeFormat} {
		if layout == "" {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
