package alert

import (
	"strings"
	"time"

	"logalert/pkg/render"
	"logalert/pkg/tgui"
)

// TimeLayout is the timestamp layout used in the message body.
const TimeLayout = "2006-01-02 15:04:05"

// Formatter renders records into Telegram HTML-lite text.
type Formatter struct {
	AppName     string
	Environment string
	// Now supplies the timestamp printed in the body. Defaults to time.Now.
	Now func() time.Time
	// UseRecordTime prints Record.Time (when set) instead of the formatting time.
	UseRecordTime bool
}

// NewFormatter returns a Formatter for cfg's application name and environment.
func NewFormatter(cfg Config) *Formatter {
	return &Formatter{
		AppName:       cfg.AppName,
		Environment:   cfg.Environment,
		Now:           time.Now,
		UseRecordTime: cfg.UseRecordTime,
	}
}

// Format builds the notification body for rec. req may be nil.
// The result is at most tgui.MaxMessageRunes code points long.
func (f *Formatter) Format(rec Record, req *RequestInfo) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = tgui.CutRunes(rec.Severity.String()+": "+rec.Message, tgui.MaxMessageRunes)
		}
	}()

	var b strings.Builder
	level := rec.Severity.String()

	b.WriteString(f.header(rec))
	b.WriteString("🕒 Time: " + f.timestamp(rec).Format(TimeLayout) + "\n")
	b.WriteString("📊 Level: " + level + "\n")
	b.WriteString("❌ Message:\n" + rec.Message + "\n")

	if len(rec.Context) > 0 {
		b.WriteString("\n" + tgui.B("📝 Context:").String() + "\n")
		for _, fld := range rec.Context {
			if fld.Key == ExceptionKey {
				if err, ok := fld.Value.(error); ok {
					b.WriteString(render.Exception(err))
					continue
				}
			}
			b.WriteString(tgui.Esc(fld.Key).String() + ": " + tgui.Esc(render.Value(fld.Value)).String() + "\n")
		}
	}

	b.WriteString(serverInfo(req))

	return tgui.CutRunes(b.String(), tgui.MaxMessageRunes)
}

func (f *Formatter) header(rec Record) string {
	level := rec.Severity.String()
	return tgui.B(Emoji(level)+" "+f.AppName+" Error ("+f.Environment+")").String() + "\n\n"
}

func (f *Formatter) timestamp(rec Record) time.Time {
	if f.UseRecordTime && !rec.Time.IsZero() {
		return rec.Time.Local()
	}
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func serverInfo(req *RequestInfo) string {
	ip, url, method := "N/A", "", ""
	if req != nil {
		if req.ServerIP != "" {
			ip = req.ServerIP
		}
		url, method = req.URL, req.Method
	}

	var b strings.Builder
	b.WriteString("\n" + tgui.B("🖥️ Server Info:").String() + "\n")
	b.WriteString("IP: " + tgui.Esc(ip).String() + "\n")
	b.WriteString("URL: " + tgui.Esc(url).String() + "\n")
	b.WriteString("Method: " + tgui.Esc(method).String() + "\n")
	return b.String()
}
