package render

import (
	"errors"
	"html"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// MaxStackFrames caps the number of stack frames rendered for an error.
const MaxStackFrames = 3

// maxUnwrapDepth stops cyclic or pathological Unwrap chains.
const maxUnwrapDepth = 32

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type causer interface {
	Cause() error
}

// Frame is a resolved stack frame. File is empty when the program counter
// has no source association.
type Frame struct {
	File string
	Line int
}

// Exception renders err as an HTML-lite block: type, message, origin and up
// to MaxStackFrames calling frames. Errors without a recorded stack render their
// origin as unknown and omit the trace.
func Exception(err error) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = "\n<b>Exception:</b>\nType: " + html.EscapeString(TypeName(err)) + "\n"
		}
	}()

	frames := StackFrames(err)

	var b strings.Builder
	b.WriteString("\n<b>Exception:</b>\n")
	b.WriteString("Type: " + html.EscapeString(TypeName(err)) + "\n")
	b.WriteString("Message: " + html.EscapeString(errorMessage(err)) + "\n")
	if len(frames) > 0 && frames[0].File != "" {
		b.WriteString("File: " + html.EscapeString(frames[0].File) + ":" + strconv.Itoa(frames[0].Line) + "\n")
	} else {
		b.WriteString("File: [unknown]\n")
	}

	// frames[0] is the origin printed above; the trace starts at its caller.
	calls := []Frame(nil)
	if len(frames) > 1 {
		calls = frames[1:]
	}
	if len(calls) > MaxStackFrames {
		calls = calls[:MaxStackFrames]
	}
	if len(calls) > 0 {
		b.WriteString("\nStack Trace (latest " + strconv.Itoa(MaxStackFrames) + " calls):\n")
		for _, fr := range calls {
			if fr.File == "" {
				b.WriteString("• [internal function]\n")
				continue
			}
			b.WriteString("• " + html.EscapeString(filepath.Base(fr.File)) + ":" + strconv.Itoa(fr.Line) + "\n")
		}
	}
	return b.String()
}

// StackFrames returns the frames recorded by the deepest error in err's chain
// that carries a github.com/pkg/errors stack trace.
func StackFrames(err error) []Frame {
	var st pkgerrors.StackTrace
	for i := 0; err != nil && i < maxUnwrapDepth; i++ {
		if s, ok := err.(stackTracer); ok {
			if t := s.StackTrace(); len(t) > 0 {
				st = t
			}
		}
		err = unwrap(err)
	}
	if len(st) == 0 {
		return nil
	}

	out := make([]Frame, 0, len(st))
	for _, f := range st {
		out = append(out, resolveFrame(f))
	}
	return out
}

func resolveFrame(f pkgerrors.Frame) Frame {
	pc := uintptr(f)
	if pc == 0 {
		return Frame{}
	}
	pc--
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return Frame{}
	}
	file, line := fn.FileLine(pc)
	return Frame{File: file, Line: line}
}

func unwrap(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return nil
}

func errorMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = "[unavailable]"
		}
	}()
	if err == nil {
		return Null
	}
	return err.Error()
}
