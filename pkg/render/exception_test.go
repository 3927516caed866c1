package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deepError(depth int) error {
	if depth == 0 {
		return pkgerrors.New("connection refused")
	}
	return deepError(depth - 1)
}

func TestExceptionWithStack(t *testing.T) {
	t.Parallel()
	err := deepError(5)

	got := Exception(err)
	assert.Contains(t, got, "<b>Exception:</b>")
	assert.Contains(t, got, "Type: *errors.fundamental")
	assert.Contains(t, got, "Message: connection refused")
	assert.Contains(t, got, "exception_test.go:")
	assert.Contains(t, got, "Stack Trace (latest 3 calls):")
	assert.Equal(t, MaxStackFrames, strings.Count(got, "• "))
	assert.Contains(t, got, "• exception_test.go:")
}

func TestExceptionTraceStartsAtCaller(t *testing.T) {
	t.Parallel()
	err := deepError(5)
	frames := StackFrames(err)
	require.Greater(t, len(frames), 2)

	got := Exception(err)
	origin := filepath.Base(frames[0].File) + ":" + strconv.Itoa(frames[0].Line)
	caller := filepath.Base(frames[1].File) + ":" + strconv.Itoa(frames[1].Line)
	assert.Contains(t, got, "File: "+frames[0].File+":"+strconv.Itoa(frames[0].Line)+"\n")
	assert.NotContains(t, got, "• "+origin+"\n")
	assert.Contains(t, got, "Stack Trace (latest 3 calls):\n• "+caller+"\n")
}

func TestExceptionSingleFrameHasNoTrace(t *testing.T) {
	t.Parallel()
	pc, _, _, ok := runtime.Caller(0)
	require.True(t, ok)
	got := Exception(stackErr{st: pkgerrors.StackTrace{pkgerrors.Frame(pc + 1)}})
	assert.Contains(t, got, "File: ")
	assert.NotContains(t, got, "File: [unknown]")
	assert.NotContains(t, got, "Stack Trace")
}

func TestExceptionUsesDeepestStack(t *testing.T) {
	t.Parallel()
	root := deepError(0)
	wrapped := pkgerrors.Wrap(root, "query users")
	outer := fmt.Errorf("handler: %w", wrapped)

	frames := StackFrames(outer)
	require.NotEmpty(t, frames)
	rootFrames := StackFrames(root)
	require.NotEmpty(t, rootFrames)
	assert.Equal(t, rootFrames[0], frames[0])

	got := Exception(outer)
	assert.Contains(t, got, "Type: *fmt.wrapError")
	assert.Contains(t, got, "Message: handler: query users: connection refused")
}

func TestExceptionWithoutStack(t *testing.T) {
	t.Parallel()
	got := Exception(errors.New("plain <failure>"))
	assert.Contains(t, got, "Type: *errors.errorString")
	assert.Contains(t, got, "Message: plain &lt;failure&gt;")
	assert.Contains(t, got, "File: [unknown]")
	assert.NotContains(t, got, "Stack Trace")
}

func TestExceptionUnresolvableFrame(t *testing.T) {
	t.Parallel()
	err := stackErr{st: pkgerrors.StackTrace{0, 0}}
	got := Exception(err)
	assert.Contains(t, got, "File: [unknown]")
	assert.Contains(t, got, "• [internal function]")
}

func TestExceptionIsTotal(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { _ = Exception(nil) })
	assert.NotPanics(t, func() { _ = Exception(panicky{}) })
	assert.Contains(t, Exception(panicky{}), "Message: [unavailable]")
}

type stackErr struct{ st pkgerrors.StackTrace }

func (e stackErr) Error() string { return "synthetic" }

func (e stackErr) StackTrace() pkgerrors.StackTrace { return e.st }
