package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"logalert/pkg/logx"
)

// maxLineBytes bounds a single log line read by Pipe.
const maxLineBytes = 1 << 20

// Pipe forwards every line of r to w until EOF or ctx is done.
// It returns the number of lines forwarded. If r is an io.Closer it is closed
// when ctx is done so a read blocked on stdin returns.
func Pipe(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	n := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return n, nil
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		_, _ = w.Write(line)
		n++
	}
	if ctx.Err() != nil {
		return n, nil
	}
	return n, sc.Err()
}

// FollowOptions configures Follow.
type FollowOptions struct {
	// FromStart forwards the existing content before tailing.
	FromStart bool
	// Ready, if set, is closed once the watcher is installed.
	Ready chan<- struct{}
}

// Follow tails path like `tail -F`: new complete lines are written to w as
// they appear. Truncation rewinds to the start; a re-created file (rotation)
// is reopened. It returns when ctx is done.
func Follow(ctx context.Context, path string, w io.Writer, log logx.Logger, opt FollowOptions) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	// Watch the directory so rotation (remove + create) is seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	t := &tailer{path: path, w: w}
	if err := t.open(!opt.FromStart); err != nil {
		return err
	}
	defer t.close()

	if opt.Ready != nil {
		close(opt.Ready)
	}
	if err := t.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create):
				log.Debug("log file re-created; reopening", logx.String("path", path))
				t.close()
				if err := t.open(false); err != nil {
					log.Warn("reopen failed", logx.String("path", path), logx.Err(err))
					continue
				}
				if err := t.drain(); err != nil {
					log.Warn("read failed", logx.String("path", path), logx.Err(err))
				}
			case ev.Has(fsnotify.Write):
				if err := t.rewindIfTruncated(); err != nil {
					log.Warn("stat failed", logx.String("path", path), logx.Err(err))
					continue
				}
				if err := t.drain(); err != nil {
					log.Warn("read failed", logx.String("path", path), logx.Err(err))
				}
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				log.Debug("log file moved away; waiting for it to come back", logx.String("path", path))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", logx.Err(err))
		}
	}
}

type tailer struct {
	path string
	w    io.Writer

	f       *os.File
	br      *bufio.Reader
	offset  int64
	partial []byte
}

func (t *tailer) open(atEnd bool) error {
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	var off int64
	if atEnd {
		if off, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return err
		}
	}
	t.f = f
	t.br = bufio.NewReader(f)
	t.offset = off
	t.partial = nil
	return nil
}

func (t *tailer) close() {
	if t.f != nil {
		_ = t.f.Close()
		t.f = nil
	}
}

func (t *tailer) rewindIfTruncated() error {
	if t.f == nil {
		return errors.New("file not open")
	}
	st, err := t.f.Stat()
	if err != nil {
		return err
	}
	if st.Size() >= t.offset {
		return nil
	}
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	t.br.Reset(t.f)
	t.offset = 0
	t.partial = nil
	return nil
}

// drain forwards complete lines; a trailing partial line is kept until its
// newline arrives.
func (t *tailer) drain() error {
	if t.f == nil {
		return nil
	}
	for {
		chunk, err := t.br.ReadBytes('\n')
		t.offset += int64(len(chunk))
		if len(chunk) > 0 {
			if chunk[len(chunk)-1] == '\n' {
				line := append(t.partial, chunk...)
				t.partial = nil
				_, _ = t.w.Write(line)
			} else {
				t.partial = append(t.partial, chunk...)
				if len(t.partial) > maxLineBytes {
					_, _ = t.w.Write(t.partial)
					t.partial = nil
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
