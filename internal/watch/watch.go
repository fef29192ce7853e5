// Package watch transcribes new recordings as they appear in a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one newly arrived video file.
type Handler func(ctx context.Context, path string) error

var videoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
}

// IsVideo reports whether the path looks like a video recording.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// Watcher waits for video files to land in a directory and hands each one to
// the handler once it has stopped growing.
type Watcher struct {
	Dir     string
	Handler Handler
	Logf    func(format string, a ...any)

	// StablePoll is how often the file size is re-checked while waiting for
	// a copy or recording to finish. Tests shorten it.
	StablePoll time.Duration
}

func (w *Watcher) logf(format string, a ...any) {
	if w.Logf != nil {
		w.Logf(format, a...)
	}
}

// Run blocks until the context is cancelled. Handler errors are logged and
// do not stop the watch: one broken recording must not end the session.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.logf("watching %s", w.Dir)

	poll := w.StablePoll
	if poll <= 0 {
		poll = time.Second
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) || !IsVideo(ev.Name) {
				continue
			}
			w.logf("new recording: %s", filepath.Base(ev.Name))
			if err := waitStable(ctx, ev.Name, poll); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logf("skipping %s: %v", filepath.Base(ev.Name), err)
				continue
			}
			if err := w.Handler(ctx, ev.Name); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logf("failed %s: %v", filepath.Base(ev.Name), err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logf("watch error: %v", err)
		}
	}
}

// waitStable returns once the file size has stopped changing between two
// consecutive polls, i.e. the producer has finished writing it.
func waitStable(ctx context.Context, path string, poll time.Duration) error {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() == lastSize && fi.Size() > 0 {
			return nil
		}
		lastSize = fi.Size()
	}
}
