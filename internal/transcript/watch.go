package transcript

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zhubert/followup/internal/logger"
)

// DefaultWatchDebounce coalesces the burst of events a single save produces.
const DefaultWatchDebounce = 150 * time.Millisecond

// Update is one reload of a watched transcript.
type Update struct {
	Transcript *Transcript
	Err        error
}

// Watch reloads path whenever it changes until ctx is cancelled. The parent
// directory is watched so editors that save by rename are seen. The returned
// channel is closed when watching stops.
func Watch(ctx context.Context, path string, debounce time.Duration) (<-chan Update, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	out := make(chan Update, 1)
	go watchLoop(ctx, w, abs, debounce, out)
	return out, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, out chan<- Update) {
	log := logger.WithComponent("transcript")
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "path", path, "error", err)

		case <-timer.C:
			t, err := Load(path)
			if err != nil {
				log.Warn("transcript reload failed", "path", path, "error", err)
			} else {
				log.Debug("transcript reloaded", "path", path, "messages", len(t.Messages))
			}
			select {
			case out <- Update{Transcript: t, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}
