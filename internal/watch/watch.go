// Package watch re-runs an action whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Stats counts what a watcher has done so far.
type Stats struct {
	Events   int
	Runs     int
	Failures int
	LastRun  time.Time
	LastErr  error
}

// Watcher calls fn after the watched file settles. Bursts of events closer
// together than the debounce interval collapse into a single call.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       func(context.Context) error
	log      *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu    sync.Mutex
	stats Stats
}

// New returns a watcher for path. A nil logger discards output.
func New(path string, debounce time.Duration, fn func(context.Context) error, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		fn:       fn,
		log:      log,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the watcher is subscribed to file events.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file itself so editors that replace the file on save keep working.
// Errors from fn are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.log.Info("watching", zap.String("file", w.path), zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watch stopped", zap.String("file", w.path))
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			w.log.Debug("file event", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))

			if w.debounce <= 0 {
				w.trigger(ctx)
				continue
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))

		case <-timer.C:
			if pending {
				pending = false
				w.trigger(ctx)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.log.Warn("watched file removed", zap.String("file", w.path))
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) trigger(ctx context.Context) {
	err := w.fn(ctx)

	w.mu.Lock()
	w.stats.Runs++
	w.stats.LastRun = time.Now()
	w.stats.LastErr = err
	if err != nil {
		w.stats.Failures++
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("re-export failed", zap.String("file", w.path), zap.Error(err))
	}
}
