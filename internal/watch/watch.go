// Package watch reports snapshot files changed by someone other than this session.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/kith/internal/checksum"
)

// DefaultDebounce groups the events of one write or rename into a single check.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the path of a tracked file whose content no
// longer matches what this session last loaded or saved.
type ChangeFunc func(path string)

// Watcher remembers the checksum of each tracked snapshot.
type Watcher struct {
	logger   *slog.Logger
	debounce time.Duration

	mu    sync.Mutex
	known map[string]string
}

// New creates a watcher with the default debounce.
func New(logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger, debounce: DefaultDebounce, known: make(map[string]string)}
}

// WithDebounce overrides the debounce interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Track records the current checksum of path. Call it after every load and
// save done by this session.
func (w *Watcher) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	sum, err := checksum.File(abs)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.known[abs] = sum
	w.mu.Unlock()
	return nil
}

// Tracked returns the absolute paths being tracked.
func (w *Watcher) Tracked() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.known))
	for p := range w.known {
		out = append(out, p)
	}
	return out
}

// Run watches the directories of tracked files until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for _, p := range w.Tracked() {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("watch: mkdir %s: %w", dir, err)
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.logger.Info("watcher: started", slog.Int("dirs", len(dirs)))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
		} else {
			timer.Reset(w.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			w.check(onChange)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.isTracked(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *Watcher) isTracked(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.known[abs]
	return ok
}

// check compares every tracked file against its recorded checksum. A
// reported change becomes the new baseline so it is reported once.
func (w *Watcher) check(onChange ChangeFunc) {
	w.mu.Lock()
	var changed []string
	for p, want := range w.known {
		got, err := checksum.File(p)
		if err != nil {
			w.logger.Warn("watcher: checksum failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if got != want {
			w.known[p] = got
			changed = append(changed, p)
		}
	}
	w.mu.Unlock()

	for _, p := range changed {
		w.logger.Warn("watcher: snapshot modified externally", slog.String("path", p))
		if onChange != nil {
			onChange(p)
		}
	}
}
