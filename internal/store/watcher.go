package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/glimlab/glim/internal/logging"
)

var watchLog = logging.ForComponent(logging.CompWatch)

// debounceWindow coalesces the write+rename event bursts an atomic replace
// produces into a single change notification.
const debounceWindow = 100 * time.Millisecond

// Change reports that one of the watched data files was replaced.
type Change struct {
	// File is the base name, e.g. "state.json".
	File string
}

// DataWatcher watches the data directory for replacements of selected files
// using fsnotify. The display uses it to refresh between ticks; the tick
// remains the correctness mechanism, so dropped notifications are harmless.
type DataWatcher struct {
	dir      string
	files    map[string]bool
	watcher  *fsnotify.Watcher
	changeCh chan Change
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewDataWatcher creates a watcher for the named files (base names) inside
// dir. Call Start() in a goroutine, then read from Changes().
func NewDataWatcher(dir string, files ...string) (*DataWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	names := make(map[string]bool, len(files))
	for _, f := range files {
		names[f] = true
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &DataWatcher{
		dir:      dir,
		files:    names,
		watcher:  watcher,
		changeCh: make(chan Change, 16),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching the data directory. Must be called in a goroutine.
// Blocks until Stop() is called.
func (w *DataWatcher) Start() {
	if err := w.watcher.Add(w.dir); err != nil {
		watchLog.Warn("watch_add_failed",
			slog.String("dir", w.dir),
			slog.String("error", err.Error()),
		)
		return
	}

	// Debounce timer: coalesce rapid file events
	var debounceTimer *time.Timer
	pending := make(map[string]bool)
	var pendingMu sync.Mutex

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Atomic replaces surface as create/rename of the final name;
			// temp files have unique suffixes and fall through the filter.
			base := filepath.Base(event.Name)
			if !w.files[base] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			pendingMu.Lock()
			pending[base] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceWindow, func() {
				pendingMu.Lock()
				files := make([]string, 0, len(pending))
				for f := range pending {
					files = append(files, f)
				}
				pending = make(map[string]bool)
				pendingMu.Unlock()

				for _, f := range files {
					w.deliver(f)
				}
			})
			pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

// Stop shuts down the watcher. Safe to call multiple times.
func (w *DataWatcher) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		_ = w.watcher.Close()
	})
}

// Changes returns the channel that delivers change notifications.
func (w *DataWatcher) Changes() <-chan Change {
	return w.changeCh
}

func (w *DataWatcher) deliver(file string) {
	// Non-blocking send: a slow consumer misses the notification and
	// catches up on its next tick.
	select {
	case w.changeCh <- Change{File: file}:
		watchLog.Debug("change_delivered", slog.String("file", file))
	default:
		watchLog.Warn("change_channel_full", slog.String("file", file))
	}
}
