package ui

import (
	"context"
	"log/slog"
	"sync"

	dark "github.com/thiagokokada/dark-mode-go"
)

// ThemeWatcher resolves OS dark mode flips into Theme values for the
// display. Only used when the configured theme is "system"; with an
// explicit dark/light setting the OS preference is ignored entirely.
type ThemeWatcher struct {
	changeCh  chan Theme
	closeCh   chan struct{}
	closeOnce sync.Once
}

// NewThemeWatcher starts watching the OS appearance setting. Returns nil
// when the platform offers no dark mode signal; the display then simply
// keeps the theme it resolved at startup.
func NewThemeWatcher(parentCtx context.Context) *ThemeWatcher {
	ctx, cancel := context.WithCancel(parentCtx)

	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		uiLog.Warn("theme_watcher_init_failed", slog.String("error", err.Error()))
		return nil
	}

	tw := &ThemeWatcher{
		changeCh: make(chan Theme, 1),
		closeCh:  make(chan struct{}),
	}

	go tw.run(ctx, cancel, events, errs)
	return tw
}

func (tw *ThemeWatcher) run(ctx context.Context, cancel context.CancelFunc, events <-chan bool, errs <-chan error) {
	defer cancel()
	for {
		select {
		case <-tw.closeCh:
			return
		case isDark, ok := <-events:
			if !ok {
				return
			}
			theme := ThemeLight
			if isDark {
				theme = ThemeDark
			}
			// Drop the flip if the display has not drained the last one;
			// only the final value matters
			select {
			case tw.changeCh <- theme:
			default:
			}
		case err, ok := <-errs:
			if ok && err != nil {
				uiLog.Warn("theme_watcher_error", slog.String("error", err.Error()))
			}
		}
	}
}

// ChangeChannel delivers the resolved theme after each OS appearance flip.
func (tw *ThemeWatcher) ChangeChannel() <-chan Theme {
	return tw.changeCh
}

// Close stops the watcher goroutine. Safe to call multiple times.
func (tw *ThemeWatcher) Close() {
	tw.closeOnce.Do(func() {
		close(tw.closeCh)
	})
}
