package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/logging"
	"github.com/glimlab/glim/internal/store"
	"github.com/glimlab/glim/internal/ui"
)

// runDisplay launches the full-screen presence display and blocks until
// it quits. The display is the long-lived half of the deployment; the
// writer never talks to it directly, only through the store.
func runDisplay() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the display needs a terminal.")
		fmt.Fprintln(os.Stderr, "Use 'glim show' for non-interactive output.")
		os.Exit(1)
	}

	dir, err := config.GetGlimDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to locate data directory: %v\n", err)
		os.Exit(1)
	}

	// The display always logs to file; the alt screen owns stdout
	level := "info"
	if os.Getenv("GLIM_DEBUG") != "" {
		level = "debug"
	}
	if logsDir, err := config.GetLogsDir(); err == nil {
		logging.Init(logging.Config{
			Debug:      true,
			LogDir:     logsDir,
			Level:      level,
			Format:     "json",
			MaxSizeMB:  5,
			MaxBackups: 3,
			Compress:   true,
		})
		defer logging.Shutdown()
	}

	cfg, err := config.LoadUserConfig()
	if err != nil {
		// Bad config file: run on defaults, the watcher picks up a fix
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	ui.InitTheme(config.ResolveTheme())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := store.NewDataWatcher(dir, store.StateFileName, config.UserConfigFileName)
	if err != nil {
		// Degraded but fine: the tick loop still polls every second
		logging.ForComponent(logging.CompUI).Warn("watcher_unavailable", "error", err.Error())
		watcher = nil
	} else {
		go watcher.Start()
		defer watcher.Stop()
	}

	var themes *ui.ThemeWatcher
	if cfg.Theme == "system" {
		themes = ui.NewThemeWatcher(ctx)
		if themes != nil {
			defer themes.Close()
		}
	}

	monogramsDir, _ := config.GetMonogramsDir()
	display := ui.NewDisplay(store.New(dir), watcher, themes, cfg, monogramsDir)
	p := tea.NewProgram(display, tea.WithAltScreen())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := p.Run()
		cancel() // release the signal goroutine once the display quits
		return err
	})
	g.Go(func() error {
		// Termination signal: tear the program down between ticks
		<-ctx.Done()
		p.Quit()
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
