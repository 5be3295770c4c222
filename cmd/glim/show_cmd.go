package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/presence"
	"github.com/glimlab/glim/internal/store"
	"github.com/glimlab/glim/internal/ui"
)

// handleShow prints the current status without the full-screen display.
// Meant for scripts, status bars and quick checks over SSH.
func handleShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	rawOutput := fs.Bool("raw", false, "Print the persisted record without staleness/sleep resolution")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	follow := fs.Bool("follow", false, "Keep running and print a line on every status change")
	followShort := fs.Bool("f", false, "Keep running and print changes (short)")

	fs.Usage = func() {
		fmt.Println("Usage: glim show [options]")
		fmt.Println()
		fmt.Println("Print the current effective status.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  glim show                 # one line, resolved status")
		fmt.Println("  glim show --raw           # the record as written, no resolution")
		fmt.Println("  glim show --json          # machine-readable")
		fmt.Println("  glim show --follow        # stream changes (Ctrl+C to stop)")
	}

	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	out := NewCLIOutput(*jsonOutput)

	dir, err := config.GetGlimDir()
	if err != nil {
		out.Error(fmt.Sprintf("failed to locate data directory: %v", err), ErrCodeStoreRead)
		os.Exit(1)
	}
	st := store.New(dir)

	if *follow || *followShort {
		runFollow(st, dir)
		return
	}

	cfg, cfgErr := config.LoadUserConfig()
	if cfgErr != nil && !*jsonOutput {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
	}

	now := time.Now()
	rec, readErr := st.Read()
	absent := false
	switch {
	case readErr == nil:
	case errors.Is(readErr, os.ErrNotExist):
		absent = true
		rec = presence.BootstrapRecord(now)
	default:
		// Corrupt or unreadable slot: report it, still print the fallback
		if !*jsonOutput {
			fmt.Fprintf(os.Stderr, "Warning: %v (showing defaults)\n", readErr)
		}
		absent = true
		rec = presence.BootstrapRecord(now)
	}

	if *rawOutput {
		printRaw(out, rec, absent)
		return
	}

	eff := presence.Resolve(rec, cfg.Presence(), now)

	var note string
	if eff.State == presence.StateSleep && rec.State != presence.StateSleep {
		note = "sleep window"
	} else if eff.State != rec.State && !absent {
		note = "last update " + rec.Updated().Format("15:04")
	}

	line := fmt.Sprintf("%s %s", StateSymbol(eff.State), strings.ToUpper(string(eff.State)))
	if eff.Message != "" {
		line += "  " + eff.Message
	}
	if note != "" {
		line += "  " + ui.DimStyle.Render("("+note+")")
	}

	jsonData := map[string]interface{}{
		"state":             string(rec.State),
		"message":           rec.Message,
		"updated":           rec.UpdatedAt,
		"effective_state":   string(eff.State),
		"effective_message": eff.Message,
		"absent":            absent,
	}
	out.Print(line+"\n", jsonData)
}

// printRaw dumps the persisted record as written, resolution rules skipped
func printRaw(out *CLIOutput, rec presence.Record, absent bool) {
	if absent {
		out.Print("no status recorded yet\n", map[string]interface{}{
			"absent": true,
		})
		return
	}
	human := fmt.Sprintf("%s %s", StateSymbol(rec.State), strings.ToUpper(string(rec.State)))
	if rec.Message != "" {
		human += "  " + rec.Message
	}
	human += "  " + ui.DimStyle.Render("(updated "+rec.Updated().Format("2006-01-02 15:04:05")+")")
	out.Print(human+"\n", map[string]interface{}{
		"state":   string(rec.State),
		"message": rec.Message,
		"updated": rec.UpdatedAt,
		"absent":  false,
	})
}

// runFollow streams effective-status changes to stdout, one timestamped
// line per change, until interrupted. A 1s ticker carries the decay and
// sleep-window transitions; the data watcher just makes writer updates
// land faster.
func runFollow(st *store.Store, dir string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	var changes <-chan store.Change
	watcher, err := store.NewDataWatcher(dir, store.StateFileName, config.UserConfigFileName)
	if err == nil {
		go watcher.Start()
		defer watcher.Stop()
		changes = watcher.Changes()
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	startedAt := time.Now()
	var last presence.Effective
	printed := false

	emit := func() {
		rec, err := st.Read()
		if err != nil {
			rec = presence.BootstrapRecord(startedAt)
		}
		eff := presence.Resolve(rec, cfg.Presence(), time.Now())
		if printed && eff == last {
			return
		}
		last = eff
		printed = true
		line := fmt.Sprintf("%s %s %s",
			ui.DimStyle.Render(time.Now().Format("15:04:05")),
			StateSymbol(eff.State),
			strings.ToUpper(string(eff.State)))
		if eff.Message != "" {
			line += "  " + eff.Message
		}
		fmt.Println(line)
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if change.File == config.UserConfigFileName {
				if fresh, err := config.ReloadUserConfig(); err == nil {
					cfg = fresh
				}
			}
			emit()
		}
	}
}
