package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/presence"
	"github.com/glimlab/glim/internal/store"
)

// handleSet records one status update. This is the writer side of the
// deployment: it runs on every agent action, so it does exactly one
// store write and exits without waiting for the display to notice.
func handleSet(args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Println("Usage: glim set <state> [message...]")
		fmt.Println()
		fmt.Println("Record a status update for the display.")
		fmt.Println()
		fmt.Println("Arguments:")
		fmt.Printf("  <state>      One of: %s\n", strings.Join(presence.ValidStateNames(), ", "))
		fmt.Println("  [message]    Optional free text, remaining words are joined")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  glim set work \"building the index\"")
		fmt.Println("  glim set think weighing schema options")
		fmt.Println("  glim set idle")
	}

	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	out := NewCLIOutput(*jsonOutput)

	if fs.NArg() == 0 {
		out.Error("state name is required", ErrCodeInvalidState)
		if !*jsonOutput {
			fs.Usage()
		}
		os.Exit(1)
	}

	state, err := presence.ParseState(fs.Arg(0))
	if err != nil {
		msg := fmt.Sprintf("unknown state %q (valid: %s)",
			fs.Arg(0), strings.Join(presence.ValidStateNames(), ", "))
		if hint := suggestState(fs.Arg(0)); hint != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		out.Error(msg, ErrCodeInvalidState)
		os.Exit(1)
	}

	// Remaining words form the message
	message := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))

	dir, err := config.GetGlimDir()
	if err != nil {
		out.Error(fmt.Sprintf("failed to locate data directory: %v", err), ErrCodeStoreWrite)
		os.Exit(1)
	}

	rec := presence.Record{State: state, Message: message}
	if err := store.New(dir).Write(rec); err != nil {
		out.Error(fmt.Sprintf("failed to record status: %v", err), ErrCodeStoreWrite)
		os.Exit(1)
	}

	human := strings.ToUpper(string(state))
	if message != "" {
		human += ": " + message
	}
	out.Success(human, map[string]interface{}{
		"success": true,
		"state":   string(state),
		"message": message,
	})
}
