package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/logging"
)

const Version = "0.3.1"

// init sets up color profile for consistent terminal colors across environments
func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss color profile based on terminal capabilities.
// Prefers TrueColor for best visuals, falls back to ANSI256 for compatibility.
func initColorProfile() {
	// Allow user override via environment variable
	// GLIM_COLOR: truecolor, 256, 16, none
	if colorEnv := os.Getenv("GLIM_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
			return
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
			return
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
			return
		}
	}

	// Explicit TrueColor support
	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	// Check TERM for capability hints
	term := os.Getenv("TERM")
	trueColorTerms := []string{
		"xterm-256color",
		"screen-256color",
		"tmux-256color",
		"xterm-direct",
		"alacritty",
		"kitty",
		"wezterm",
	}
	for _, t := range trueColorTerms {
		if strings.Contains(term, t) || term == t {
			lipgloss.SetColorProfile(termenv.TrueColor)
			return
		}
	}

	// Fallback: ANSI256 works in SSH, basic terminals, and older emulators
	lipgloss.SetColorProfile(termenv.ANSI256)
}

// initCLILogging wires up logging for the short-lived commands.
// Without GLIM_DEBUG everything is discarded, so `glim set` stays a
// single store write with no log file I/O in the hot path.
func initCLILogging() {
	if os.Getenv("GLIM_DEBUG") == "" {
		return
	}
	logsDir, err := config.GetLogsDir()
	if err != nil {
		return
	}
	logging.Init(logging.Config{
		Debug:  true,
		LogDir: logsDir,
		Level:  "debug",
		Format: "text",
	})
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "version", "--version", "-v":
			fmt.Printf("glim v%s\n", Version)
			return
		case "help", "--help", "-h":
			printHelp()
			return
		case "set":
			initCLILogging()
			defer logging.Shutdown()
			handleSet(args[1:])
			return
		case "show":
			initCLILogging()
			defer logging.Shutdown()
			handleShow(args[1:])
			return
		case "configure", "config":
			initCLILogging()
			defer logging.Shutdown()
			handleConfigure(args[1:])
			return
		case "display":
			// Explicit alias for the bare invocation
			runDisplay()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'glim help' for usage.")
			os.Exit(1)
		}
	}

	runDisplay()
}

func printHelp() {
	fmt.Printf("glim v%s\n", Version)
	fmt.Println("Ambient presence light for AI coding agents")
	fmt.Println()
	fmt.Println("Usage: glim [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)               Launch the display")
	fmt.Println("  set <state> [msg]    Record a status update")
	fmt.Println("  show                 Print the current status")
	fmt.Println("  configure            Edit persistent settings")
	fmt.Println("  version              Show version")
	fmt.Println("  help                 Show this help")
	fmt.Println()
	fmt.Println("States:")
	fmt.Println("  idle    nothing in flight (cyan)")
	fmt.Println("  work    actively working (green)")
	fmt.Println("  think   reasoning through a problem (yellow)")
	fmt.Println("  alert   needs attention (red)")
	fmt.Println("  sleep   wound down for the night (blue)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  glim set work \"refactoring the parser\"")
	fmt.Println("  glim set idle")
	fmt.Println("  glim show --follow        # stream status changes")
	fmt.Println("  glim configure -l K -n KIRA -t 600")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GLIM_HOME    Data directory (default ~/.glim)")
	fmt.Println("  GLIM_COLOR   Color profile: truecolor, 256, 16, none")
	fmt.Println("  GLIM_DEBUG   Enable debug logging for CLI commands")
	fmt.Println()
	fmt.Println("Display keys:")
	fmt.Println("  q, Esc     Quit")
}
