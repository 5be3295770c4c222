package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/glimlab/glim/internal/config"
)

// handleConfigure edits the persistent settings consumed by the display.
// Only flags actually provided are applied; everything else keeps its
// current value, so "glim configure -t 600" does not reset the letter.
func handleConfigure(args []string) {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	letterLong := fs.String("letter", "", "Monogram letter (A-Z)")
	letterShort := fs.String("l", "", "Monogram letter (short)")
	nameLong := fs.String("name", "", "Display name")
	nameShort := fs.String("n", "", "Display name (short)")
	timeoutLong := fs.Int("timeout", 0, "Idle timeout in seconds (0 disables decay)")
	timeoutShort := fs.Int("t", 0, "Idle timeout in seconds (short)")
	sleepStart := fs.Int("sleep-start", 0, "Sleep window start hour (0-23)")
	sleepEnd := fs.Int("sleep-end", 0, "Sleep window end hour (0-23)")
	theme := fs.String("theme", "", "Color theme: dark, light or system")
	showLong := fs.Bool("show", false, "Print current settings without writing")
	showShort := fs.Bool("s", false, "Print current settings (short)")
	autoLong := fs.Bool("auto", false, "Detect the agent name from installed agent frameworks")
	autoShort := fs.Bool("a", false, "Detect the agent name (short)")
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Println("Usage: glim configure [options]")
		fmt.Println()
		fmt.Println("Edit persistent glim settings.")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  glim configure -l K -n KIRA           # letter and name")
		fmt.Println("  glim configure -t 600                 # 10 minute idle timeout")
		fmt.Println("  glim configure --sleep-start 23 --sleep-end 7")
		fmt.Println("  glim configure --theme system")
		fmt.Println("  glim configure --auto                 # detect agent name")
		fmt.Println("  glim configure --show                 # just print settings")
	}

	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	out := NewCLIOutput(*jsonOutput)

	provided := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { provided[f.Name] = true })

	cfg, err := config.LoadUserConfig()
	if err != nil && !*jsonOutput {
		fmt.Fprintf(os.Stderr, "Warning: %v (starting from defaults)\n", err)
	}
	// Work on a copy so a validation failure leaves the cache untouched
	updated := *cfg

	if *showLong || *showShort {
		printSettings(out, &updated, "")
		return
	}

	changed := false

	if *autoLong || *autoShort {
		if name := config.DetectAgentName(); name != "" {
			updated.Name = strings.ToUpper(name)
			updated.Letter = config.LetterFor(name)
			changed = true
			if !*jsonOutput {
				fmt.Printf("Detected agent: %s\n", name)
			}
		} else if !*jsonOutput {
			fmt.Println("No agent framework config detected; nothing changed.")
		}
	}

	if letter, ok := pickProvided(provided, "letter", "l", *letterLong, *letterShort); ok {
		normalized := strings.ToUpper(strings.TrimSpace(letter))
		if !config.ValidLetter(normalized) {
			out.Error(fmt.Sprintf("letter must be a single A-Z character, got %q", letter), ErrCodeInvalidValue)
			os.Exit(1)
		}
		updated.Letter = normalized
		changed = true
	}

	if name, ok := pickProvided(provided, "name", "n", *nameLong, *nameShort); ok {
		if strings.TrimSpace(name) == "" {
			out.Error("name cannot be empty", ErrCodeInvalidValue)
			os.Exit(1)
		}
		updated.Name = strings.ToUpper(strings.TrimSpace(name))
		changed = true
	}

	if provided["timeout"] || provided["t"] {
		timeout := *timeoutShort
		if provided["timeout"] {
			timeout = *timeoutLong
		}
		if timeout < 0 {
			timeout = 0
		}
		updated.IdleTimeout = timeout
		changed = true
	}

	if provided["sleep-start"] {
		if *sleepStart < 0 || *sleepStart > 23 {
			out.Error(fmt.Sprintf("sleep-start must be an hour 0-23, got %d", *sleepStart), ErrCodeInvalidValue)
			os.Exit(1)
		}
		updated.SleepStart = *sleepStart
		changed = true
	}

	if provided["sleep-end"] {
		if *sleepEnd < 0 || *sleepEnd > 23 {
			out.Error(fmt.Sprintf("sleep-end must be an hour 0-23, got %d", *sleepEnd), ErrCodeInvalidValue)
			os.Exit(1)
		}
		updated.SleepEnd = *sleepEnd
		changed = true
	}

	if provided["theme"] {
		t := strings.ToLower(strings.TrimSpace(*theme))
		valid := false
		for _, v := range config.ValidThemes() {
			if t == v {
				valid = true
				break
			}
		}
		if !valid {
			msg := fmt.Sprintf("unknown theme %q (valid: %s)", *theme, strings.Join(config.ValidThemes(), ", "))
			if hint := suggestTheme(*theme); hint != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", hint)
			}
			out.Error(msg, ErrCodeInvalidValue)
			os.Exit(1)
		}
		updated.Theme = t
		changed = true
	}

	if !changed {
		printSettings(out, &updated, "")
		if !*jsonOutput {
			fmt.Println()
			fmt.Println("Nothing changed. Run 'glim configure -h' for options.")
		}
		return
	}

	updated.Normalize()
	if err := config.SaveUserConfig(&updated); err != nil {
		out.Error(fmt.Sprintf("failed to save settings: %v", err), ErrCodeConfig)
		os.Exit(1)
	}

	printSettings(out, &updated, "Configuration saved")
}

// pickProvided resolves a long/short string flag pair, long form winning
// when both were given. The bool reports whether either was provided.
func pickProvided(provided map[string]bool, long, short, longVal, shortVal string) (string, bool) {
	if provided[long] {
		return longVal, true
	}
	if provided[short] {
		return shortVal, true
	}
	return "", false
}

// printSettings renders the settings block, optionally under a success line
func printSettings(out *CLIOutput, cfg *config.UserConfig, header string) {
	window := "disabled"
	if cfg.SleepStart != cfg.SleepEnd {
		window = fmt.Sprintf("%02d:00-%02d:00", cfg.SleepStart, cfg.SleepEnd)
	}
	timeout := fmt.Sprintf("%ds", cfg.IdleTimeout)
	if cfg.IdleTimeout == 0 {
		timeout = "disabled"
	}

	var b strings.Builder
	if header != "" {
		fmt.Fprintf(&b, "%s %s\n", successSymbol, header)
	}
	fmt.Fprintf(&b, "  Letter:        %s\n", cfg.Letter)
	fmt.Fprintf(&b, "  Name:          %s\n", cfg.Name)
	fmt.Fprintf(&b, "  Idle timeout:  %s\n", timeout)
	fmt.Fprintf(&b, "  Sleep window:  %s\n", window)
	fmt.Fprintf(&b, "  Theme:         %s\n", cfg.Theme)

	out.Print(b.String(), map[string]interface{}{
		"success":      true,
		"letter":       cfg.Letter,
		"name":         cfg.Name,
		"idle_timeout": cfg.IdleTimeout,
		"sleep_start":  cfg.SleepStart,
		"sleep_end":    cfg.SleepEnd,
		"theme":        cfg.Theme,
	})
}
