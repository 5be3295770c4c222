package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/presence"
	"github.com/glimlab/glim/internal/ui"
)

// normalizeArgs reorders args so flags come before positional arguments.
// Go's flag package stops parsing at the first non-flag argument, which means
// "glim set work --json" silently ignores --json. This function moves all
// flags to the front so they get parsed correctly.
func normalizeArgs(fs *flag.FlagSet, args []string) []string {
	// Build set of known boolean flags (don't need a value argument)
	boolFlags := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			boolFlags[f.Name] = true
		}
	})

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" terminates flag processing
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)

			// Determine flag name (strip leading dashes)
			name := strings.TrimLeft(arg, "-")

			// Handle --flag=value (value is part of the arg, nothing to move)
			if strings.Contains(name, "=") {
				continue
			}

			// If it's not a bool flag, the next arg is its value
			if !boolFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}

// CLIOutput handles consistent output formatting across all CLI commands
type CLIOutput struct {
	jsonMode bool
}

// NewCLIOutput creates a new CLI output handler
func NewCLIOutput(jsonMode bool) *CLIOutput {
	return &CLIOutput{jsonMode: jsonMode}
}

// Success prints a success message or JSON response
func (c *CLIOutput) Success(message string, data interface{}) {
	if c.jsonMode {
		c.printJSON(data)
		return
	}
	fmt.Printf("%s %s\n", ui.SuccessStyle.Render(successSymbol), message)
}

// Error prints an error message or JSON error response
func (c *CLIOutput) Error(message string, code string) {
	if c.jsonMode {
		c.printJSON(map[string]interface{}{
			"success": false,
			"error":   message,
			"code":    code,
		})
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.ErrorStyle.Render(errorSymbol), message)
}

// Print prints data (human-readable or JSON)
func (c *CLIOutput) Print(humanOutput string, jsonData interface{}) {
	if c.jsonMode {
		c.printJSON(jsonData)
		return
	}
	fmt.Print(humanOutput)
}

// printJSON marshals and prints JSON data
func (c *CLIOutput) printJSON(data interface{}) {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to format JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
}

// Symbols for human-readable output
const (
	successSymbol = "✓"
	errorSymbol   = "✕"
)

// Error codes
const (
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeInvalidValue = "INVALID_VALUE"
	ErrCodeStoreRead    = "STORE_READ"
	ErrCodeStoreWrite   = "STORE_WRITE"
	ErrCodeConfig       = "CONFIG"
	ErrCodeNoTerminal   = "NO_TERMINAL"
)

// StateSymbol returns the symbol for a presence state
func StateSymbol(state presence.State) string {
	switch state {
	case presence.StateWork:
		return "●"
	case presence.StateThink:
		return "◐"
	case presence.StateIdle:
		return "○"
	case presence.StateAlert:
		return "✕"
	case presence.StateSleep:
		return "☾"
	default:
		return "?"
	}
}

// stringSource adapts a string slice for fuzzy matching
type stringSource []string

func (s stringSource) String(i int) string { return s[i] }
func (s stringSource) Len() int            { return len(s) }

// closestMatch returns the best fuzzy match for input among candidates,
// or "" when nothing is remotely close.
func closestMatch(input string, candidates []string) string {
	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(input)), stringSource(candidates))
	if len(matches) == 0 {
		return ""
	}
	return candidates[matches[0].Index]
}

// suggestState returns a "did you mean" hint for a misspelled state
func suggestState(input string) string {
	return closestMatch(input, presence.ValidStateNames())
}

// suggestTheme returns a "did you mean" hint for a misspelled theme
func suggestTheme(input string) string {
	return closestMatch(input, config.ValidThemes())
}
