package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/glimlab/glim/internal/presence"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// currentTheme holds the active theme (set at init)
var currentTheme Theme = ThemeDark

// Dark Theme - grayscale ramp plus dusty state accents.
// The accents are the hex equivalents of xterm-256 colors 73, 108,
// 179, 167 and 67, picked to read well on a dim spare monitor.
var darkColors = struct {
	Bright, Dim, Mid, Muted, Chrome lipgloss.Color
	Idle, Work, Think, Alert, Sleep lipgloss.Color
}{
	Bright: lipgloss.Color("#d0d0d0"),
	Dim:    lipgloss.Color("#a8a8a8"),
	Mid:    lipgloss.Color("#808080"),
	Muted:  lipgloss.Color("#585858"),
	Chrome: lipgloss.Color("#303030"),
	Idle:   lipgloss.Color("#5fafaf"),
	Work:   lipgloss.Color("#87af87"),
	Think:  lipgloss.Color("#d7af5f"),
	Alert:  lipgloss.Color("#d75f5f"),
	Sleep:  lipgloss.Color("#5f87af"),
}

// Light Theme - Tokyo Night Light variant
var lightColors = struct {
	Bright, Dim, Mid, Muted, Chrome lipgloss.Color
	Idle, Work, Think, Alert, Sleep lipgloss.Color
}{
	Bright: lipgloss.Color("#343b58"),
	Dim:    lipgloss.Color("#565a6e"),
	Mid:    lipgloss.Color("#6a6d7c"),
	Muted:  lipgloss.Color("#878b99"),
	Chrome: lipgloss.Color("#9699a3"),
	Idle:   lipgloss.Color("#166775"),
	Work:   lipgloss.Color("#485e30"),
	Think:  lipgloss.Color("#8f5e15"),
	Alert:  lipgloss.Color("#8c4351"),
	Sleep:  lipgloss.Color("#34548a"),
}

// Active color variables (set by InitTheme)
var (
	ColorBright lipgloss.Color
	ColorDim    lipgloss.Color
	ColorMid    lipgloss.Color
	ColorMuted  lipgloss.Color
	ColorChrome lipgloss.Color
	ColorIdle   lipgloss.Color
	ColorWork   lipgloss.Color
	ColorThink  lipgloss.Color
	ColorAlert  lipgloss.Color
	ColorSleep  lipgloss.Color
)

// themeMu protects global color/style variables during live theme switches.
// Write lock held by InitTheme; read lock held by GetStateStyle (map access).
var themeMu sync.RWMutex

// InitTheme sets the active color palette based on theme name
// Must be called before any UI rendering
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	if theme == "light" {
		currentTheme = ThemeLight
		ColorBright = lightColors.Bright
		ColorDim = lightColors.Dim
		ColorMid = lightColors.Mid
		ColorMuted = lightColors.Muted
		ColorChrome = lightColors.Chrome
		ColorIdle = lightColors.Idle
		ColorWork = lightColors.Work
		ColorThink = lightColors.Think
		ColorAlert = lightColors.Alert
		ColorSleep = lightColors.Sleep
	} else {
		currentTheme = ThemeDark
		ColorBright = darkColors.Bright
		ColorDim = darkColors.Dim
		ColorMid = darkColors.Mid
		ColorMuted = darkColors.Muted
		ColorChrome = darkColors.Chrome
		ColorIdle = darkColors.Idle
		ColorWork = darkColors.Work
		ColorThink = darkColors.Think
		ColorAlert = darkColors.Alert
		ColorSleep = darkColors.Sleep
	}
	// Reinitialize styles with new colors
	initStyles()
}

// GetCurrentTheme returns the active theme
func GetCurrentTheme() Theme {
	return currentTheme
}

func init() {
	// Default to dark theme at package init
	InitTheme("dark")
}

// Monogram Styles (glow alternates between bright and dim; sleep
// freezes on the mid gray)
var (
	MonogramBrightStyle lipgloss.Style
	MonogramDimStyle    lipgloss.Style
	MonogramSleepStyle  lipgloss.Style
)

// Chrome Styles (clock, frame corners, agent name)
var (
	ClockStyle  lipgloss.Style
	NameStyle   lipgloss.Style
	CornerStyle lipgloss.Style
)

// MessageStyle renders the free-form status message line
var MessageStyle lipgloss.Style

// PulseSleepStyle renders the flatlined pulse during sleep
var PulseSleepStyle lipgloss.Style

// CLI Output Styles
var (
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	DimStyle     lipgloss.Style
)

// StateStyleCache provides pre-allocated accent styles per state
// (pulse line and state label). Avoids repeated lipgloss.NewStyle()
// calls on every View()
var StateStyleCache map[presence.State]lipgloss.Style

// DefaultStateStyle is used when a state is not in the cache
var DefaultStateStyle lipgloss.Style

// initStyles initializes all style variables with current theme colors
// Called by InitTheme after color variables are set
func initStyles() {
	MonogramBrightStyle = lipgloss.NewStyle().Foreground(ColorBright)
	MonogramDimStyle = lipgloss.NewStyle().Foreground(ColorDim)
	MonogramSleepStyle = lipgloss.NewStyle().Foreground(ColorMid)

	ClockStyle = lipgloss.NewStyle().Foreground(ColorChrome)
	NameStyle = lipgloss.NewStyle().Foreground(ColorChrome)
	CornerStyle = lipgloss.NewStyle().Foreground(ColorChrome)

	MessageStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	PulseSleepStyle = lipgloss.NewStyle().Foreground(ColorChrome)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(ColorWork).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorAlert).
		Bold(true)

	DimStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	// StateStyleCache - reinitialize with current theme colors
	StateStyleCache = map[presence.State]lipgloss.Style{
		presence.StateIdle:  lipgloss.NewStyle().Foreground(ColorIdle),
		presence.StateWork:  lipgloss.NewStyle().Foreground(ColorWork),
		presence.StateThink: lipgloss.NewStyle().Foreground(ColorThink),
		presence.StateAlert: lipgloss.NewStyle().Foreground(ColorAlert),
		presence.StateSleep: lipgloss.NewStyle().Foreground(ColorSleep),
	}

	DefaultStateStyle = lipgloss.NewStyle().Foreground(ColorIdle)
}

// StateColor returns the accent color for a presence state
func StateColor(state presence.State) lipgloss.Color {
	switch state {
	case presence.StateIdle:
		return ColorIdle
	case presence.StateWork:
		return ColorWork
	case presence.StateThink:
		return ColorThink
	case presence.StateAlert:
		return ColorAlert
	case presence.StateSleep:
		return ColorSleep
	default:
		return ColorIdle
	}
}

// GetStateStyle returns the cached accent style for a state.
// Read-locked to protect against concurrent map access during live
// theme switches.
func GetStateStyle(state presence.State) lipgloss.Style {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if style, ok := StateStyleCache[state]; ok {
		return style
	}
	return DefaultStateStyle
}
