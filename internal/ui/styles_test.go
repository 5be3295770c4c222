package ui

import (
	"testing"

	"github.com/glimlab/glim/internal/presence"
)

func TestColorsDefined(t *testing.T) {
	colors := []string{
		string(ColorBright),
		string(ColorDim),
		string(ColorMid),
		string(ColorMuted),
		string(ColorChrome),
		string(ColorIdle),
		string(ColorWork),
		string(ColorThink),
		string(ColorAlert),
		string(ColorSleep),
	}
	for _, c := range colors {
		if c == "" {
			t.Error("Color should not be empty")
		}
	}
}

func TestInitTheme_Dark(t *testing.T) {
	InitTheme("dark")
	if GetCurrentTheme() != ThemeDark {
		t.Errorf("Expected ThemeDark, got %v", GetCurrentTheme())
	}
	if ColorIdle != darkColors.Idle {
		t.Errorf("ColorIdle should be dark theme color")
	}
}

func TestInitTheme_Light(t *testing.T) {
	InitTheme("light")
	if GetCurrentTheme() != ThemeLight {
		t.Errorf("Expected ThemeLight, got %v", GetCurrentTheme())
	}
	if ColorIdle != lightColors.Idle {
		t.Errorf("ColorIdle should be light theme color")
	}
	// Reset to dark for other tests
	InitTheme("dark")
}

func TestInitTheme_InvalidFallsToDark(t *testing.T) {
	InitTheme("invalid")
	if GetCurrentTheme() != ThemeDark {
		t.Errorf("Invalid theme should fall back to dark")
	}
}

func TestStateColor(t *testing.T) {
	InitTheme("dark")
	tests := []struct {
		state presence.State
		want  string
	}{
		{presence.StateIdle, string(darkColors.Idle)},
		{presence.StateWork, string(darkColors.Work)},
		{presence.StateThink, string(darkColors.Think)},
		{presence.StateAlert, string(darkColors.Alert)},
		{presence.StateSleep, string(darkColors.Sleep)},
		{presence.State("bogus"), string(darkColors.Idle)},
	}
	for _, tt := range tests {
		if got := string(StateColor(tt.state)); got != tt.want {
			t.Errorf("StateColor(%q) = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestStateStyleCache_ReinitializedOnThemeChange(t *testing.T) {
	// Initialize with dark theme
	InitTheme("dark")
	darkWorkColor := ColorWork

	workStyle := GetStateStyle(presence.StateWork)
	if workStyle.GetForeground() != darkWorkColor {
		t.Errorf("work style should use dark theme green")
	}

	// Switch to light theme
	InitTheme("light")
	lightWorkColor := ColorWork

	workStyle = GetStateStyle(presence.StateWork)
	if workStyle.GetForeground() != lightWorkColor {
		t.Errorf("work style should use light theme green after theme change")
	}

	// Reset to dark for other tests
	InitTheme("dark")
}

func TestGetStateStyle_UnknownFallsBack(t *testing.T) {
	InitTheme("dark")
	style := GetStateStyle(presence.State("bogus"))
	if style.GetForeground() != ColorIdle {
		t.Errorf("unknown state should use the idle accent")
	}
}
