package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glimlab/glim/internal/config"
)

// freshConfigHome points config loading at an empty temp dir and clears
// the cache before and after, so tests see only their own settings.
func freshConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GLIM_HOME", dir)
	config.ClearUserConfigCache()
	t.Cleanup(config.ClearUserConfigCache)
	return dir
}

func TestPickProvided(t *testing.T) {
	tests := []struct {
		name     string
		provided map[string]bool
		wantVal  string
		wantOK   bool
	}{
		{"neither given", map[string]bool{}, "", false},
		{"short only", map[string]bool{"l": true}, "short", true},
		{"long only", map[string]bool{"letter": true}, "long", true},
		{"both given long wins", map[string]bool{"l": true, "letter": true}, "long", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, ok := pickProvided(tt.provided, "letter", "l", "long", "short")
			if val != tt.wantVal || ok != tt.wantOK {
				t.Errorf("pickProvided() = (%q, %v), want (%q, %v)", val, ok, tt.wantVal, tt.wantOK)
			}
		})
	}
}

func TestHandleConfigure_SavesSettings(t *testing.T) {
	freshConfigHome(t)

	handleConfigure([]string{"-l", "k", "-n", "kira", "-t", "600",
		"--sleep-start", "23", "--sleep-end", "7", "--theme", "light"})

	cfg, err := config.ReloadUserConfig()
	if err != nil {
		t.Fatalf("ReloadUserConfig: %v", err)
	}
	if cfg.Letter != "K" {
		t.Errorf("letter = %q, want K (uppercased)", cfg.Letter)
	}
	if cfg.Name != "KIRA" {
		t.Errorf("name = %q, want KIRA (uppercased)", cfg.Name)
	}
	if cfg.IdleTimeout != 600 {
		t.Errorf("idle_timeout = %d, want 600", cfg.IdleTimeout)
	}
	if cfg.SleepStart != 23 || cfg.SleepEnd != 7 {
		t.Errorf("sleep window = %d-%d, want 23-7", cfg.SleepStart, cfg.SleepEnd)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.Theme)
	}
}

func TestHandleConfigure_PartialUpdateKeepsOtherFields(t *testing.T) {
	freshConfigHome(t)

	handleConfigure([]string{"-l", "B", "-n", "BOLT"})
	handleConfigure([]string{"-t", "120"})

	cfg, err := config.ReloadUserConfig()
	if err != nil {
		t.Fatalf("ReloadUserConfig: %v", err)
	}
	if cfg.Letter != "B" || cfg.Name != "BOLT" {
		t.Errorf("letter/name = %s/%s, want B/BOLT preserved", cfg.Letter, cfg.Name)
	}
	if cfg.IdleTimeout != 120 {
		t.Errorf("idle_timeout = %d, want 120", cfg.IdleTimeout)
	}
}

func TestHandleConfigure_ZeroTimeoutDisablesDecay(t *testing.T) {
	freshConfigHome(t)

	handleConfigure([]string{"-t", "0"})

	cfg, err := config.ReloadUserConfig()
	if err != nil {
		t.Fatalf("ReloadUserConfig: %v", err)
	}
	if cfg.IdleTimeout != 0 {
		t.Errorf("idle_timeout = %d, want explicit 0", cfg.IdleTimeout)
	}
}

func TestHandleConfigure_ShowWritesNothing(t *testing.T) {
	dir := freshConfigHome(t)

	handleConfigure([]string{"--show"})

	if _, err := os.Stat(filepath.Join(dir, config.UserConfigFileName)); err == nil {
		t.Error("--show must not create the config file")
	}
}

func TestHandleConfigure_NoFlagsWritesNothing(t *testing.T) {
	dir := freshConfigHome(t)

	handleConfigure(nil)

	if _, err := os.Stat(filepath.Join(dir, config.UserConfigFileName)); err == nil {
		t.Error("configure with no flags must not create the config file")
	}
}
