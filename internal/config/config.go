// Package config loads and persists glim's user preferences.
//
// Settings live in a single TOML file under the glim data directory
// (~/.glim by default, overridable via GLIM_HOME). Loads are cached for
// the life of the process; the display loop calls ReloadUserConfig when
// the file watcher reports a change on disk.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"

	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/glimlab/glim/internal/logging"
	"github.com/glimlab/glim/internal/presence"
)

var configLog = logging.ForComponent(logging.CompConfig)

// UserConfigFileName is the TOML config file for user preferences
const UserConfigFileName = "config.toml"

// MonogramsDirName holds optional custom monogram art, one file per letter
const MonogramsDirName = "monograms"

// LogsDirName holds the rotating log file written by the display process
const LogsDirName = "logs"

// Defaults applied when the config file is missing or a field is absent
const (
	DefaultLetter      = "A"
	DefaultName        = "AGENT"
	DefaultIdleTimeout = 300
	DefaultTheme       = "dark"
)

// UserConfig represents user-facing configuration in TOML format
type UserConfig struct {
	// Letter is the monogram initial drawn in the center of the display
	// Must be a single A-Z character; anything else falls back to "A"
	Letter string `toml:"letter"`

	// Name is the label shown at the bottom of the display, stored uppercase
	Name string `toml:"name"`

	// IdleTimeout is the staleness cutoff in seconds
	// A record older than this renders as idle; 0 disables decay
	IdleTimeout int `toml:"idle_timeout"`

	// SleepStart and SleepEnd bound the nightly sleep window by hour (0-23)
	// The window may wrap past midnight; equal values disable it
	SleepStart int `toml:"sleep_start"`
	SleepEnd   int `toml:"sleep_end"`

	// Theme sets the color scheme: "dark" (default), "light", or "system"
	Theme string `toml:"theme"`
}

// Default user config, used when no file exists yet
var defaultUserConfig = UserConfig{
	Letter:      DefaultLetter,
	Name:        DefaultName,
	IdleTimeout: DefaultIdleTimeout,
	Theme:       DefaultTheme,
}

// DefaultUserConfig returns a copy of the built-in defaults
func DefaultUserConfig() UserConfig {
	return defaultUserConfig
}

// GetGlimDir returns the base glim data directory (~/.glim).
// GLIM_HOME overrides the default so tests and multiple agents on one
// machine never share state.
func GetGlimDir() (string, error) {
	if dir := os.Getenv("GLIM_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".glim"), nil
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	dir, err := GetGlimDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFileName), nil
}

// GetMonogramsDir returns the directory holding custom monogram art
func GetMonogramsDir() (string, error) {
	dir, err := GetGlimDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, MonogramsDirName), nil
}

// GetLogsDir returns the directory the display process logs to
func GetLogsDir() (string, error) {
	dir, err := GetGlimDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// Cache for user config (loaded once per process)
var (
	userConfigCache   *UserConfig
	userConfigCacheMu sync.RWMutex
)

// LoadUserConfig loads the user configuration from the TOML file.
// Missing fields keep their defaults, so an explicit idle_timeout = 0
// stays 0 while an absent one becomes 300. Returns cached config after
// the first load.
func LoadUserConfig() (*UserConfig, error) {
	userConfigCacheMu.RLock()
	if userConfigCache != nil {
		defer userConfigCacheMu.RUnlock()
		return userConfigCache, nil
	}
	userConfigCacheMu.RUnlock()

	userConfigCacheMu.Lock()
	defer userConfigCacheMu.Unlock()

	// Double-check after acquiring write lock
	if userConfigCache != nil {
		return userConfigCache, nil
	}

	config := defaultUserConfig

	configPath, err := GetUserConfigPath()
	if err != nil {
		userConfigCache = &config
		return userConfigCache, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No file yet, run with defaults
		userConfigCache = &config
		return userConfigCache, nil
	}

	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		// Return error so the caller can surface it, but cache the
		// defaults to prevent repeated parse attempts. A failed decode
		// may have half-filled config, so start over from a clean copy.
		fallback := defaultUserConfig
		userConfigCache = &fallback
		return userConfigCache, fmt.Errorf("config.toml parse error: %w", err)
	}

	config.Normalize()
	userConfigCache = &config
	return userConfigCache, nil
}

// ReloadUserConfig forces a reload of the user config
func ReloadUserConfig() (*UserConfig, error) {
	userConfigCacheMu.Lock()
	userConfigCache = nil
	userConfigCacheMu.Unlock()
	configLog.Debug("config_reload")
	return LoadUserConfig()
}

// SaveUserConfig writes the config to config.toml using atomic write pattern
// This clears the cache so next LoadUserConfig() reads fresh values
func SaveUserConfig(config *UserConfig) error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Build config content in memory first
	var buf bytes.Buffer
	if _, err := buf.WriteString("# glim configuration\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := buf.WriteString("# Edit this file or run: glim configure\n\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Write to a temp file, fsync it, then rename into place so a crash
	// mid-save cannot leave a truncated config behind.
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := syncConfigFile(tmpPath); err != nil {
		configLog.Warn("config_fsync_failed", "error", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize config save: %w", err)
	}

	// Clear cache so next load picks up changes
	ClearUserConfigCache()
	configLog.Debug("config_saved", "path", configPath)

	return nil
}

// syncConfigFile calls fsync on a file to ensure data is written to disk
func syncConfigFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// ClearUserConfigCache clears the cached user config, allowing tests to reset state
// This does NOT reload - the next LoadUserConfig() call will read fresh from disk
func ClearUserConfigCache() {
	userConfigCacheMu.Lock()
	userConfigCache = nil
	userConfigCacheMu.Unlock()
}

// Normalize clamps every field to a usable value in place.
// Unknown themes, out-of-range hours and multi-rune letters all fall
// back rather than error, so a hand-edited file can never brick the
// display.
func (c *UserConfig) Normalize() {
	c.Letter = NormalizeLetter(c.Letter)
	c.Name = strings.ToUpper(strings.TrimSpace(c.Name))
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.IdleTimeout < 0 {
		c.IdleTimeout = 0
	}
	c.SleepStart = clampHour(c.SleepStart)
	c.SleepEnd = clampHour(c.SleepEnd)
	switch c.Theme {
	case "dark", "light", "system":
	default:
		c.Theme = DefaultTheme
	}
}

// NormalizeLetter uppercases a candidate monogram letter, falling back
// to DefaultLetter unless it is exactly one A-Z rune.
func NormalizeLetter(letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if ValidLetter(letter) {
		return letter
	}
	return DefaultLetter
}

// ValidLetter reports whether letter is a single A-Z character
func ValidLetter(letter string) bool {
	return len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'Z'
}

// LetterFor derives a monogram letter from an agent name: the first
// rune that uppercases to A-Z. Falls back to DefaultLetter.
func LetterFor(name string) string {
	for _, r := range name {
		u := unicode.ToUpper(r)
		if u >= 'A' && u <= 'Z' {
			return string(u)
		}
	}
	return DefaultLetter
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

// Presence converts the stored settings into the resolver's terms
func (c *UserConfig) Presence() presence.Config {
	return presence.Config{
		IdleTimeout:    time.Duration(c.IdleTimeout) * time.Second,
		SleepStartHour: c.SleepStart,
		SleepEndHour:   c.SleepEnd,
	}
}

// GetTheme returns the configured theme, defaulting to "dark"
func GetTheme() string {
	config, err := LoadUserConfig()
	if err != nil || config == nil {
		return "dark"
	}
	switch config.Theme {
	case "dark", "light", "system":
		return config.Theme
	default:
		return "dark"
	}
}

// ResolveTheme resolves the configured theme to "dark" or "light".
// If theme is "system", detects the OS dark mode setting.
// Falls back to "dark" on detection failure.
func ResolveTheme() string {
	theme := GetTheme()
	if theme != "system" {
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil {
		return "dark"
	}
	if isDark {
		return "dark"
	}
	return "light"
}

// ValidThemes lists the accepted theme names
func ValidThemes() []string {
	return []string{"dark", "light", "system"}
}
