package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/presence"
	"github.com/glimlab/glim/internal/store"
)

// newTestDisplay wires a display against a temp store with a pinned
// clock (2024-03-15 14:00 UTC) and no watchers.
func newTestDisplay(t *testing.T) (*Display, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GLIM_HOME", dir)
	config.ClearUserConfigCache()
	t.Cleanup(config.ClearUserConfigCache)

	st := store.New(dir)
	cfg := config.DefaultUserConfig()
	d := NewDisplay(st, nil, nil, &cfg, filepath.Join(dir, "monograms"))
	d.now = func() time.Time {
		return time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	}
	d.refresh()
	return d, st
}

func writeRecord(t *testing.T, st *store.Store, state presence.State, message string, at time.Time) {
	t.Helper()
	if err := st.Write(presence.NewRecord(state, message, at)); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestNewDisplay_BootstrapWhenStoreEmpty(t *testing.T) {
	d, _ := newTestDisplay(t)

	if d.phase != PhaseStarting {
		t.Errorf("phase = %v, want PhaseStarting", d.phase)
	}
	if d.effective.State != presence.StateIdle {
		t.Errorf("state = %q, want idle", d.effective.State)
	}
	if d.effective.Message != "" {
		t.Errorf("message = %q, want empty", d.effective.Message)
	}
	if d.record.UpdatedAt != d.startedAt.Unix() {
		t.Errorf("bootstrap timestamp = %d, want display start %d", d.record.UpdatedAt, d.startedAt.Unix())
	}
}

func TestDisplayInit_StartsRunning(t *testing.T) {
	d, _ := newTestDisplay(t)

	cmd := d.Init()
	if cmd == nil {
		t.Error("Init should return the tick command")
	}
	if d.Phase() != PhaseRunning {
		t.Errorf("phase = %v, want PhaseRunning", d.Phase())
	}
}

func TestDisplayQuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'Q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range keys {
		d, _ := newTestDisplay(t)
		d.Init()

		_, cmd := d.Update(msg)
		if cmd == nil {
			t.Errorf("key %v should produce a quit command", msg)
		}
		if d.Phase() != PhaseStopped {
			t.Errorf("key %v: phase = %v, want PhaseStopped", msg, d.Phase())
		}
	}
}

func TestDisplayIgnoresOtherKeys(t *testing.T) {
	d, _ := newTestDisplay(t)
	d.Init()

	_, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if d.Phase() != PhaseRunning {
		t.Errorf("phase = %v, want PhaseRunning after unbound key", d.Phase())
	}
}

func TestDisplayResize(t *testing.T) {
	d, _ := newTestDisplay(t)

	model, _ := d.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got, ok := model.(*Display)
	if !ok {
		t.Fatal("Update should return *Display")
	}
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.width, got.height)
	}
}

func TestDisplayTickPicksUpNewRecord(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateWork, "building index", d.now())

	_, cmd := d.Update(tickMsg(d.now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if d.effective.State != presence.StateWork {
		t.Errorf("state = %q, want work", d.effective.State)
	}
	if d.effective.Message != "building index" {
		t.Errorf("message = %q, want building index", d.effective.Message)
	}
}

func TestDisplayStatusChangedRefreshes(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateAlert, "tests failing", d.now())

	_, _ = d.Update(statusChangedMsg{})
	if d.effective.State != presence.StateAlert {
		t.Errorf("state = %q, want alert", d.effective.State)
	}
}

func TestDisplayStaleRecordRendersIdle(t *testing.T) {
	d, st := newTestDisplay(t)
	// 301s beats the default 300s timeout
	writeRecord(t, st, presence.StateWork, "old news", d.now().Add(-301*time.Second))

	d.refresh()
	if d.effective.State != presence.StateIdle {
		t.Errorf("state = %q, want idle after decay", d.effective.State)
	}
	if d.effective.Message != "" {
		t.Errorf("message = %q, want empty after decay", d.effective.Message)
	}
	// The stored record is untouched; only the rendering decays
	rec, err := st.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.State != presence.StateWork || rec.Message != "old news" {
		t.Errorf("stored record = %+v, want original work record", rec)
	}
}

func TestDisplaySleepWindowOverrides(t *testing.T) {
	d, st := newTestDisplay(t)
	d.cfg.SleepStart = 23
	d.cfg.SleepEnd = 7
	d.now = func() time.Time {
		return time.Date(2024, 3, 15, 2, 30, 0, 0, time.UTC)
	}
	writeRecord(t, st, presence.StateWork, "midnight build", d.now())

	d.refresh()
	if d.effective.State != presence.StateSleep {
		t.Errorf("state = %q, want sleep inside window", d.effective.State)
	}
	if d.effective.Message != "" {
		t.Errorf("message = %q, want cleared inside window", d.effective.Message)
	}
}

func TestDisplayCorruptRecordFallsBack(t *testing.T) {
	d, _ := newTestDisplay(t)

	dir := os.Getenv("GLIM_HOME")
	if err := os.WriteFile(filepath.Join(dir, store.StateFileName), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d.refresh()
	if d.effective.State != presence.StateIdle {
		t.Errorf("state = %q, want bootstrap idle", d.effective.State)
	}
}

func TestDisplayConfigChangedReloads(t *testing.T) {
	d, _ := newTestDisplay(t)
	dir := os.Getenv("GLIM_HOME")

	content := "letter = \"B\"\nname = \"BOLT\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.UserConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, _ = d.Update(configChangedMsg{})
	if d.cfg.Letter != "B" || d.cfg.Name != "BOLT" {
		t.Errorf("cfg = %s/%s, want B/BOLT", d.cfg.Letter, d.cfg.Name)
	}
	if !strings.Contains(strings.Join(d.monogram, "\n"), "B") {
		t.Error("monogram should be rebuilt for the new letter")
	}
}

func TestDisplayThemeChangedRestyles(t *testing.T) {
	d, _ := newTestDisplay(t)
	d.cfg.Theme = "system"
	InitTheme("dark")
	t.Cleanup(func() { InitTheme("dark") })

	_, _ = d.Update(themeChangedMsg{theme: ThemeLight})
	if GetCurrentTheme() != ThemeLight {
		t.Errorf("theme = %v, want light after the OS flip", GetCurrentTheme())
	}

	// An explicit theme ignores OS flips entirely
	d.cfg.Theme = "dark"
	InitTheme("dark")
	_, _ = d.Update(themeChangedMsg{theme: ThemeLight})
	if GetCurrentTheme() != ThemeDark {
		t.Errorf("theme = %v, want dark kept under an explicit setting", GetCurrentTheme())
	}
}

func TestDisplayPulseAdvancesPerState(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateWork, "", d.now())
	d.refresh()

	start := d.pulsePos
	_, _ = d.Update(tickMsg(d.now()))
	_, _ = d.Update(tickMsg(d.now()))
	moved := (d.pulsePos - start + PulseWidth) % PulseWidth
	if moved != 2*PulseStep(presence.StateWork) {
		t.Errorf("pulse moved %d cells over two ticks, want %d", moved, 2*PulseStep(presence.StateWork))
	}
}

func TestDisplayPulseFrozenDuringSleep(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateSleep, "", d.now())
	d.refresh()

	start := d.pulsePos
	_, _ = d.Update(tickMsg(d.now()))
	if d.pulsePos != start {
		t.Errorf("pulse moved during sleep: %d -> %d", start, d.pulsePos)
	}
}

func TestDisplayView_Layout(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateThink, "weighing options", d.now())
	d.refresh()
	d.width = 80
	d.height = 24

	view := d.View()
	if view == "" {
		t.Fatal("View should not be empty")
	}
	if !strings.Contains(view, "THINK") {
		t.Error("View should contain the state label THINK")
	}
	if !strings.Contains(view, "weighing options") {
		t.Error("View should contain the message")
	}
	if !strings.Contains(view, "14:00") {
		t.Error("View should contain the clock")
	}
	if !strings.Contains(view, "AGENT") {
		t.Error("View should contain the agent name")
	}
	if !strings.Contains(view, "█") {
		t.Error("View should contain the pulse head")
	}

	lines := strings.Split(view, "\n")
	if len(lines) != 24 {
		t.Errorf("View has %d lines, want 24", len(lines))
	}
}

func TestDisplayView_SleepFlatlinesPulse(t *testing.T) {
	d, st := newTestDisplay(t)
	writeRecord(t, st, presence.StateSleep, "", d.now())
	d.refresh()
	d.width = 80
	d.height = 24

	view := d.View()
	if strings.Contains(view, "█") {
		t.Error("sleeping view should not contain a pulse head")
	}
	if !strings.Contains(view, strings.Repeat("─", PulseWidth)) {
		t.Error("sleeping view should contain the flat pulse line")
	}
}

func TestDisplayView_TinyTerminal(t *testing.T) {
	d, _ := newTestDisplay(t)
	d.width = 10
	d.height = 4

	// Must not panic or index out of range
	view := d.View()
	if len(strings.Split(view, "\n")) != 4 {
		t.Errorf("tiny view should still have 4 lines")
	}
}

func TestDisplayView_ZeroSize(t *testing.T) {
	d, _ := newTestDisplay(t)
	if view := d.View(); view != "" {
		t.Errorf("View before first resize = %q, want empty", view)
	}
}

func TestCenterLine(t *testing.T) {
	style := MonogramBrightStyle
	got := centerLine(10, "ab", style)
	if !strings.HasPrefix(got, "    ") {
		t.Errorf("centerLine = %q, want 4 leading spaces", got)
	}

	// Wider than the line: truncated, no panic
	long := centerLine(4, "abcdefgh", style)
	if long == "" {
		t.Error("centerLine should truncate, not vanish")
	}
}

func TestCornerLine(t *testing.T) {
	got := cornerLine(10, "", NameStyle)
	if !strings.HasPrefix(got, "+") || !strings.HasSuffix(got, "+") {
		t.Errorf("cornerLine = %q, want + at both ends", got)
	}

	labeled := cornerLine(20, "AGENT", NameStyle)
	if !strings.Contains(labeled, "AGENT") {
		t.Errorf("cornerLine = %q, want label inside", labeled)
	}
	if !strings.HasPrefix(labeled, "+") || !strings.HasSuffix(labeled, "+") {
		t.Errorf("cornerLine = %q, want + at both ends", labeled)
	}
}
