package ui

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/time/rate"

	"github.com/glimlab/glim/internal/config"
	"github.com/glimlab/glim/internal/logging"
	"github.com/glimlab/glim/internal/presence"
	"github.com/glimlab/glim/internal/store"
)

var uiLog = logging.ForComponent(logging.CompUI)

// tickInterval drives the render loop. Presence only changes at second
// granularity, so one beat per second is plenty.
const tickInterval = time.Second

// refreshBurst caps how many watcher-triggered refreshes may run back
// to back; past that the next tick picks up whatever was dropped
const refreshBurst = 4

// tickMsg is sent by the tick loop
type tickMsg time.Time

// Messages produced by the listen commands
type (
	statusChangedMsg struct{}
	configChangedMsg struct{}
	themeChangedMsg  struct{ theme Theme }
)

// Phase tracks the display lifecycle
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseRunning
	PhaseStopped
)

// quitKeys ends the display, mirroring the classic q/Q/ESC bindings
var quitKeys = key.NewBinding(key.WithKeys("q", "Q", "esc", "ctrl+c"))

// Display is the full-screen presence model: monogram, pulse line,
// state label and message, re-resolved against the on-disk record
// every tick.
type Display struct {
	store   *store.Store
	watcher *store.DataWatcher
	themes  *ThemeWatcher

	cfg          config.UserConfig
	monogramsDir string
	monogram     []string

	phase     Phase
	startedAt time.Time
	record    presence.Record
	effective presence.Effective

	frame    int
	pulsePos int
	width    int
	height   int

	// refreshLimit sheds watcher bursts from a hot writer; dropped
	// refreshes are recovered by the next tick
	refreshLimit *rate.Limiter

	now func() time.Time
}

// NewDisplay builds the model and performs the initial read so the
// first frame already shows real data.
func NewDisplay(st *store.Store, watcher *store.DataWatcher, themes *ThemeWatcher, cfg *config.UserConfig, monogramsDir string) *Display {
	d := &Display{
		store:        st,
		watcher:      watcher,
		themes:       themes,
		cfg:          *cfg,
		monogramsDir: monogramsDir,
		phase:        PhaseStarting,
		startedAt:    time.Now(),
		refreshLimit: rate.NewLimiter(rate.Every(200*time.Millisecond), refreshBurst),
		now:          time.Now,
	}
	d.monogram = LoadMonogram(monogramsDir, d.cfg.Letter)
	d.refresh()
	return d
}

// Phase returns the current lifecycle phase
func (d *Display) Phase() Phase {
	return d.phase
}

// Effective returns the most recently resolved presence
func (d *Display) Effective() presence.Effective {
	return d.effective
}

// Init starts the tick loop and the watcher listeners
func (d *Display) Init() tea.Cmd {
	d.phase = PhaseRunning
	uiLog.Debug("display_started", "letter", d.cfg.Letter, "name", d.cfg.Name)

	cmds := []tea.Cmd{d.tick()}
	if d.watcher != nil {
		cmds = append(cmds, listenForDataChanges(d.watcher))
	}
	if d.themes != nil {
		cmds = append(cmds, listenForThemeChanges(d.themes))
	}
	return tea.Batch(cmds...)
}

// tick schedules the next animation beat
func (d *Display) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenForDataChanges waits for the next on-disk change to a watched
// file and maps it to the matching message
func listenForDataChanges(dw *store.DataWatcher) tea.Cmd {
	return func() tea.Msg {
		if dw == nil {
			return nil
		}
		change, ok := <-dw.Changes()
		if !ok {
			return nil
		}
		if change.File == config.UserConfigFileName {
			return configChangedMsg{}
		}
		return statusChangedMsg{}
	}
}

// listenForThemeChanges waits for the next OS appearance flip
func listenForThemeChanges(tw *ThemeWatcher) tea.Cmd {
	return func() tea.Msg {
		if tw == nil {
			return nil
		}
		theme, ok := <-tw.ChangeChannel()
		if !ok {
			return nil
		}
		return themeChangedMsg{theme: theme}
	}
}

func (d *Display) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tea.KeyMsg:
		if key.Matches(msg, quitKeys) {
			d.phase = PhaseStopped
			uiLog.Debug("display_quit")
			return d, tea.Quit
		}
		return d, nil

	case tickMsg:
		d.frame++
		d.refresh()
		d.advancePulse()
		return d, d.tick()

	case statusChangedMsg:
		// Fast path between ticks so a new record shows up right away
		if d.refreshLimit.Allow() {
			d.refresh()
		}
		return d, listenForDataChanges(d.watcher)

	case configChangedMsg:
		d.reloadConfig()
		return d, listenForDataChanges(d.watcher)

	case themeChangedMsg:
		if d.cfg.Theme == "system" {
			InitTheme(string(msg.theme))
			uiLog.Debug("theme_switched", "theme", string(msg.theme))
		}
		return d, listenForThemeChanges(d.themes)
	}
	return d, nil
}

// refresh re-reads the record and re-resolves the effective presence.
// A missing or corrupt record degrades to the bootstrap default
// stamped with the display's start time; nothing is ever written back.
func (d *Display) refresh() {
	rec, err := d.store.Read()
	if err != nil {
		rec = presence.BootstrapRecord(d.startedAt)
		if !errors.Is(err, fs.ErrNotExist) {
			uiLog.Warn("record_unreadable", "error", err)
		}
	}

	eff := presence.Resolve(rec, d.cfg.Presence(), d.now())
	if eff != d.effective {
		uiLog.Debug("presence_changed",
			"state", string(eff.State),
			"message", eff.Message)
	}
	d.record = rec
	d.effective = eff
}

// reloadConfig picks up an edited config.toml without restarting.
// A file that fails to parse keeps the previous good settings.
func (d *Display) reloadConfig() {
	cfg, err := config.ReloadUserConfig()
	if err != nil {
		uiLog.Warn("config_reload_failed", "error", err)
		return
	}
	if cfg.Letter != d.cfg.Letter {
		d.monogram = LoadMonogram(d.monogramsDir, cfg.Letter)
	}
	if cfg.Theme != d.cfg.Theme {
		InitTheme(config.ResolveTheme())
	}
	d.cfg = *cfg
	d.refresh()
}

func (d *Display) advancePulse() {
	step := PulseStep(d.effective.State)
	if step == 0 {
		return
	}
	d.pulsePos = (d.pulsePos + step) % PulseWidth
}

// monogramStyle picks the glow style for the current frame
func (d *Display) monogramStyle() lipgloss.Style {
	if d.effective.State == presence.StateSleep {
		return MonogramSleepStyle
	}
	period := GlowPeriod(d.effective.State)
	if period <= 0 {
		return MonogramDimStyle
	}
	if (d.frame/period)%2 == 0 {
		return MonogramBrightStyle
	}
	return MonogramDimStyle
}

// View lays the screen out the way the classic display did: clock up
// top, monogram above center, pulse line beneath it, then the state
// label and message, with corner marks and the agent name framing it.
func (d *Display) View() string {
	if d.width <= 0 || d.height <= 0 {
		return ""
	}

	lines := make([]string, d.height)
	set := func(row int, s string) {
		if row >= 0 && row < len(lines) {
			lines[row] = s
		}
	}

	sleeping := d.effective.State == presence.StateSleep
	accent := GetStateStyle(d.effective.State)

	markY := d.height/2 - len(d.monogram)/2 - 3
	glow := d.monogramStyle()
	for i, row := range d.monogram {
		set(markY+i, centerLine(d.width, row, glow))
	}

	pulseY := markY + len(d.monogram) + 1
	pulse := BuildPulse(d.pulsePos, PulseWidth, sleeping)
	if sleeping {
		set(pulseY, centerLine(d.width, pulse, PulseSleepStyle))
	} else {
		set(pulseY, centerLine(d.width, pulse, accent))
	}

	set(pulseY+3, centerLine(d.width, strings.ToUpper(string(d.effective.State)), accent))

	if d.effective.Message != "" {
		msg := runewidth.Truncate(d.effective.Message, d.width-4, "…")
		set(pulseY+5, centerLine(d.width, msg, MessageStyle))
	}

	// Chrome last so it stays visible on cramped terminals
	set(0, cornerLine(d.width, "", NameStyle))
	set(1, centerLine(d.width, d.now().Format("15:04"), ClockStyle))
	set(d.height-2, cornerLine(d.width, d.cfg.Name, NameStyle))

	return strings.Join(lines, "\n")
}

// centerLine pads s to the horizontal center of width and styles it
func centerLine(width int, s string, style lipgloss.Style) string {
	w := runewidth.StringWidth(s)
	if w > width {
		s = runewidth.Truncate(s, width, "")
		w = runewidth.StringWidth(s)
	}
	pad := (width - w) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + style.Render(s)
}

// cornerLine draws the "+" frame marks with an optional centered label.
// The right mark sits one column in from the edge, like the original
// curses layout.
func cornerLine(width int, label string, labelStyle lipgloss.Style) string {
	corner := CornerStyle.Render("+")
	if width < 4 {
		return corner
	}

	interior := width - 3
	lw := runewidth.StringWidth(label)
	if lw > interior {
		label = runewidth.Truncate(label, interior, "")
		lw = runewidth.StringWidth(label)
	}
	if label == "" {
		return corner + strings.Repeat(" ", interior) + corner
	}

	left := (interior - lw) / 2
	right := interior - lw - left
	return corner + strings.Repeat(" ", left) + labelStyle.Render(label) + strings.Repeat(" ", right) + corner
}
