package ui

import (
	"strings"

	"github.com/glimlab/glim/internal/presence"
)

// PulseWidth is the number of cells in the pulse line
const PulseWidth = 32

// BuildPulse renders one frame of the pulse line: a bright head at pos
// with a tail fading over circular distance. Sleeping flattens the
// whole line.
func BuildPulse(pos, width int, sleeping bool) string {
	if width <= 0 {
		return ""
	}
	if sleeping {
		return strings.Repeat("─", width)
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		dist := i - pos
		if dist < 0 {
			dist = -dist
		}
		if wrapped := width - dist; wrapped < dist {
			dist = wrapped
		}
		switch dist {
		case 0:
			b.WriteRune('█')
		case 1:
			b.WriteRune('▓')
		case 2:
			b.WriteRune('▒')
		case 3:
			b.WriteRune('░')
		default:
			b.WriteRune('─')
		}
	}
	return b.String()
}

// PulseStep returns how many cells the pulse head advances per tick.
// Busier states sweep faster; sleep does not move at all.
func PulseStep(state presence.State) int {
	switch state {
	case presence.StateWork:
		return 3
	case presence.StateThink:
		return 2
	case presence.StateAlert:
		return 4
	case presence.StateSleep:
		return 0
	default:
		return 1
	}
}

// GlowPeriod returns the number of ticks between monogram glow flips.
// 0 means the glow is frozen (sleep).
func GlowPeriod(state presence.State) int {
	switch state {
	case presence.StateWork:
		return 2
	case presence.StateThink:
		return 3
	case presence.StateAlert:
		return 1
	case presence.StateSleep:
		return 0
	default:
		return 4
	}
}
