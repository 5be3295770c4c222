package presence

import "time"

// Config is the slice of user configuration the resolver needs. Callers pass
// it on every call; the resolver holds no state between calls.
type Config struct {
	// IdleTimeout is how long a record stays fresh. Zero disables decay.
	IdleTimeout time.Duration

	// SleepStartHour and SleepEndHour bound the daily sleep window
	// [start, end) in local wall-clock hours. The window wraps past
	// midnight when start > end. Equal values mean no window.
	SleepStartHour int
	SleepEndHour   int
}

// Effective is what the display actually renders. It is recomputed from
// (Record, Config, now) on every tick and never persisted.
type Effective struct {
	State   State
	Message string
}

// Resolve computes the effective state for a record at the given time.
//
// Precedence:
//  1. Inside the sleep window the result is always {sleep, ""}. The window
//     clears the message even when the writer explicitly submitted sleep.
//  2. Otherwise a record older than the idle timeout resolves to {idle, ""},
//     whatever its persisted state. The stale message is dropped because it
//     no longer describes current activity.
//  3. Otherwise the record passes through verbatim.
func Resolve(rec Record, cfg Config, now time.Time) Effective {
	if inSleepWindow(now.Hour(), cfg.SleepStartHour, cfg.SleepEndHour) {
		return Effective{State: StateSleep, Message: ""}
	}

	if cfg.IdleTimeout > 0 {
		elapsed := now.Sub(rec.Updated())
		if elapsed < 0 {
			// Future timestamp (clock skew). Never decays.
			elapsed = 0
		}
		if elapsed >= cfg.IdleTimeout {
			return Effective{State: StateIdle, Message: ""}
		}
	}

	return Effective{State: rec.State, Message: rec.Message}
}

// inSleepWindow reports whether hour falls in [start, end), wrapping past
// midnight when start > end. start == end is the empty window.
func inSleepWindow(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
