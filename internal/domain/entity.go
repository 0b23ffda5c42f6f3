package domain

import "time"

// Config represents the rotation preferences in the domain.
// This is a pure domain model with no dependencies on external concerns.
type Config struct {
	Interval         time.Duration
	StartTime        string // "HH:MM", empty means no lower bound
	EndTime          string // "HH:MM", empty means no upper bound
	Weekly           []string
	Monthly          []int
	DefaultWallpaper string
	FileTargets      []string
	Random           bool

	// Window geometry persisted on behalf of the UI.
	// The rotation core never reads these.
	WindowWidth     int
	WindowHeight    int
	WindowMinimized bool
}

// RotationState represents the mutable state owned by the rotation loop.
type RotationState struct {
	// OriginalWallpaper is the background in effect before rotation ever
	// activated. Captured once at startup, restored on deactivation and exit.
	OriginalWallpaper string
	Active            bool
	// Cursor is the next sequential index to show. nil until sequential
	// rotation has produced its first pick since the last reset.
	Cursor    *int
	LastShown string
	// LastRandom remembers the randomMode observed on the previous cycle so
	// a random-to-sequential transition can be detected.
	LastRandom bool
}

// Snapshot represents a complete view of the system state.
type Snapshot struct {
	Config Config
	State  RotationState
}

// DefaultInterval is used whenever the configured interval is zero.
const DefaultInterval = 60 * time.Second

// DefaultConfig returns the initial configuration values.
func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		Random:   true,
	}
}

// EffectiveInterval coerces a zero or negative interval to the default.
// The loop calls this on every cycle, so an interval of 0 in a stored
// configuration behaves as 60s without being rewritten on disk.
func (c Config) EffectiveInterval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return c.Interval
}

// Validate checks user-edited configuration values. The rotation loop itself
// stays lenient (malformed schedule strings are skipped by ShouldRun); this
// is only enforced at the edges where a human just typed the value.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if c.StartTime != "" {
		if _, err := ParseClock(c.StartTime); err != nil {
			return err
		}
	}
	if c.EndTime != "" {
		if _, err := ParseClock(c.EndTime); err != nil {
			return err
		}
	}
	for _, name := range c.Weekly {
		if _, ok := ParseWeekday(name); !ok {
			return ErrUnknownWeekday
		}
	}
	for _, day := range c.Monthly {
		if day < 1 || day > 31 {
			return ErrInvalidMonthDay
		}
	}
	return nil
}

// DedupeTargets returns paths with duplicates removed, first occurrence wins.
// Target lists are deduplicated at the point of modification, never at read
// time, so insertion order stays meaningful for sequential mode.
func DedupeTargets(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
