package domain

import (
	"strings"
	"time"
)

// ParseWeekday maps a config spelling to time.Weekday. The accepted
// abbreviations mirror what the config file has historically allowed.
func ParseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(s) {
	case "sun":
		return time.Sunday, true
	case "mon":
		return time.Monday, true
	case "tue", "tues":
		return time.Tuesday, true
	case "wed":
		return time.Wednesday, true
	case "thu", "thur", "thurs":
		return time.Thursday, true
	case "fri":
		return time.Friday, true
	case "sat":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

// ParseClock parses "HH:MM" and returns the second-of-day it denotes.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// ShouldRun reports whether rotation is allowed at now under cfg's schedule
// constraints. Pure and total: malformed weekday names never match, and a
// malformed start/end time is skipped as if the bound were absent.
//
// A nil Weekly or Monthly slice means unrestricted; an empty non-nil slice
// matches no day at all.
func ShouldRun(now time.Time, cfg Config) bool {
	if cfg.Weekly != nil {
		matched := false
		for _, name := range cfg.Weekly {
			if day, ok := ParseWeekday(name); ok && day == now.Weekday() {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if cfg.Monthly != nil {
		matched := false
		for _, day := range cfg.Monthly {
			if day == now.Day() {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	sec := secondOfDay(now)

	if cfg.StartTime != "" {
		if start, err := ParseClock(cfg.StartTime); err == nil && sec < start {
			return false
		}
	}

	if cfg.EndTime != "" {
		if end, err := ParseClock(cfg.EndTime); err == nil && sec > end {
			return false
		}
	}

	return true
}
