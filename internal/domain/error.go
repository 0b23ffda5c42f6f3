package domain

import "errors"

var (
	// ErrInvalidInterval indicates a negative rotation interval.
	ErrInvalidInterval = errors.New("interval must not be negative")

	// ErrInvalidClock indicates a start/end time that is not HH:MM.
	ErrInvalidClock = errors.New("time must be in HH:MM format")

	// ErrUnknownWeekday indicates an unrecognized weekday name.
	ErrUnknownWeekday = errors.New("unknown weekday name")

	// ErrInvalidMonthDay indicates a day-of-month outside 1-31.
	ErrInvalidMonthDay = errors.New("monthly days must be between 1 and 31")

	// ErrNoTargets indicates an operation that needs at least one file target.
	ErrNoTargets = errors.New("no file targets configured")
)
