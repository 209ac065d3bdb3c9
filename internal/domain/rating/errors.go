package rating

import "errors"

// Sentinel kinds for roster mutations. These allow errors.Is/As from callers.
var (
	// ErrUnknownPlayer means a reported name is not in the record set.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrDuplicatePlayer means AddPlayer hit an existing name.
	ErrDuplicatePlayer = errors.New("duplicate player")

	// ErrInvalidMatch means a report named the same player twice.
	ErrInvalidMatch = errors.New("invalid match")

	// ErrInvalidPlayer means an AddPlayer request was empty or malformed.
	ErrInvalidPlayer = errors.New("invalid player")
)
