package repository

import "errors"

// Sentinel kinds for roster storage errors.
var (
	ErrReadStore  = errors.New("roster read failed")
	ErrWriteStore = errors.New("roster write failed")
)
