package api

import "errors"

var (
	// ErrBadRequest indicates a request that could not be parsed or
	// carried malformed parameters.
	ErrBadRequest = errors.New("bad request")
)
