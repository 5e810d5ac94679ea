package core

import "errors"

// Sentinel errors shared by the numeric packages. Callers test with
// errors.Is; higher layers wrap them with asset or band context.
var (
	// ErrInsufficientData indicates a series too short for the requested
	// analysis (filter padding, band resolution, minimum cycle count).
	ErrInsufficientData = errors.New("core: insufficient data")

	// ErrInvalidInput indicates an empty series, mismatched lengths, or
	// non-finite samples.
	ErrInvalidInput = errors.New("core: invalid input")
)
