package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrParsingJobNotFound is returned when a parsing job is not found.
	ErrParsingJobNotFound = errors.New("parsing job not found")

	// ErrCandidateNotFound is returned when a candidate is not found.
	ErrCandidateNotFound = errors.New("candidate not found")
)
