package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("team not found")
	ErrInvalidLimit = errors.New("invalid team limit")
	ErrNoSnapshot   = errors.New("basis has not been computed")
	ErrIncomplete   = errors.New("incomplete snapshot")
)
