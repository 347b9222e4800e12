package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotReady      = errors.New("results have not been computed")
	ErrUnknownFormat = errors.New("unknown output format")
)
