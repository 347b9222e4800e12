package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Typed errors below match them with errors.Is.
var (
	ErrMissingAthlete     = errors.New("athlete missing from one competition day")
	ErrDuplicateAthlete   = errors.New("athlete listed twice for one competition day")
	ErrInsufficientRoster = errors.New("roster too small to form a team")
	ErrMalformedScore     = errors.New("malformed event score")
	ErrUnknownBasis       = errors.New("unknown scoring basis")
	ErrUnknownEvent       = errors.New("unknown event")
)

// MissingAthleteError reports an athlete present on one day but absent on the other.
type MissingAthleteError struct {
	Name string
	// Day is the day the athlete is missing from ("day1" or "day2").
	Day string
}

func (e *MissingAthleteError) Error() string {
	return fmt.Sprintf("athlete %q has no %s results", e.Name, e.Day)
}

// Is reports whether target is ErrMissingAthlete.
func (e *MissingAthleteError) Is(target error) bool { return target == ErrMissingAthlete }

// InsufficientRosterError reports a roster smaller than one team.
type InsufficientRosterError struct {
	Size     int
	Required int
}

func (e *InsufficientRosterError) Error() string {
	return fmt.Sprintf("roster has %d athletes, need at least %d", e.Size, e.Required)
}

// Is reports whether target is ErrInsufficientRoster.
func (e *InsufficientRosterError) Is(target error) bool { return target == ErrInsufficientRoster }

// MalformedScoreError reports a non-numeric or out-of-range score.
type MalformedScoreError struct {
	Athlete string
	Event   Event
	Day     string
	Raw     string
	Reason  string
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("%s %s score for %q is malformed (%q): %s", e.Day, e.Event, e.Athlete, e.Raw, e.Reason)
}

// Is reports whether target is ErrMalformedScore.
func (e *MalformedScoreError) Is(target error) bool { return target == ErrMalformedScore }
