// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Event identifies a competition apparatus.
type Event int

// Apparatus in Olympic order. AllAround is a derived metric and is not part of Events.
const (
	Vault Event = iota
	Bars
	Beam
	Floor
	AllAround
)

// NumEvents is the number of apparatus contested by every athlete.
const NumEvents = 4

// Events lists the contested apparatus in scoring order.
var Events = [NumEvents]Event{Vault, Bars, Beam, Floor} //nolint:gochecknoglobals // fixed apparatus order

// String returns the column name used in result sheets.
func (e Event) String() string {
	switch e {
	case Vault:
		return "Vault"
	case Bars:
		return "Bars"
	case Beam:
		return "Beam"
	case Floor:
		return "Floor"
	case AllAround:
		return "AA"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// ParseEvent accepts an apparatus name (case-insensitive). "AA" and
// "all-around" map to AllAround.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vault", "vt":
		return Vault, nil
	case "bars", "ub", "uneven bars":
		return Bars, nil
	case "beam", "bb":
		return Beam, nil
	case "floor", "fx":
		return Floor, nil
	case "aa", "all-around", "allaround", "all around":
		return AllAround, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Basis selects which score set ranks teams and athletes.
type Basis int

// Scoring bases.
const (
	Day1 Basis = iota
	Day2
	Average
)

// Bases lists every scoring basis in processing order.
var Bases = []Basis{Day1, Day2, Average} //nolint:gochecknoglobals // fixed basis order

// String returns the short basis key (day1, day2, avg).
func (b Basis) String() string {
	switch b {
	case Day1:
		return "day1"
	case Day2:
		return "day2"
	case Average:
		return "avg"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// SheetName returns the human label used for output sheets and files.
func (b Basis) SheetName() string {
	switch b {
	case Day1:
		return "Day 1"
	case Day2:
		return "Day 2"
	case Average:
		return "Average"
	default:
		return b.String()
	}
}

// ParseBasis parses a basis key. Sheet labels are accepted too.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day1", "day 1", "prelims":
		return Day1, nil
	case "day2", "day 2", "finals":
		return Day2, nil
	case "avg", "average", "":
		return Average, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBasis, s)
}
