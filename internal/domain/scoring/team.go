// Package scoring enumerates every 5-athlete team and scores it under the
// 3-up-3-count format: on each event only the top three of five scores count.
package scoring

import (
	"math"

	"github.com/okian/gymteams/internal/domain/model"
)

// Team format constants.
const (
	TeamSize       = 5
	Counted        = 3
	EntriesPerTeam = model.NumEvents * Counted
)

// TeamScoreDecimals is the precision team totals are rounded to. Ties
// between teams are detected at this precision.
const TeamScoreDecimals = 2

// Entry is one counting performance: an athlete's score on an event and
// its rank (1..3) among the team's counted scores on that event.
type Entry struct {
	Athlete int
	Event   model.Event
	Rank    int
	Score   float64
}

// Team is one 5-athlete combination. ID is the combination's rank in
// lexicographic enumeration order over roster positions.
type Team struct {
	ID      int
	Score   float64
	Members [TeamSize]int
	// Counting holds the three counted entries per event, best first.
	Counting [model.NumEvents][Counted]Entry
}

// Entries returns the 12 counting entries in event then rank order.
func (t *Team) Entries() []Entry {
	out := make([]Entry, 0, EntriesPerTeam)
	for e := range t.Counting {
		out = append(out, t.Counting[e][:]...)
	}
	return out
}

// EventTotal returns the sum of the counted scores on one event.
func (t *Team) EventTotal(e model.Event) float64 {
	var s float64
	for _, c := range t.Counting[e] {
		s += c.Score
	}
	return s
}

// HasMember reports whether athlete id is one of the five members.
func (t *Team) HasMember(id int) bool {
	for _, m := range t.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Table holds every team for one basis, indexed by combination ID.
type Table struct {
	Basis  model.Basis
	Roster *model.Roster
	Teams  []Team
}

// Len returns the number of teams.
func (t *Table) Len() int { return len(t.Teams) }

// Team returns the team with the given combination ID.
func (t *Table) Team(id int) (*Team, bool) {
	if id < 0 || id >= len(t.Teams) || t.Teams[id].ID != id {
		return nil, false
	}
	return &t.Teams[id], true
}

// MemberNames resolves a team's member ids to names.
func (t *Table) MemberNames(team *Team) [TeamSize]string {
	var out [TeamSize]string
	l := t.Roster.Lookup()
	for i, m := range team.Members {
		out[i] = l.Name(m)
	}
	return out
}

// Round rounds x to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

// ScoreKey converts a score to a fixed-point integer at the given precision
// so equal scores compare equal regardless of float noise.
func ScoreKey(x float64, decimals int) int64 {
	if math.IsNaN(x) {
		return 0
	}
	return int64(math.Round(x * math.Pow10(decimals)))
}
