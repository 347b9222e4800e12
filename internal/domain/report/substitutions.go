package report

import (
	"cmp"
	"slices"

	"github.com/okian/gymteams/internal/domain/scoring"
)

// Substitution splits the members of equivalent lineups into those present
// in every lineup and those that can be swapped without changing the
// counted score.
type Substitution struct {
	TeamID    int
	Constants []string
	Variables []string
}

// Substitutions reports, for every id in top that absorbed duplicates, the
// constant and variable members across the representative and all its
// duplicates. Ids without duplicates are omitted.
func Substitutions(top []int, duplicates map[int][]int, table *scoring.Table) map[int]Substitution {
	out := make(map[int]Substitution)
	for _, id := range top {
		dups, ok := duplicates[id]
		if !ok || len(dups) == 0 {
			continue
		}
		lineups := make([]int, 0, 1+len(dups))
		lineups = append(lineups, id)
		lineups = append(lineups, dups...)
		if sub, ok := split(id, lineups, table); ok {
			out[id] = sub
		}
	}
	return out
}

type occurrence struct {
	name  string
	count int
	first int
}

// split counts every member name across lineups. Names present in every
// lineup are constant. The rest are variable, most frequent first; equal
// counts keep first-appearance order, which follows lineup id order.
func split(id int, lineups []int, table *scoring.Table) (Substitution, bool) {
	counts := make(map[string]*occurrence)
	var order []*occurrence
	for _, lid := range lineups {
		team, ok := table.Team(lid)
		if !ok {
			return Substitution{}, false
		}
		for _, name := range table.MemberNames(team) {
			o, seen := counts[name]
			if !seen {
				o = &occurrence{name: name, first: len(order)}
				counts[name] = o
				order = append(order, o)
			}
			o.count++
		}
	}
	slices.SortStableFunc(order, func(a, b *occurrence) int {
		return cmp.Or(cmp.Compare(b.count, a.count), cmp.Compare(a.first, b.first))
	})

	sub := Substitution{TeamID: id}
	for _, o := range order {
		if o.count == len(lineups) {
			sub.Constants = append(sub.Constants, o.name)
		} else {
			sub.Variables = append(sub.Variables, o.name)
		}
	}
	return sub, true
}
