// Package report turns resolved team tables and rosters into the ranked
// views shown to users: top teams with substitution annotations and
// athlete leaderboards.
package report

import (
	"cmp"
	"slices"

	"github.com/okian/gymteams/internal/domain/scoring"
)

// TopTeams returns the k best teams by descending score, ties broken by
// ascending id. k <= 0 or k > len(teams) returns every team. teams is
// not reordered.
func TopTeams(teams []scoring.Team, k int) []scoring.Team {
	sorted := slices.Clone(teams)
	slices.SortFunc(sorted, compareTeams)
	if k > 0 && k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted
}

// TopIDs returns the ids of TopTeams(teams, k) in rank order.
func TopIDs(teams []scoring.Team, k int) []int {
	top := TopTeams(teams, k)
	ids := make([]int, len(top))
	for i := range top {
		ids[i] = top[i].ID
	}
	return ids
}

func compareTeams(a, b scoring.Team) int {
	return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.ID, b.ID))
}

// Gap returns score relative to the leader: zero for the leader itself and
// a negative distance for everyone behind, rounded like team totals.
func Gap(score, leader float64) float64 {
	return scoring.Round(score-leader, scoring.TeamScoreDecimals)
}
