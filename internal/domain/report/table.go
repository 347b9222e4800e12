package report

import (
	"slices"
	"strings"

	"github.com/okian/gymteams/internal/domain/scoring"
)

// TeamRow is one line of the top-team table.
type TeamRow struct {
	Rank    int
	TeamID  int
	Score   float64
	Gap     float64
	Members [scoring.TeamSize]string
	// Flag marks a team whose lineup has interchangeable members. The
	// first variable member in Members carries the same marker.
	Flag string
	// CouldBe lists every interchangeable member for a flagged team.
	CouldBe []string
}

// TopTable builds the ranked top-team table for the k best representatives.
// Flags are assigned in rank order: "*", "**" and so on. Teams tied on
// score share a rank.
func TopTable(reps []scoring.Team, duplicates map[int][]int, table *scoring.Table, k int) []TeamRow {
	top := TopTeams(reps, k)
	ids := make([]int, len(top))
	for i := range top {
		ids[i] = top[i].ID
	}
	subs := Substitutions(ids, duplicates, table)

	rows := make([]TeamRow, len(top))
	flagged := 0
	for i := range top {
		t := &top[i]
		row := TeamRow{
			TeamID:  t.ID,
			Score:   t.Score,
			Gap:     Gap(t.Score, top[0].Score),
			Members: table.MemberNames(t),
		}
		if sub, ok := subs[t.ID]; ok {
			flagged++
			row.Flag = strings.Repeat("*", flagged)
			row.CouldBe = sub.Variables
			for m, name := range row.Members {
				if slices.Contains(sub.Variables, name) {
					row.Members[m] = name + row.Flag
					break
				}
			}
		}
		rows[i] = row
	}
	assignRanks(len(rows), func(i int) int64 {
		return scoring.ScoreKey(rows[i].Score, scoring.TeamScoreDecimals)
	}, func(i, rank int) { rows[i].Rank = rank })
	return rows
}

// Annotations renders the "Could be any of" notes for flagged rows, one
// line per flag.
func Annotations(rows []TeamRow) []string {
	var out []string
	for _, r := range rows {
		if r.Flag == "" {
			continue
		}
		out = append(out, r.Flag+" "+strings.Join(r.CouldBe, ", "))
	}
	if len(out) > 0 {
		out = append([]string{"Could be any of:"}, out...)
	}
	return out
}
